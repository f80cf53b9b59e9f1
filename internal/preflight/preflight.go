package preflight

import "context"

// Target describes what RunAll should inspect.
type Target struct {
	StateDir     string
	ChiefAddress string
	// CheckRemote enables the chief reachability check.
	CheckRemote bool
	HTTPClient  HTTPDoer
}

// RunAll executes every applicable check for target.
func RunAll(ctx context.Context, target Target) []Result {
	results := []Result{CheckStateDir(target.StateDir)}
	if target.CheckRemote {
		results = append(results, CheckChief(ctx, target.ChiefAddress, target.HTTPClient))
	}
	return results
}

// AllPassed reports whether every result passed.
func AllPassed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}
