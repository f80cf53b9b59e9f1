package preflight

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sys/unix"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// CheckDirectoryAccess verifies path is an existing directory the user can
// read, write, and traverse.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckStateDir verifies the state directory is usable, or can be created
// when it does not exist yet.
func CheckStateDir(path string) Result {
	const name = "Config directory"

	if _, err := os.Stat(path); err == nil || !os.IsNotExist(err) {
		return CheckDirectoryAccess(name, path)
	}

	parent := filepath.Dir(path)
	for {
		if _, err := os.Stat(parent); err == nil {
			break
		}
		next := filepath.Dir(parent)
		if next == parent {
			break
		}
		parent = next
	}
	check := CheckDirectoryAccess(name, parent)
	if !check.Passed {
		return check
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (will be created)", path)}
}

// HTTPDoer is the HTTP client used by CheckChief.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

const versionPath = "/api/v1/version"

// CheckChief asks the chief at address for its version. A chief that does
// not expose the version endpoint still counts as reachable.
func CheckChief(ctx context.Context, address string, client HTTPDoer) Result {
	const name = "Chief"

	base := strings.TrimRight(strings.TrimSpace(address), "/")
	if base == "" {
		return Result{Name: name, Detail: "address not configured"}
	}
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(checkCtx, http.MethodGet, base+versionPath, nil)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", base, err)}
	}
	req.Header.Set("Accept", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (unreachable: %v)", base, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return Result{Name: name, Detail: fmt.Sprintf("%s (server error %d)", base, resp.StatusCode)}
	}
	if resp.StatusCode != http.StatusOK {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (reachable)", base)}
	}

	var payload struct {
		Version string `json:"version"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&payload); err != nil || strings.TrimSpace(payload.Version) == "" {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (reachable)", base)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (reachable, version %s)", base, strings.TrimSpace(payload.Version))}
}
