package main

import (
	"bytes"
	"strings"
	"testing"

	"irgsh/internal/config"
)

func runCLI(t *testing.T, home config.HomeProvider, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand(withHome(home))
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func requireLineContaining(t *testing.T, output, substr string) string {
	t.Helper()
	for _, line := range strings.Split(output, "\n") {
		if strings.Contains(line, substr) {
			return line
		}
	}
	t.Fatalf("expected a line containing %q in %q", substr, output)
	return ""
}
