package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"irgsh/internal/config"
)

// HomeOption customizes a temporary home created by NewHome.
type HomeOption func(*homeBuilder)

type homeBuilder struct {
	t    testing.TB
	home string
}

// NewHome returns a HomeProvider rooted at a fresh temp directory with the
// provided options applied.
func NewHome(t testing.TB, opts ...HomeOption) config.StaticHome {
	t.Helper()

	builder := &homeBuilder{t: t, home: filepath.Join(t.TempDir(), "home")}
	if err := os.MkdirAll(builder.home, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	for _, opt := range opts {
		opt(builder)
	}
	return config.StaticHome(builder.home)
}

// WithChiefAddress stores address as if init had been run.
func WithChiefAddress(address string) HomeOption {
	return func(b *homeBuilder) {
		b.t.Helper()
		if _, err := config.NewStore(config.StaticHome(b.home)).SaveChiefAddress(address); err != nil {
			b.t.Fatalf("seed chief address: %v", err)
		}
	}
}

// WithSettings writes raw TOML to settings.toml.
func WithSettings(content string) HomeOption {
	return func(b *homeBuilder) {
		b.t.Helper()
		dir := filepath.Join(b.home, ".irgsh")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			b.t.Fatalf("mkdir state dir: %v", err)
		}
		if err := os.WriteFile(filepath.Join(dir, "settings.toml"), []byte(content), 0o644); err != nil {
			b.t.Fatalf("write settings: %v", err)
		}
	}
}

// WithHTTPTransport switches the chief transport to HTTP with a short poll
// interval.
func WithHTTPTransport() HomeOption {
	return WithSettings("[chief]\ntransport = \"http\"\npoll_interval_seconds = 1\ntimeout_seconds = 5\n")
}

// ReadChiefAddress returns the raw contents of the chief address file.
func ReadChiefAddress(t testing.TB, home config.StaticHome) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(string(home), ".irgsh", "IRGSH_CHIEF_ADDRESS"))
	if err != nil {
		t.Fatalf("read chief address: %v", err)
	}
	return string(data)
}
