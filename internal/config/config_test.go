package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"irgsh/internal/config"
)

func TestSaveChiefAddressStoresValueVerbatim(t *testing.T) {
	home := t.TempDir()
	store := config.NewStore(config.StaticHome(home))

	path, err := store.SaveChiefAddress("http://chief.example")
	if err != nil {
		t.Fatalf("SaveChiefAddress: %v", err)
	}
	if want := filepath.Join(home, ".irgsh", "IRGSH_CHIEF_ADDRESS"); path != want {
		t.Fatalf("unexpected path: got %q want %q", path, want)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read address: %v", err)
	}
	if string(data) != "http://chief.example" {
		t.Fatalf("unexpected contents %q", data)
	}
}

func TestSaveChiefAddressOverwrites(t *testing.T) {
	store := config.NewStore(config.StaticHome(t.TempDir()))

	if _, err := store.SaveChiefAddress("http://first.example/with/a/long/path"); err != nil {
		t.Fatalf("first save: %v", err)
	}
	path, err := store.SaveChiefAddress("http://second")
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read address: %v", err)
	}
	if string(data) != "http://second" {
		t.Fatalf("expected overwrite, got %q", data)
	}
}

func TestSaveChiefAddressAcceptsUnvalidatedInput(t *testing.T) {
	store := config.NewStore(config.StaticHome(t.TempDir()))

	if _, err := store.SaveChiefAddress("not a url"); err != nil {
		t.Fatalf("SaveChiefAddress: %v", err)
	}
	got, err := store.LoadChiefAddress()
	if err != nil {
		t.Fatalf("LoadChiefAddress: %v", err)
	}
	if got != "not a url" {
		t.Fatalf("unexpected address %q", got)
	}
}

func TestSaveChiefAddressIsIdempotentOnExistingDir(t *testing.T) {
	home := t.TempDir()
	if err := os.MkdirAll(filepath.Join(home, ".irgsh"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	store := config.NewStore(config.StaticHome(home))
	if _, err := store.SaveChiefAddress("http://chief"); err != nil {
		t.Fatalf("SaveChiefAddress with existing dir: %v", err)
	}
}

func TestSaveChiefAddressFailsWhenDirectoryIsAFile(t *testing.T) {
	home := t.TempDir()
	if err := os.WriteFile(filepath.Join(home, ".irgsh"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}
	store := config.NewStore(config.StaticHome(home))
	if _, err := store.SaveChiefAddress("http://chief"); err == nil {
		t.Fatal("expected error when .irgsh is a regular file")
	}
}

func TestLoadChiefAddressMissing(t *testing.T) {
	store := config.NewStore(config.StaticHome(t.TempDir()))

	_, err := store.LoadChiefAddress()
	if !errors.Is(err, config.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if !strings.Contains(err.Error(), "init") {
		t.Fatalf("expected error to point at init, got %q", err)
	}
}

func TestLoadChiefAddressEmptyFile(t *testing.T) {
	home := t.TempDir()
	dir := filepath.Join(home, ".irgsh")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "IRGSH_CHIEF_ADDRESS"), []byte("  \n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	store := config.NewStore(config.StaticHome(home))
	if _, err := store.LoadChiefAddress(); !errors.Is(err, config.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured for blank file, got %v", err)
	}
}

func TestLoadChiefAddressTrimsTrailingNewline(t *testing.T) {
	home := t.TempDir()
	dir := filepath.Join(home, ".irgsh")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "IRGSH_CHIEF_ADDRESS"), []byte("http://chief\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := config.NewStore(config.StaticHome(home)).LoadChiefAddress()
	if err != nil {
		t.Fatalf("LoadChiefAddress: %v", err)
	}
	if got != "http://chief" {
		t.Fatalf("unexpected address %q", got)
	}
}

func TestLoadSettingsDefaultsWhenMissing(t *testing.T) {
	store := config.NewStore(config.StaticHome(t.TempDir()))

	settings, exists, err := store.LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if exists {
		t.Fatal("expected settings file to be absent")
	}
	if settings.Chief.Transport != config.TransportPlaceholder {
		t.Fatalf("unexpected transport %q", settings.Chief.Transport)
	}
	if settings.Timeout().Seconds() != 30 {
		t.Fatalf("unexpected timeout %s", settings.Timeout())
	}
	if settings.PollInterval().Seconds() != 5 {
		t.Fatalf("unexpected poll interval %s", settings.PollInterval())
	}
	if settings.Logging.Level != "warn" || settings.Logging.Format != "console" {
		t.Fatalf("unexpected logging defaults %+v", settings.Logging)
	}
	if !settings.History.Enabled {
		t.Fatal("expected history enabled by default")
	}
}

func TestLoadSettingsParsesFile(t *testing.T) {
	home := t.TempDir()
	store := config.NewStore(config.StaticHome(home))
	dir, err := store.EnsureDir()
	if err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}
	content := "[chief]\ntransport = \" HTTP \"\npoll_interval_seconds = 1\n\n[logging]\nlevel = \"debug\"\nformat = \"json\"\n\n[history]\nenabled = false\n"
	if err := os.WriteFile(filepath.Join(dir, "settings.toml"), []byte(content), 0o644); err != nil {
		t.Fatalf("write settings: %v", err)
	}

	settings, exists, err := store.LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if !exists {
		t.Fatal("expected settings file to exist")
	}
	if settings.Chief.Transport != config.TransportHTTP {
		t.Fatalf("expected normalized transport, got %q", settings.Chief.Transport)
	}
	if settings.Chief.PollIntervalSeconds != 1 {
		t.Fatalf("unexpected poll interval %d", settings.Chief.PollIntervalSeconds)
	}
	if settings.Chief.TimeoutSeconds != 30 {
		t.Fatalf("expected default timeout, got %d", settings.Chief.TimeoutSeconds)
	}
	if settings.Logging.Level != "debug" || settings.Logging.Format != "json" {
		t.Fatalf("unexpected logging %+v", settings.Logging)
	}
	if settings.History.Enabled {
		t.Fatal("expected history disabled")
	}
}

func TestLoadSettingsRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"transport": "[chief]\ntransport = \"grpc\"\n",
		"timeout":   "[chief]\ntimeout_seconds = -1\n",
		"level":     "[logging]\nlevel = \"loud\"\n",
		"format":    "[logging]\nformat = \"xml\"\n",
		"syntax":    "[chief\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			store := config.NewStore(config.StaticHome(t.TempDir()))
			dir, err := store.EnsureDir()
			if err != nil {
				t.Fatalf("EnsureDir: %v", err)
			}
			if err := os.WriteFile(filepath.Join(dir, "settings.toml"), []byte(content), 0o644); err != nil {
				t.Fatalf("write settings: %v", err)
			}
			if _, _, err := store.LoadSettings(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestSaveSettingsRoundTrip(t *testing.T) {
	store := config.NewStore(config.StaticHome(t.TempDir()))
	settings := config.Default()
	settings.Chief.Transport = config.TransportHTTP

	path, err := store.SaveSettings(settings)
	if err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read settings: %v", err)
	}
	var decoded config.Settings
	if err := toml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode settings: %v", err)
	}
	if decoded.Chief.Transport != config.TransportHTTP {
		t.Fatalf("unexpected transport %q", decoded.Chief.Transport)
	}
}

func TestStaticHomeRejectsEmpty(t *testing.T) {
	if _, err := config.StaticHome("").HomeDir(); err == nil {
		t.Fatal("expected error for empty home")
	}
	store := config.NewStore(config.StaticHome(" "))
	if _, err := store.Dir(); err == nil {
		t.Fatal("expected Dir to fail for empty home")
	}
}
