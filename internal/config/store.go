package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/pelletier/go-toml/v2"

	"irgsh/internal/fileutil"
)

// ErrNotConfigured reports that init has not stored a chief address yet.
var ErrNotConfigured = errors.New("irgsh-cli is not configured; run: irgsh-cli init --chief <URL>")

// Store reads and writes the client state directory.
type Store struct {
	home HomeProvider
}

// NewStore returns a Store rooted at the provider's home directory. A nil
// provider falls back to the invoking user's home.
func NewStore(home HomeProvider) *Store {
	if home == nil {
		home = UserHome{}
	}
	return &Store{home: home}
}

// Dir returns the absolute path of the .irgsh directory.
func (s *Store) Dir() (string, error) {
	home, err := s.home.HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, dirName), nil
}

// AddressPath returns the path of the chief address file.
func (s *Store) AddressPath() (string, error) {
	return s.path(chiefAddressFile)
}

// SettingsPath returns the path of the optional settings file.
func (s *Store) SettingsPath() (string, error) {
	return s.path(settingsFile)
}

// HistoryPath returns the path of the submission history database.
func (s *Store) HistoryPath() (string, error) {
	return s.path(historyFile)
}

func (s *Store) path(name string) (string, error) {
	dir, err := s.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// EnsureDir creates the state directory when it does not exist yet.
func (s *Store) EnsureDir() (string, error) {
	dir, err := s.Dir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory %q: %w", dir, err)
	}
	return dir, nil
}

// SaveChiefAddress creates or replaces the chief address file. The value is
// stored verbatim; no URL validation is applied.
func (s *Store) SaveChiefAddress(address string) (string, error) {
	dir, err := s.EnsureDir()
	if err != nil {
		return "", err
	}

	lock := flock.New(filepath.Join(dir, lockFile))
	if err := lock.Lock(); err != nil {
		return "", fmt.Errorf("lock config directory: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	target := filepath.Join(dir, chiefAddressFile)
	if err := fileutil.WriteFileAtomic(target, []byte(address), 0o644); err != nil {
		return "", fmt.Errorf("write chief address: %w", err)
	}
	return target, nil
}

// LoadChiefAddress returns the stored chief address or ErrNotConfigured.
func (s *Store) LoadChiefAddress() (string, error) {
	target, err := s.AddressPath()
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrNotConfigured
		}
		return "", fmt.Errorf("read chief address: %w", err)
	}
	address := strings.TrimSpace(string(data))
	if address == "" {
		return "", ErrNotConfigured
	}
	return address, nil
}

// LoadSettings reads settings.toml. A missing file yields defaults; the
// returned bool reports whether the file existed.
func (s *Store) LoadSettings() (*Settings, bool, error) {
	settings := Default()

	target, err := s.SettingsPath()
	if err != nil {
		return nil, false, err
	}

	file, err := os.Open(target)
	exists := err == nil
	switch {
	case exists:
		defer file.Close()
		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&settings); err != nil {
			return nil, false, fmt.Errorf("parse settings: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, false, fmt.Errorf("open settings: %w", err)
	}

	settings.normalize()
	if err := settings.Validate(); err != nil {
		return nil, false, err
	}
	return &settings, exists, nil
}

// SaveSettings writes settings as TOML, replacing any existing file.
func (s *Store) SaveSettings(settings Settings) (string, error) {
	dir, err := s.EnsureDir()
	if err != nil {
		return "", err
	}
	data, err := toml.Marshal(settings)
	if err != nil {
		return "", fmt.Errorf("encode settings: %w", err)
	}

	lock := flock.New(filepath.Join(dir, lockFile))
	if err := lock.Lock(); err != nil {
		return "", fmt.Errorf("lock config directory: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	target := filepath.Join(dir, settingsFile)
	if err := fileutil.WriteFileAtomic(target, data, 0o644); err != nil {
		return "", fmt.Errorf("write settings: %w", err)
	}
	return target, nil
}
