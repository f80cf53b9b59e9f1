package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// HomeProvider resolves the directory that holds the .irgsh state directory.
type HomeProvider interface {
	HomeDir() (string, error)
}

// UserHome resolves the invoking user's home directory.
type UserHome struct{}

// HomeDir implements HomeProvider.
func (UserHome) HomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return home, nil
}

// StaticHome always resolves to the wrapped directory.
type StaticHome string

// HomeDir implements HomeProvider.
func (h StaticHome) HomeDir() (string, error) {
	dir := strings.TrimSpace(string(h))
	if dir == "" {
		return "", errors.New("resolve home directory: empty path")
	}
	return dir, nil
}
