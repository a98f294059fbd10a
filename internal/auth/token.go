// Package auth finds the bearer token used to talk to the assessment API.
//
// The token is issued by the web login flow. It is read from the
// SKILLCHECK_TOKEN environment variable or, failing that, from a token
// file under the user config directory written by `skillcheck login`.
package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnvToken is the environment variable consulted before the token file.
const EnvToken = "SKILLCHECK_TOKEN"

// ErrNoToken is returned when no token is configured.
var ErrNoToken = errors.New("no auth token configured")

// Store reads and writes the token.
type Store struct {
	// Path is the token file. Empty means DefaultPath.
	Path string

	// Getenv looks up environment variables. Default: os.Getenv.
	Getenv func(string) string
}

// DefaultPath returns $XDG_CONFIG_HOME/skillcheck/token or the platform
// equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "skillcheck", "token"), nil
}

func (s *Store) path() (string, error) {
	if s.Path != "" {
		return s.Path, nil
	}
	return DefaultPath()
}

// Token returns the configured token or ErrNoToken.
func (s *Store) Token() (string, error) {
	getenv := s.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	if tok := strings.TrimSpace(getenv(EnvToken)); tok != "" {
		return tok, nil
	}

	p, err := s.path()
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	tok := strings.TrimSpace(string(data))
	if tok == "" {
		return "", ErrNoToken
	}
	return tok, nil
}

// Save writes token to the token file, readable only by the user.
func (s *Store) Save(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrNoToken
	}
	p, err := s.path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	if err := os.WriteFile(p, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	return nil
}

// Clear removes the token file. A missing file is not an error.
func (s *Store) Clear() error {
	p, err := s.path()
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove token: %w", err)
	}
	return nil
}
