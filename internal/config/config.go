// Package config provides environment-backed key-value configuration with
// typed accessors and a write-back capability for generated secrets.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Store reads configuration from the process environment, optionally seeded
// from a .env file, and can persist generated secrets back to that file so
// they survive restarts.
type Store struct {
	envFile string
}

// NewStore creates a store backed by the given .env file. The file is loaded
// into the process environment when it exists; a missing file is fine.
func NewStore(envFile string) *Store {
	if envFile != "" {
		_ = godotenv.Load(envFile)
	}
	return &Store{envFile: envFile}
}

// EnvFile returns the path of the backing .env file.
func (s *Store) EnvFile() string {
	return s.envFile
}

// Get returns the value of the key, or def when the key is unset or empty.
func (s *Store) Get(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// GetBool parses the key as a boolean. Accepts true/1/yes/on.
func (s *Store) GetBool(key string, def bool) bool {
	v := strings.ToLower(s.Get(key, ""))
	if v == "" {
		return def
	}
	switch v {
	case "true", "1", "yes", "on":
		return true
	default:
		return false
	}
}

// GetInt parses the key as an integer, falling back to def on any error.
func (s *Store) GetInt(key string, def int) int {
	v := s.Get(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// GetFloat parses the key as a float, falling back to def on any error.
func (s *Store) GetFloat(key string, def float64) float64 {
	v := s.Get(key, "")
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

// Set updates the key in the process environment only.
func (s *Store) Set(key, value string) {
	os.Setenv(key, value)
}

// PersistSecret stores a generated secret in the process environment and
// appends it to the backing .env file. Idempotent: when the file already
// defines the key, the file is left untouched and the existing value wins.
func (s *Store) PersistSecret(key, value string) error {
	if existing, ok, err := s.fileValue(key); err == nil && ok {
		os.Setenv(key, existing)
		return nil
	}

	os.Setenv(key, value)

	if s.envFile == "" {
		return nil
	}

	f, err := os.OpenFile(s.envFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("opening env file %q: %w", s.envFile, err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "\n# Auto-generated\n%s=%s\n", key, value); err != nil {
		return fmt.Errorf("writing %s to env file: %w", key, err)
	}

	return nil
}

// fileValue reports whether the backing file already defines the key.
func (s *Store) fileValue(key string) (string, bool, error) {
	if s.envFile == "" {
		return "", false, nil
	}

	values, err := godotenv.Read(s.envFile)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, err
	}

	v, ok := values[key]
	return v, ok && strings.TrimSpace(v) != "", nil
}
