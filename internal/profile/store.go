// Package profile persists the single user profile in a JSON file.
// There is exactly one user; the store is a record, not a table.
package profile

import (
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/heetd/job-assistant/internal/jobs"
)

// Store is the file-backed profile record.
type Store struct {
	path   string
	logger *zap.Logger
}

// NewStore creates a store over the given profile file.
func NewStore(path string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{path: path, logger: logger}
}

// Load reads the stored profile, field-wise defaulted. A missing or
// unreadable file yields the default profile.
func (s *Store) Load() *jobs.Profile {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return jobs.DefaultProfile()
	}

	var p jobs.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		s.logger.Warn("profile file is corrupt, using defaults",
			zap.String("path", s.path), zap.Error(err))
		return jobs.DefaultProfile()
	}

	p.ApplyDefaults()
	return &p
}

// Save validates and writes the profile.
func (s *Store) Save(p *jobs.Profile) error {
	if p.Name == "" || p.Domain == "" || p.Email == "" || len(p.Skills) == 0 {
		return fmt.Errorf("profile requires name, domain, email, and at least one skill")
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding profile: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("writing profile file: %w", err)
	}

	s.logger.Info("profile updated", zap.String("name", p.Name))
	return nil
}
