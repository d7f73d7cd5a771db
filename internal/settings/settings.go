// Package settings persists per-provider AI credentials and tunables in a
// single JSON file, with API keys encrypted through the vault.
//
// The file is rewritten wholesale on every save. That is not safe for
// concurrent multi-process writers; a single backend process (or an
// external lock) is assumed to serialize writes.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/heetd/job-assistant/internal/ai"
	"github.com/heetd/job-assistant/internal/vault"
)

const fileVersion = "1.0.0"

// ErrInvalidKeyFormat marks an API key rejected by the format heuristic.
// Nothing is written when it is returned.
var ErrInvalidKeyFormat = errors.New("invalid api key format")

// Params are the tunables stored alongside an encrypted key.
type Params struct {
	Model               string  `json:"model,omitempty" mapstructure:"model"`
	Temperature         float64 `json:"temperature,omitempty" mapstructure:"temperature"`
	MaxTokens           int     `json:"max_tokens,omitempty" mapstructure:"max_tokens"`
	EnableOptimizations bool    `json:"enable_optimizations" mapstructure:"enable_optimizations"`
}

// ProviderView is what callers see for a stored provider. The encrypted
// key never leaves the store.
type ProviderView struct {
	Provider    string `json:"provider"`
	LastUpdated string `json:"last_updated,omitempty"`
	Params
}

// KeyStatus describes one stored key without revealing it.
type KeyStatus struct {
	Provider        string `json:"provider"`
	HasEncryptedKey bool   `json:"has_encrypted_key"`
	CanDecrypt      bool   `json:"can_decrypt"`
	KeyPreview      string `json:"key_preview,omitempty"`
	LastUpdated     string `json:"last_updated,omitempty"`
	Active          bool   `json:"active"`
}

type record struct {
	EncryptedAPIKey     string  `json:"encrypted_api_key" mapstructure:"encrypted_api_key"`
	Model               string  `json:"model,omitempty" mapstructure:"model"`
	Temperature         float64 `json:"temperature,omitempty" mapstructure:"temperature"`
	MaxTokens           int     `json:"max_tokens,omitempty" mapstructure:"max_tokens"`
	EnableOptimizations bool    `json:"enable_optimizations" mapstructure:"enable_optimizations"`
	LastUpdated         string  `json:"last_updated,omitempty" mapstructure:"last_updated"`
}

type fileFormat struct {
	Version        string                    `json:"version,omitempty"`
	LastUpdated    string                    `json:"last_updated,omitempty"`
	ActiveProvider string                    `json:"active_provider,omitempty"`
	Providers      map[string]map[string]any `json:"providers,omitempty"`
}

// Store is the file-backed provider settings store.
type Store struct {
	path   string
	vault  *vault.Vault
	logger *zap.Logger
}

// NewStore creates a store over the given settings file.
func NewStore(path string, v *vault.Vault, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{path: path, vault: v, logger: logger}
}

// load reads the settings file. A missing, empty, or corrupt file reads as
// empty settings: this store is advisory state, not a source of truth.
func (s *Store) load() *fileFormat {
	empty := &fileFormat{Version: fileVersion, Providers: map[string]map[string]any{}}

	data, err := os.ReadFile(s.path)
	if err != nil || len(strings.TrimSpace(string(data))) == 0 {
		return empty
	}

	var parsed fileFormat
	if err := json.Unmarshal(data, &parsed); err != nil {
		s.logger.Warn("settings file is corrupt, treating as empty",
			zap.String("path", s.path), zap.Error(err))
		return empty
	}

	if parsed.Providers == nil {
		parsed.Providers = map[string]map[string]any{}
	}
	return &parsed
}

func (s *Store) write(settings *fileFormat) error {
	settings.Version = fileVersion
	settings.LastUpdated = time.Now().UTC().Format(time.RFC3339)

	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("opening settings file: %w", err)
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(settings); err != nil {
		return fmt.Errorf("writing settings file: %w", err)
	}
	return nil
}

func (s *Store) decodeRecord(raw map[string]any) (*record, error) {
	var rec record
	if err := mapstructure.Decode(raw, &rec); err != nil {
		return nil, fmt.Errorf("decoding provider record: %w", err)
	}
	return &rec, nil
}

// Save validates, encrypts, and stores an API key with its params. The
// saved provider implicitly becomes the active one.
func (s *Store) Save(provider, apiKey string, params Params) error {
	provider = strings.ToLower(strings.TrimSpace(provider))

	if !vault.ValidateKeyFormat(provider, apiKey) {
		return fmt.Errorf("%w for %s", ErrInvalidKeyFormat, provider)
	}

	encrypted, err := s.vault.Encrypt(apiKey)
	if err != nil {
		return fmt.Errorf("encrypting api key: %w", err)
	}

	settings := s.load()
	settings.Providers[provider] = map[string]any{
		"encrypted_api_key":    encrypted,
		"model":                params.Model,
		"temperature":          params.Temperature,
		"max_tokens":           params.MaxTokens,
		"enable_optimizations": params.EnableOptimizations,
		"last_updated":         time.Now().UTC().Format(time.RFC3339),
	}
	settings.ActiveProvider = provider

	if err := s.write(settings); err != nil {
		return err
	}

	s.logger.Info("stored provider api key", zap.String("provider", provider))
	return nil
}

// ProviderSettings returns display-safe settings for the named provider,
// or for the active provider when the name is empty. Never includes key
// material.
func (s *Store) ProviderSettings(provider string) *ProviderView {
	settings := s.load()

	if provider == "" {
		provider = settings.ActiveProvider
	}
	raw, ok := settings.Providers[provider]
	if provider == "" || !ok {
		return nil
	}

	rec, err := s.decodeRecord(raw)
	if err != nil {
		return nil
	}

	return &ProviderView{
		Provider:    provider,
		LastUpdated: rec.LastUpdated,
		Params: Params{
			Model:               rec.Model,
			Temperature:         rec.Temperature,
			MaxTokens:           rec.MaxTokens,
			EnableOptimizations: rec.EnableOptimizations,
		},
	}
}

// DecryptedKey returns the plaintext API key for a provider, or an empty
// string when the provider is unknown or the token does not decrypt.
// Decryption failure means "no usable key", never a crash.
func (s *Store) DecryptedKey(provider string) string {
	settings := s.load()

	raw, ok := settings.Providers[provider]
	if !ok {
		return ""
	}

	rec, err := s.decodeRecord(raw)
	if err != nil || rec.EncryptedAPIKey == "" {
		return ""
	}

	key, err := s.vault.Decrypt(rec.EncryptedAPIKey)
	if err != nil {
		s.logger.Warn("stored api key failed to decrypt",
			zap.String("provider", provider), zap.Error(err))
		return ""
	}
	return key
}

// ActiveConfig returns the full decrypted configuration for the active
// provider, or an empty config when no provider is usable.
func (s *Store) ActiveConfig() ai.ProviderConfig {
	settings := s.load()

	provider := settings.ActiveProvider
	if provider == "" {
		return ai.ProviderConfig{}
	}

	raw, ok := settings.Providers[provider]
	if !ok {
		return ai.ProviderConfig{}
	}

	rec, err := s.decodeRecord(raw)
	if err != nil {
		return ai.ProviderConfig{}
	}

	key := s.DecryptedKey(provider)
	if key == "" {
		return ai.ProviderConfig{}
	}

	cfg := ai.ProviderConfig{
		Provider:            provider,
		APIKey:              key,
		Model:               rec.Model,
		Temperature:         rec.Temperature,
		MaxTokens:           rec.MaxTokens,
		EnableOptimizations: rec.EnableOptimizations,
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.7
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1500
	}
	return cfg
}

// Clear removes one provider's settings. Clearing the active provider
// unsets it.
func (s *Store) Clear(provider string) error {
	settings := s.load()

	delete(settings.Providers, provider)
	if settings.ActiveProvider == provider {
		settings.ActiveProvider = ""
	}

	return s.write(settings)
}

// ClearAll removes every stored provider.
func (s *Store) ClearAll() error {
	return s.write(&fileFormat{Providers: map[string]map[string]any{}})
}

// Statuses reports the stored key state per provider, key material
// reduced to a short preview.
func (s *Store) Statuses() []KeyStatus {
	settings := s.load()

	statuses := make([]KeyStatus, 0, len(settings.Providers))
	for provider := range settings.Providers {
		rec, err := s.decodeRecord(settings.Providers[provider])
		if err != nil {
			continue
		}

		status := KeyStatus{
			Provider:        provider,
			HasEncryptedKey: rec.EncryptedAPIKey != "",
			LastUpdated:     rec.LastUpdated,
			Active:          provider == settings.ActiveProvider,
		}

		if key := s.DecryptedKey(provider); key != "" {
			status.CanDecrypt = true
			preview := key
			if len(preview) > 10 {
				preview = preview[:10]
			}
			status.KeyPreview = preview + "..."
		}

		statuses = append(statuses, status)
	}

	return statuses
}

// ActiveProvider returns the currently active provider name, if any.
func (s *Store) ActiveProvider() string {
	return s.load().ActiveProvider
}
