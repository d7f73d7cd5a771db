// Package ai defines the provider-agnostic chat-completion contract and the
// registry used to select a provider implementation by name.
package ai

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// ErrProviderCall marks a failed provider invocation (network, auth, quota).
// The analysis engine and pre-filter catch it locally and fall back to
// rule-based behavior; it never propagates to the extension.
var ErrProviderCall = errors.New("provider call failed")

// Request is a single chat-completion invocation.
type Request struct {
	System      string
	User        string
	MaxTokens   int
	Temperature float64
}

// Client is a chat-completion provider. Implementations are blocking and
// carry no retry logic: on failure callers downgrade, they do not retry.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
	Provider() string
	Model() string
}

// ProviderConfig is the decrypted configuration for one provider.
type ProviderConfig struct {
	Provider            string  `json:"provider" mapstructure:"provider"`
	APIKey              string  `json:"api_key,omitempty" mapstructure:"api_key"`
	Model               string  `json:"model,omitempty" mapstructure:"model"`
	Temperature         float64 `json:"temperature" mapstructure:"temperature"`
	MaxTokens           int     `json:"max_tokens" mapstructure:"max_tokens"`
	EnableOptimizations bool    `json:"enable_optimizations" mapstructure:"enable_optimizations"`
}

// Usable reports whether the config can back an AI call at all.
func (c *ProviderConfig) Usable() bool {
	return c != nil && strings.TrimSpace(c.APIKey) != ""
}

// Factory builds a provider client from its decrypted configuration.
type Factory func(cfg ProviderConfig, logger *zap.Logger) (Client, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

// Register makes a provider implementation available under the given name.
// Provider packages call it from init, driver-style.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		panic("ai: Register with empty provider name")
	}
	if _, dup := registry[name]; dup {
		panic("ai: Register called twice for provider " + name)
	}
	registry[name] = factory
}

// Providers returns the registered provider names, sorted.
func Providers() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New builds a client for the provider named in the config.
func New(cfg ProviderConfig, logger *zap.Logger) (Client, error) {
	registryMu.RLock()
	factory, ok := registry[strings.ToLower(strings.TrimSpace(cfg.Provider))]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	return factory(cfg, logger)
}

// ConnectionTest is the outcome of a live provider check.
type ConnectionTest struct {
	Success  bool   `json:"success"`
	Model    string `json:"model,omitempty"`
	Response string `json:"response,omitempty"`
	Error    string `json:"error,omitempty"`
}

// TestConnection issues one tiny completion to verify the credentials work.
// This is the authoritative key check; format validation is only a guard.
func TestConnection(ctx context.Context, client Client) ConnectionTest {
	out, err := client.Complete(ctx, Request{
		User:      "Hello",
		MaxTokens: 5,
	})
	if err != nil {
		return ConnectionTest{Success: false, Error: err.Error()}
	}

	return ConnectionTest{
		Success:  true,
		Model:    client.Model(),
		Response: strings.TrimSpace(out),
	}
}
