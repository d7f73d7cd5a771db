package settings

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/heetd/job-assistant/internal/vault"
)

const testKey = "gsk_0123456789012345678901234567890123456789"

func newTestStore(t *testing.T) *Store {
	t.Helper()

	v, err := vault.New("test-master-secret")
	if err != nil {
		t.Fatalf("creating vault: %v", err)
	}

	path := filepath.Join(t.TempDir(), "ai_settings.json")
	return NewStore(path, v, zap.NewNop())
}

func TestSaveAndDecryptKey(t *testing.T) {
	store := newTestStore(t)

	err := store.Save("groq", testKey, Params{Model: "llama3-8b-8192", Temperature: 0.7, MaxTokens: 1500, EnableOptimizations: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := store.DecryptedKey("groq"); got != testKey {
		t.Fatalf("decrypted key mismatch: got %q", got)
	}

	if got := store.ActiveProvider(); got != "groq" {
		t.Fatalf("expected groq to become active, got %q", got)
	}
}

func TestSaveRejectsBadKeyFormatWithoutWriting(t *testing.T) {
	store := newTestStore(t)

	err := store.Save("openai", "not-a-real-key", Params{})
	if !errors.Is(err, ErrInvalidKeyFormat) {
		t.Fatalf("expected ErrInvalidKeyFormat, got %v", err)
	}

	if _, err := os.Stat(store.path); !os.IsNotExist(err) {
		t.Fatalf("expected no settings file after rejected save")
	}
}

func TestStoredFileNeverContainsPlaintextKey(t *testing.T) {
	store := newTestStore(t)

	if err := store.Save("groq", testKey, Params{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(store.path)
	if err != nil {
		t.Fatalf("reading settings file: %v", err)
	}
	if strings.Contains(string(data), testKey) {
		t.Fatalf("plaintext key leaked into the settings file")
	}
}

func TestProviderSettingsHidesKeyMaterial(t *testing.T) {
	store := newTestStore(t)

	if err := store.Save("groq", testKey, Params{Model: "llama3-8b-8192", MaxTokens: 1000}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	view := store.ProviderSettings("")
	if view == nil {
		t.Fatalf("expected active provider settings")
	}
	if view.Provider != "groq" {
		t.Fatalf("unexpected provider: %s", view.Provider)
	}
	if view.Model != "llama3-8b-8192" || view.MaxTokens != 1000 {
		t.Fatalf("params not round-tripped: %+v", view)
	}
}

func TestActiveConfigDefaults(t *testing.T) {
	store := newTestStore(t)

	if err := store.Save("groq", testKey, Params{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg := store.ActiveConfig()
	if !cfg.Usable() {
		t.Fatalf("expected a usable config")
	}
	if cfg.APIKey != testKey {
		t.Fatalf("unexpected api key: %q", cfg.APIKey)
	}
	if cfg.Temperature != 0.7 || cfg.MaxTokens != 1500 {
		t.Fatalf("expected defaulted params, got temp=%v max=%d", cfg.Temperature, cfg.MaxTokens)
	}
}

func TestActiveConfigEmptyWhenNothingStored(t *testing.T) {
	store := newTestStore(t)

	if cfg := store.ActiveConfig(); cfg.Usable() {
		t.Fatalf("expected unusable config, got %+v", cfg)
	}
}

func TestCorruptFileReadsAsEmpty(t *testing.T) {
	store := newTestStore(t)

	if err := os.WriteFile(store.path, []byte("{ not json"), 0o600); err != nil {
		t.Fatalf("writing corrupt file: %v", err)
	}

	if cfg := store.ActiveConfig(); cfg.Usable() {
		t.Fatalf("expected empty settings from corrupt file")
	}
	if statuses := store.Statuses(); len(statuses) != 0 {
		t.Fatalf("expected no statuses, got %d", len(statuses))
	}

	// A save over a corrupt file must still work.
	if err := store.Save("groq", testKey, Params{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.DecryptedKey("groq") != testKey {
		t.Fatalf("save over corrupt file did not take")
	}
}

func TestDecryptedKeyUnderWrongMaster(t *testing.T) {
	store := newTestStore(t)

	if err := store.Save("groq", testKey, Params{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	other, err := vault.New("different-master-secret")
	if err != nil {
		t.Fatalf("creating vault: %v", err)
	}
	reopened := NewStore(store.path, other, zap.NewNop())

	if got := reopened.DecryptedKey("groq"); got != "" {
		t.Fatalf("expected empty key under wrong master, got %q", got)
	}
	if cfg := reopened.ActiveConfig(); cfg.Usable() {
		t.Fatalf("expected unusable config under wrong master")
	}
}

func TestKeyStatusPreview(t *testing.T) {
	store := newTestStore(t)

	if err := store.Save("groq", testKey, Params{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	statuses := store.Statuses()
	if len(statuses) != 1 {
		t.Fatalf("expected one status, got %d", len(statuses))
	}

	st := statuses[0]
	if !st.HasEncryptedKey || !st.CanDecrypt || !st.Active {
		t.Fatalf("unexpected status: %+v", st)
	}
	if st.KeyPreview != testKey[:10]+"..." {
		t.Fatalf("unexpected preview: %q", st.KeyPreview)
	}
	if strings.Contains(st.KeyPreview, testKey[10:20]) {
		t.Fatalf("preview reveals too much of the key")
	}
}

func TestClear(t *testing.T) {
	store := newTestStore(t)

	if err := store.Save("groq", testKey, Params{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Save("openai", "sk-"+strings.Repeat("a", 45), Params{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := store.Clear("openai"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.DecryptedKey("openai") != "" {
		t.Fatalf("openai key survived Clear")
	}
	if store.DecryptedKey("groq") != testKey {
		t.Fatalf("groq key did not survive clearing openai")
	}
	if store.ActiveProvider() != "" {
		t.Fatalf("expected active provider unset after clearing it")
	}

	if err := store.ClearAll(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.Statuses()) != 0 {
		t.Fatalf("expected no providers after ClearAll")
	}
}
