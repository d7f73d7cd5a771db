package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTypedAccessors(t *testing.T) {
	s := NewStore("")

	t.Setenv("TEST_STR", "value")
	t.Setenv("TEST_BOOL", "true")
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_FLOAT", "0.7")

	if got := s.Get("TEST_STR", "def"); got != "value" {
		t.Fatalf("Get = %q", got)
	}
	if got := s.Get("TEST_UNSET", "def"); got != "def" {
		t.Fatalf("Get default = %q", got)
	}
	if !s.GetBool("TEST_BOOL", false) {
		t.Fatalf("GetBool failed")
	}
	if s.GetBool("TEST_UNSET", false) {
		t.Fatalf("GetBool default failed")
	}
	if got := s.GetInt("TEST_INT", 0); got != 42 {
		t.Fatalf("GetInt = %d", got)
	}
	if got := s.GetInt("TEST_STR", 7); got != 7 {
		t.Fatalf("GetInt fallback = %d", got)
	}
	if got := s.GetFloat("TEST_FLOAT", 0); got != 0.7 {
		t.Fatalf("GetFloat = %v", got)
	}
}

func TestPersistSecretWritesFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	s := NewStore(envFile)

	t.Setenv("TEST_MASTER", "")

	if err := s.PersistSecret("TEST_MASTER", "generated-secret"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if os.Getenv("TEST_MASTER") != "generated-secret" {
		t.Fatalf("secret not set in the environment")
	}

	data, err := os.ReadFile(envFile)
	if err != nil {
		t.Fatalf("env file not written: %v", err)
	}
	if !strings.Contains(string(data), "TEST_MASTER=generated-secret") {
		t.Fatalf("secret missing from env file: %q", string(data))
	}
}

func TestPersistSecretKeepsExistingFileValue(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(envFile, []byte("TEST_MASTER=original\n"), 0o600); err != nil {
		t.Fatalf("seeding env file: %v", err)
	}

	s := NewStore(envFile)
	t.Setenv("TEST_MASTER", "")

	if err := s.PersistSecret("TEST_MASTER", "new-value"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The file value wins and the file is not rewritten.
	if os.Getenv("TEST_MASTER") != "original" {
		t.Fatalf("existing file value not honored, got %q", os.Getenv("TEST_MASTER"))
	}
	data, _ := os.ReadFile(envFile)
	if strings.Contains(string(data), "new-value") {
		t.Fatalf("file was rewritten with the new value")
	}
}

func TestPersistSecretIdempotent(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	s := NewStore(envFile)
	t.Setenv("TEST_MASTER", "")

	if err := s.PersistSecret("TEST_MASTER", "secret-one"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.PersistSecret("TEST_MASTER", "secret-two"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, _ := os.ReadFile(envFile)
	if strings.Count(string(data), "TEST_MASTER=") != 1 {
		t.Fatalf("key appended twice: %q", string(data))
	}
	if os.Getenv("TEST_MASTER") != "secret-one" {
		t.Fatalf("first secret not preserved, got %q", os.Getenv("TEST_MASTER"))
	}
}
