// Package vault encrypts provider API keys at rest. Keys are protected by
// AES-256-GCM under a key derived from a master secret with PBKDF2.
//
// The salt is fixed per installation. That is a known weakness accepted on
// purpose: the threat model is casual disk access to at-rest keys, not
// offline cryptanalysis. Changing it would invalidate every stored key.
package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// MasterKeyEnv is the configuration key holding the master secret.
	MasterKeyEnv = "CRYPTO_MASTER_KEY"

	kdfIterations = 100_000
	keyLength     = 32
)

// Fixed KDF salt, see the package comment for the tradeoff.
var kdfSalt = []byte("linkedin_job_assistant_salt")

// ErrDecryption marks a token that is malformed or fails authentication.
// Callers must treat it as "no usable key", never as fatal.
var ErrDecryption = errors.New("decryption failed")

// SecretPersister stores a generated master secret so it survives restarts.
type SecretPersister interface {
	Get(key, def string) string
	PersistSecret(key, value string) error
}

// Vault encrypts and decrypts short secrets with a key derived once from
// the master secret. The derived key is immutable after first use and safe
// for concurrent readers.
type Vault struct {
	master []byte

	once sync.Once
	key  []byte
}

// New creates a vault for the given master secret.
func New(masterSecret string) (*Vault, error) {
	if strings.TrimSpace(masterSecret) == "" {
		return nil, errors.New("master secret is required")
	}
	return &Vault{master: []byte(masterSecret)}, nil
}

// Bootstrap resolves the master secret from the configuration store,
// generating and persisting a new one when absent. Generation happens at
// most once per installation: an existing secret is never overwritten.
func Bootstrap(cfg SecretPersister) (*Vault, error) {
	secret := cfg.Get(MasterKeyEnv, "")
	if secret == "" {
		raw := make([]byte, 32)
		if _, err := rand.Read(raw); err != nil {
			return nil, fmt.Errorf("generating master key: %w", err)
		}
		secret = base64.URLEncoding.EncodeToString(raw)

		if err := cfg.PersistSecret(MasterKeyEnv, secret); err != nil {
			return nil, fmt.Errorf("persisting master key: %w", err)
		}

		// PersistSecret keeps a pre-existing value, re-read to pick it up.
		secret = cfg.Get(MasterKeyEnv, secret)
	}

	return New(secret)
}

func (v *Vault) derivedKey() []byte {
	v.once.Do(func() {
		v.key = pbkdf2.Key(v.master, kdfSalt, kdfIterations, keyLength, sha256.New)
	})
	return v.key
}

// Encrypt seals the plaintext and returns a base64url token of
// nonce||ciphertext. An empty plaintext yields an empty token.
func (v *Vault) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	aead, err := v.aead()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}

	sealed := aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.URLEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a token produced by Encrypt. A malformed or tampered token
// fails with an error wrapping ErrDecryption rather than returning garbage.
func (v *Vault) Decrypt(token string) (string, error) {
	if token == "" {
		return "", nil
	}

	aead, err := v.aead()
	if err != nil {
		return "", err
	}

	raw, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return "", fmt.Errorf("%w: invalid token encoding", ErrDecryption)
	}

	if len(raw) < aead.NonceSize() {
		return "", fmt.Errorf("%w: token too short", ErrDecryption)
	}

	nonce, ciphertext := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("%w: authentication failed", ErrDecryption)
	}

	return string(plaintext), nil
}

func (v *Vault) aead() (cipher.AEAD, error) {
	block, err := aes.NewCipher(v.derivedKey())
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}
	return cipher.NewGCM(block)
}

// ValidateKeyFormat is a cheap prefix/length heuristic per provider. It
// guards against obviously wrong input; real validity is established only
// by a live connection test.
func ValidateKeyFormat(provider, key string) bool {
	if key == "" {
		return false
	}

	switch provider {
	case "openai":
		return strings.HasPrefix(key, "sk-") && len(key) >= 40
	case "groq":
		return strings.HasPrefix(key, "gsk_") && len(key) >= 40
	case "gemini":
		return strings.HasPrefix(key, "AIza") && len(key) >= 30
	}

	return false
}
