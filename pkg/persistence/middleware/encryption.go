package middleware

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
)

// envelopePrefix marks an encrypted Output field.
const envelopePrefix = "enc:v1:"

// ErrNotEncrypted is returned when a record lacks the encrypted envelope.
var ErrNotEncrypted = errors.New("run is missing encrypted data envelope")

// EncryptionConfig holds the keys for encryption and decryption.
type EncryptionConfig struct {
	// ActiveKey is the key used for encrypting new data.
	// Must be 32 bytes for AES-256.
	ActiveKey []byte

	// FallbackKeys is a list of old keys to try when decryption fails.
	// This enables zero-downtime key rotation.
	FallbackKeys [][]byte
}

type encryptionMiddleware struct {
	next   ports.RunStore
	config EncryptionConfig
}

// tapes is the encrypted part of a run.
type tapes struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}

// NewEncryptionMiddleware creates a middleware that encrypts the input and
// output tapes of each run using AES-GCM. Identifiers, status, counters and
// timestamps stay readable so stores can index and prune records.
func NewEncryptionMiddleware(config EncryptionConfig) (Middleware, error) {
	if len(config.ActiveKey) != 32 {
		return nil, errors.New("active key must be 32 bytes (AES-256)")
	}
	return func(next ports.RunStore) ports.RunStore {
		return &encryptionMiddleware{
			next:   next,
			config: config,
		}
	}, nil
}

func (m *encryptionMiddleware) Save(ctx context.Context, run *domain.Run) error {
	plainText, err := json.Marshal(tapes{Input: run.Input, Output: run.Output})
	if err != nil {
		return fmt.Errorf("failed to marshal tapes: %w", err)
	}

	ciphertext, err := encrypt(plainText, m.config.ActiveKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt run: %w", err)
	}

	envelope := *run
	envelope.Input = ""
	envelope.Output = envelopePrefix + base64.StdEncoding.EncodeToString(ciphertext)

	return m.next.Save(ctx, &envelope)
}

func (m *encryptionMiddleware) Load(ctx context.Context, runID string) (*domain.Run, error) {
	envelope, err := m.next.Load(ctx, runID)
	if err != nil {
		return nil, err
	}

	// Fail secure: a plain record under an encrypting store is an error.
	encoded, ok := strings.CutPrefix(envelope.Output, envelopePrefix)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotEncrypted, runID)
	}

	ciphertext, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ciphertext base64: %w", err)
	}

	plainText, err := decryptWithRotation(ciphertext, m.config.ActiveKey, m.config.FallbackKeys)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt run %s: %w", runID, err)
	}

	var t tapes
	if err := json.Unmarshal(plainText, &t); err != nil {
		return nil, fmt.Errorf("failed to unmarshal decrypted tapes: %w", err)
	}

	run := *envelope
	run.Input = t.Input
	run.Output = t.Output
	return &run, nil
}

func (m *encryptionMiddleware) Delete(ctx context.Context, runID string) error {
	return m.next.Delete(ctx, runID)
}

func (m *encryptionMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

// Helpers

func encrypt(plaintext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func decryptWithRotation(ciphertext []byte, activeKey []byte, fallbackKeys [][]byte) ([]byte, error) {
	if plain, err := decrypt(ciphertext, activeKey); err == nil {
		return plain, nil
	}
	for _, key := range fallbackKeys {
		if plain, err := decrypt(ciphertext, key); err == nil {
			return plain, nil
		}
	}
	return nil, errors.New("decryption failed with all available keys")
}

func decrypt(ciphertext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}

	nonce := ciphertext[:gcm.NonceSize()]
	return gcm.Open(nil, nonce, ciphertext[gcm.NonceSize():], nil)
}
