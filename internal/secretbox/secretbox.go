// Package secretbox provides authenticated encryption for secrets stored
// at rest (provider tokens, admin-entered API keys).
package secretbox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/reception-ifairy/iFairyhq/internal/domain"
)

const (
	versionPrefix = "v1"
	nonceSize     = 12
	tagSize       = 16
	minSecretLen  = 32
)

// Box encrypts and decrypts strings with a key derived from a configured
// secret. The secret is validated on first use so a misconfigured
// deployment fails the triggering request, not unrelated ones.
type Box struct {
	secret string
}

// New wraps the configured encryption secret. Validation is deferred to
// the first Encrypt/Decrypt call.
func New(secret string) *Box {
	return &Box{secret: strings.TrimSpace(secret)}
}

// key derives the AES-256 key. A 64-char hex secret is decoded as hex,
// anything else is taken as raw bytes; either way the input must be at
// least 32 bytes before hashing.
func (b *Box) key() ([]byte, error) {
	if b.secret == "" {
		return nil, fmt.Errorf("encryption key is not set")
	}
	raw := []byte(b.secret)
	if len(b.secret) == 64 {
		if decoded, err := hex.DecodeString(b.secret); err == nil {
			raw = decoded
		}
	}
	if len(raw) < minSecretLen {
		return nil, fmt.Errorf("encryption key must be at least %d bytes", minSecretLen)
	}
	sum := sha256.Sum256(raw)
	return sum[:], nil
}

// Encrypt seals plaintext with AES-256-GCM under a fresh random nonce and
// returns the tagged form "v1.<nonce>.<tag>.<ciphertext>" with each part
// base64url encoded.
func (b *Box) Encrypt(plaintext string) (string, error) {
	key, err := b.key()
	if err != nil {
		return "", err
	}
	gcm, err := newGCM(key)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	sealed := gcm.Seal(nil, nonce, []byte(plaintext), nil)
	ct, tag := sealed[:len(sealed)-tagSize], sealed[len(sealed)-tagSize:]

	enc := base64.RawURLEncoding
	return versionPrefix + "." + enc.EncodeToString(nonce) + "." + enc.EncodeToString(tag) + "." + enc.EncodeToString(ct), nil
}

// Decrypt opens a tagged ciphertext produced by Encrypt. An empty input
// stays empty and a value without the version prefix is returned
// unchanged, which keeps pre-encryption-era stored values readable.
func (b *Box) Decrypt(ciphertext string) (string, error) {
	if ciphertext == "" {
		return "", nil
	}
	if !strings.HasPrefix(ciphertext, versionPrefix+".") {
		return ciphertext, nil
	}
	parts := strings.Split(ciphertext, ".")
	if len(parts) != 4 {
		return "", domain.ErrInvalidCiphertext
	}
	enc := base64.RawURLEncoding
	nonce, err := enc.DecodeString(parts[1])
	if err != nil || len(nonce) != nonceSize {
		return "", domain.ErrInvalidCiphertext
	}
	tag, err := enc.DecodeString(parts[2])
	if err != nil || len(tag) != tagSize {
		return "", domain.ErrInvalidCiphertext
	}
	ct, err := enc.DecodeString(parts[3])
	if err != nil {
		return "", domain.ErrInvalidCiphertext
	}

	key, err := b.key()
	if err != nil {
		return "", err
	}
	gcm, err := newGCM(key)
	if err != nil {
		return "", err
	}
	plain, err := gcm.Open(nil, nonce, append(ct, tag...), nil)
	if err != nil {
		return "", domain.ErrInvalidCiphertext
	}
	return string(plain), nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("init gcm: %w", err)
	}
	return gcm, nil
}
