package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
)

const (
	ivSize  = 16 // random IV per encryption
	tagSize = 16 // GCM auth tag
)

// FieldCipher encrypts and decrypts individual payload fields with AES-256-GCM.
// Ciphertext is serialized as "iv:authTag:ciphertext", each part base64-encoded.
type FieldCipher struct {
	aead cipher.AEAD
}

// NewFieldCipher validates the key (exactly 64 hex characters) and builds the cipher.
// A malformed key is a startup error, callers must fail before any network activity.
func NewFieldCipher(hexKey string) (*FieldCipher, error) {
	if len(hexKey) != 64 {
		return nil, fmt.Errorf("encryption key must be 64 hex characters (256 bits), got %d", len(hexKey))
	}
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("encryption key is not valid hex: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}
	aead, err := cipher.NewGCMWithNonceSize(block, ivSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &FieldCipher{aead: aead}, nil
}

// Encrypt encrypts a non-empty string and serializes it as iv:authTag:ciphertext.
func (c *FieldCipher) Encrypt(plaintext string) (string, error) {
	iv := make([]byte, ivSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", fmt.Errorf("failed to generate IV: %w", err)
	}

	sealed := c.aead.Seal(nil, iv, []byte(plaintext), nil)
	// Seal appends the tag to the ciphertext; split them for the wire format
	ciphertext := sealed[:len(sealed)-tagSize]
	tag := sealed[len(sealed)-tagSize:]

	return strings.Join([]string{
		base64.StdEncoding.EncodeToString(iv),
		base64.StdEncoding.EncodeToString(tag),
		base64.StdEncoding.EncodeToString(ciphertext),
	}, ":"), nil
}

// Decrypt inverts Encrypt, authenticating the ciphertext in the process.
func (c *FieldCipher) Decrypt(encoded string) (string, error) {
	parts := strings.Split(encoded, ":")
	if len(parts) != 3 {
		return "", fmt.Errorf("invalid encrypted field format: expected iv:authTag:ciphertext")
	}

	iv, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		return "", fmt.Errorf("invalid IV encoding: %w", err)
	}
	if len(iv) != ivSize {
		return "", fmt.Errorf("invalid IV length: %d", len(iv))
	}
	tag, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return "", fmt.Errorf("invalid auth tag encoding: %w", err)
	}
	ciphertext, err := base64.StdEncoding.DecodeString(parts[2])
	if err != nil {
		return "", fmt.Errorf("invalid ciphertext encoding: %w", err)
	}

	plaintext, err := c.aead.Open(nil, iv, append(ciphertext, tag...), nil)
	if err != nil {
		return "", fmt.Errorf("decryption failed: %w", err)
	}
	return string(plaintext), nil
}

// EncryptField encrypts an optional field. Absent or empty values are stored as
// nil rather than an encrypted empty string, so optionality survives the round trip.
func (c *FieldCipher) EncryptField(value *string) (*string, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	encrypted, err := c.Encrypt(*value)
	if err != nil {
		return nil, err
	}
	return &encrypted, nil
}

// DecryptField decrypts an optional field; nil stays nil.
func (c *FieldCipher) DecryptField(value *string) (*string, error) {
	if value == nil {
		return nil, nil
	}
	decrypted, err := c.Decrypt(*value)
	if err != nil {
		return nil, err
	}
	return &decrypted, nil
}
