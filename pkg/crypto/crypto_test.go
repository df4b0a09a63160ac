package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

func TestNewFieldCipherValidation(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr string
	}{
		{"valid key", testKey, ""},
		{"empty key", "", "64 hex characters"},
		{"short key", "abcd", "64 hex characters"},
		{"right length, not hex", strings.Repeat("zz", 32), "not valid hex"},
		{"too long", testKey + "ab", "64 hex characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewFieldCipher(tt.key)
			if tt.wantErr == "" {
				require.NoError(t, err)
				require.NotNil(t, c)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	c, err := NewFieldCipher(testKey)
	require.NoError(t, err)

	inputs := []string{
		"hello",
		"a",
		"multi word message with spaces",
		"unicode: héllo wörld 日本語",
		strings.Repeat("long ", 1000),
	}

	for _, s := range inputs {
		encrypted, err := c.Encrypt(s)
		require.NoError(t, err)
		assert.NotEqual(t, s, encrypted)

		decrypted, err := c.Decrypt(encrypted)
		require.NoError(t, err)
		assert.Equal(t, s, decrypted)
	}
}

func TestEncryptFormat(t *testing.T) {
	c, err := NewFieldCipher(testKey)
	require.NoError(t, err)

	encrypted, err := c.Encrypt("hello")
	require.NoError(t, err)

	parts := strings.Split(encrypted, ":")
	require.Len(t, parts, 3, "expected iv:authTag:ciphertext")
}

func TestEncryptUsesFreshIV(t *testing.T) {
	c, err := NewFieldCipher(testKey)
	require.NoError(t, err)

	a, err := c.Encrypt("same plaintext")
	require.NoError(t, err)
	b, err := c.Encrypt("same plaintext")
	require.NoError(t, err)

	assert.NotEqual(t, a, b, "two encryptions of the same plaintext must differ")
}

func TestDecryptRejectsTamperedCiphertext(t *testing.T) {
	c, err := NewFieldCipher(testKey)
	require.NoError(t, err)

	encrypted, err := c.Encrypt("sensitive")
	require.NoError(t, err)

	// Corrupt the auth tag
	parts := strings.Split(encrypted, ":")
	tag := []byte(parts[1])
	if tag[0] == 'A' {
		tag[0] = 'B'
	} else {
		tag[0] = 'A'
	}
	parts[1] = string(tag)
	_, err = c.Decrypt(strings.Join(parts, ":"))
	assert.Error(t, err)

	// Garbage input
	_, err = c.Decrypt("not-an-encrypted-field")
	assert.Error(t, err)
}

func TestDecryptRejectsWrongKey(t *testing.T) {
	c1, err := NewFieldCipher(testKey)
	require.NoError(t, err)
	c2, err := NewFieldCipher(strings.Repeat("fe", 32))
	require.NoError(t, err)

	encrypted, err := c1.Encrypt("secret")
	require.NoError(t, err)

	_, err = c2.Decrypt(encrypted)
	assert.Error(t, err)
}

func TestOptionalFieldsPreserveAbsence(t *testing.T) {
	c, err := NewFieldCipher(testKey)
	require.NoError(t, err)

	// Absent stays absent
	out, err := c.EncryptField(nil)
	require.NoError(t, err)
	assert.Nil(t, out)

	// Empty is treated as absent, never an encrypted empty string
	empty := ""
	out, err = c.EncryptField(&empty)
	require.NoError(t, err)
	assert.Nil(t, out)

	out, err = c.DecryptField(nil)
	require.NoError(t, err)
	assert.Nil(t, out)

	// Present round-trips
	value := "present"
	encrypted, err := c.EncryptField(&value)
	require.NoError(t, err)
	require.NotNil(t, encrypted)

	decrypted, err := c.DecryptField(encrypted)
	require.NoError(t, err)
	require.NotNil(t, decrypted)
	assert.Equal(t, value, *decrypted)
}
