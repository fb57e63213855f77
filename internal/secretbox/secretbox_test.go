package secretbox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reception-ifairy/iFairyhq/internal/domain"
)

const testSecret = "correct-horse-battery-staple-0123456789"

func TestEncryptDecryptRoundTrip(t *testing.T) {
	box := New(testSecret)
	for _, plaintext := range []string{"", "a", "ya29.A0ARrdaM-access-token", strings.Repeat("x", 4096)} {
		ct, err := box.Encrypt(plaintext)
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(ct, "v1."))

		got, err := box.Decrypt(ct)
		require.NoError(t, err)
		require.Equal(t, plaintext, got)
	}
}

func TestEncryptProducesUniqueCiphertexts(t *testing.T) {
	box := New(testSecret)
	first, err := box.Encrypt("same plaintext")
	require.NoError(t, err)
	second, err := box.Encrypt("same plaintext")
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}

func TestDecryptRejectsCorruption(t *testing.T) {
	box := New(testSecret)
	ct, err := box.Encrypt("sensitive value")
	require.NoError(t, err)

	// Flip one byte in each base64url component in turn.
	parts := strings.Split(ct, ".")
	require.Len(t, parts, 4)
	for i := 1; i < 4; i++ {
		mutated := make([]string, 4)
		copy(mutated, parts)
		raw := []byte(mutated[i])
		if raw[0] == 'A' {
			raw[0] = 'B'
		} else {
			raw[0] = 'A'
		}
		mutated[i] = string(raw)

		_, err := box.Decrypt(strings.Join(mutated, "."))
		require.ErrorIs(t, err, domain.ErrInvalidCiphertext, "component %d", i)
	}
}

func TestDecryptRejectsMalformedInput(t *testing.T) {
	box := New(testSecret)
	for _, input := range []string{"v1.only-two", "v1.a.b", "v1.a.b.c.d", "v1.!!.!!.!!"} {
		_, err := box.Decrypt(input)
		require.ErrorIs(t, err, domain.ErrInvalidCiphertext, "input %q", input)
	}
}

func TestDecryptLegacyPlaintextPassthrough(t *testing.T) {
	box := New(testSecret)
	got, err := box.Decrypt("ghp_legacy_plaintext_token")
	require.NoError(t, err)
	require.Equal(t, "ghp_legacy_plaintext_token", got)

	got, err = box.Decrypt("")
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestKeyValidation(t *testing.T) {
	_, err := New("").Encrypt("x")
	require.Error(t, err)

	_, err = New("too-short").Encrypt("x")
	require.Error(t, err)

	// 64 hex chars decode to exactly 32 bytes.
	hexSecret := strings.Repeat("ab", 32)
	box := New(hexSecret)
	ct, err := box.Encrypt("x")
	require.NoError(t, err)
	got, err := box.Decrypt(ct)
	require.NoError(t, err)
	require.Equal(t, "x", got)
}

func TestDecryptWithWrongKeyFails(t *testing.T) {
	ct, err := New(testSecret).Encrypt("plaintext")
	require.NoError(t, err)

	_, err = New("another-secret-entirely-0123456789abc").Decrypt(ct)
	require.ErrorIs(t, err, domain.ErrInvalidCiphertext)
}
