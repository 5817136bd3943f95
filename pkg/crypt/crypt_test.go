package crypt

import (
	"bytes"
	"crypto/aes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lotusos/varc/pkg/common"
)

func newTestEngine(t *testing.T, password string) *Engine {
	t.Helper()

	salt, err := RandomSalt(rand.Reader, common.SaltSize)
	require.NoError(t, err)
	iv, err := RandomIV(rand.Reader)
	require.NoError(t, err)

	e := NewEngine(rand.Reader)
	require.NoError(t, e.InitFromPassword(password, salt, iv))
	return e
}

func TestDeriveKey(t *testing.T) {
	salt := bytes.Repeat([]byte{0x5A}, common.SaltSize)

	key1, err := DeriveKey("p@ss", salt)
	require.NoError(t, err)
	assert.Len(t, key1, common.KeySize)

	// Deterministic for the same inputs.
	key2, err := DeriveKey("p@ss", salt)
	require.NoError(t, err)
	assert.Equal(t, key1, key2)

	// Different salt, different key.
	other := bytes.Repeat([]byte{0xA5}, common.SaltSize)
	key3, err := DeriveKey("p@ss", other)
	require.NoError(t, err)
	assert.NotEqual(t, key1, key3)

	_, err = DeriveKey("", salt)
	assert.ErrorIs(t, err, common.ErrEmptyPassword)
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", []byte{}},
		{"short", []byte("secret")},
		{"one block", bytes.Repeat([]byte{0x41}, aes.BlockSize)},
		{"block boundary minus one", bytes.Repeat([]byte{0x42}, aes.BlockSize-1)},
		{"multi block", bytes.Repeat([]byte("abcdef"), 1000)},
	}

	e := newTestEngine(t, "p@ss")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ct, err := e.Encrypt(tt.data)
			require.NoError(t, err)

			// PKCS#7: always padded, always block-aligned, always longer.
			assert.Zero(t, len(ct)%aes.BlockSize)
			assert.Greater(t, len(ct), len(tt.data))
			assert.Equal(t, (len(tt.data)/aes.BlockSize+1)*aes.BlockSize, len(ct))

			pt, err := e.Decrypt(ct)
			require.NoError(t, err)
			assert.Equal(t, tt.data, pt)
		})
	}
}

func TestDecryptWrongKey(t *testing.T) {
	e1 := newTestEngine(t, "correct")
	e2 := newTestEngine(t, "wrong")

	ct, err := e1.Encrypt([]byte("payload that must not leak"))
	require.NoError(t, err)

	_, err = e2.Decrypt(ct)
	assert.ErrorIs(t, err, common.ErrBadPadding)
}

func TestDecryptMalformed(t *testing.T) {
	e := newTestEngine(t, "p@ss")

	_, err := e.Decrypt(nil)
	assert.ErrorIs(t, err, common.ErrBadPadding)

	_, err = e.Decrypt([]byte("not block aligned"))
	assert.ErrorIs(t, err, common.ErrBadPadding)
}

func TestClearWipesKeyMaterial(t *testing.T) {
	e := newTestEngine(t, "p@ss")
	require.True(t, e.Initialized())

	e.Clear()
	assert.False(t, e.Initialized())

	_, err := e.Encrypt([]byte("data"))
	assert.Error(t, err)
}

func TestPadUnpad(t *testing.T) {
	for n := 0; n <= 2*aes.BlockSize; n++ {
		data := bytes.Repeat([]byte{0x7}, n)
		padded := pad(data, aes.BlockSize)
		require.Zero(t, len(padded)%aes.BlockSize)

		out, err := unpad(padded, aes.BlockSize)
		require.NoError(t, err)
		require.Equal(t, data, out)
	}

	_, err := unpad(bytes.Repeat([]byte{0x00}, aes.BlockSize), aes.BlockSize)
	assert.ErrorIs(t, err, common.ErrBadPadding)

	_, err = unpad(bytes.Repeat([]byte{0x11}, aes.BlockSize), aes.BlockSize)
	assert.ErrorIs(t, err, common.ErrBadPadding)
}
