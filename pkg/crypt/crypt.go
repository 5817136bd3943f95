// Package crypt implements the archive cipher: PBKDF2-HMAC-SHA-256 key
// derivation and AES-256-CBC with PKCS#7 padding. The key and IV sizes are
// fixed by the on-disk format; integrity comes from the per-entry SHA-256
// over the plaintext, not from the cipher.
package crypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"

	"github.com/lotusos/varc/pkg/common"
)

// KDFIterations is the PBKDF2 iteration count. Changing it breaks every
// existing archive.
const KDFIterations = 100000

// DeriveKey stretches password and salt into a 32-byte AES key.
func DeriveKey(password string, salt []byte) ([]byte, error) {
	if password == "" {
		return nil, common.ErrEmptyPassword
	}
	return pbkdf2.Key([]byte(password), salt, KDFIterations, common.KeySize, sha256.New), nil
}

// RandomSalt draws n bytes from the supplied CSPRNG.
func RandomSalt(rand io.Reader, n int) ([]byte, error) {
	salt := make([]byte, n)
	if _, err := io.ReadFull(rand, salt); err != nil {
		return nil, fmt.Errorf("reading salt from csprng: %w", err)
	}
	return salt, nil
}

// RandomIV draws a 16-byte AES-CBC IV from the supplied CSPRNG.
func RandomIV(rand io.Reader) ([]byte, error) {
	iv := make([]byte, common.IVSize)
	if _, err := io.ReadFull(rand, iv); err != nil {
		return nil, fmt.Errorf("reading iv from csprng: %w", err)
	}
	return iv, nil
}

// Engine holds live key material for one archive. Wipe it with Clear when the
// archive closes.
type Engine struct {
	key  []byte
	iv   []byte
	rand io.Reader
}

// NewEngine wires an engine to the host CSPRNG used for wiping.
func NewEngine(rand io.Reader) *Engine {
	return &Engine{rand: rand}
}

// InitFromPassword derives the key from (password, salt) and records the IV.
func (e *Engine) InitFromPassword(password string, salt, iv []byte) error {
	key, err := DeriveKey(password, salt)
	if err != nil {
		return err
	}
	e.Clear()
	e.key = key
	e.iv = append([]byte(nil), iv...)
	return nil
}

// Initialized reports whether key material is present.
func (e *Engine) Initialized() bool {
	return len(e.key) == common.KeySize && len(e.iv) == common.IVSize
}

// Encrypt applies AES-256-CBC with PKCS#7 padding. Output length is always
// a multiple of the block size and strictly greater than the input length.
func (e *Engine) Encrypt(plaintext []byte) ([]byte, error) {
	if !e.Initialized() {
		return nil, fmt.Errorf("cipher not initialized")
	}

	block, err := aes.NewCipher(e.key)
	if err != nil {
		return nil, err
	}

	padded := pad(plaintext, aes.BlockSize)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, e.iv).CryptBlocks(out, padded)
	return out, nil
}

// Decrypt reverses Encrypt. A padding check failure means a wrong key, wrong
// IV, or tampered ciphertext; all surface as ErrBadPadding.
func (e *Engine) Decrypt(ciphertext []byte) ([]byte, error) {
	if !e.Initialized() {
		return nil, fmt.Errorf("cipher not initialized")
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, common.ErrBadPadding
	}

	block, err := aes.NewCipher(e.key)
	if err != nil {
		return nil, err
	}

	out := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, e.iv).CryptBlocks(out, ciphertext)
	return unpad(out, aes.BlockSize)
}

// Clear wipes the key and IV with three passes: zero, random, zero.
func (e *Engine) Clear() {
	wipe(e.key, e.rand)
	wipe(e.iv, e.rand)
	e.key = nil
	e.iv = nil
}

// Close is Clear under the name io.Closer-style callers expect.
func (e *Engine) Close() error {
	e.Clear()
	return nil
}

func wipe(b []byte, rand io.Reader) {
	if len(b) == 0 {
		return
	}
	for i := range b {
		b[i] = 0
	}
	if rand != nil {
		io.ReadFull(rand, b)
	}
	for i := range b {
		b[i] = 0
	}
}

// pad appends PKCS#7 padding; a full extra block when len is already aligned.
func pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	out := make([]byte, len(data)+n)
	copy(out, data)
	for i := len(data); i < len(out); i++ {
		out[i] = byte(n)
	}
	return out
}

func unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, common.ErrBadPadding
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, common.ErrBadPadding
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, common.ErrBadPadding
		}
	}
	return data[:len(data)-n], nil
}
