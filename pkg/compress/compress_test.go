package compress

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lotusos/varc/pkg/common"
)

func TestCompressRoundTrip(t *testing.T) {
	inputs := map[string][]byte{
		"empty":      {},
		"text":       []byte("the quick brown fox jumps over the lazy dog\n"),
		"repetitive": bytes.Repeat([]byte{0x41}, 4096),
		"random":     randomBytes(64 * 1024),
	}

	for name, data := range inputs {
		for level := 0; level <= 9; level++ {
			t.Run(name, func(t *testing.T) {
				comp, err := Compress(data, level)
				require.NoError(t, err)

				if level == 0 {
					require.Equal(t, data, comp)
					return
				}

				out, err := Decompress(comp, int64(len(data)))
				require.NoError(t, err)
				assert.Equal(t, data, out)
			})
		}
	}
}

func TestCompressShrinksRepetitiveData(t *testing.T) {
	data := bytes.Repeat([]byte{0x41}, 4096)
	comp, err := Compress(data, 9)
	require.NoError(t, err)
	assert.Less(t, len(comp), 64)
}

func TestCompressLevelOutOfRange(t *testing.T) {
	_, err := Compress([]byte("x"), 10)
	assert.Error(t, err)
	_, err = Compress([]byte("x"), -1)
	assert.Error(t, err)
}

func TestDecompressCorrupted(t *testing.T) {
	comp, err := Compress([]byte("some payload to mangle"), 6)
	require.NoError(t, err)

	// Mangle the gzip header so the stream is unreadable.
	bad := append([]byte(nil), comp...)
	bad[0] ^= 0xFF

	_, err = Decompress(bad, -1)
	var derr *common.DecompressError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, common.DecompressCorrupted, derr.Reason)
}

func TestDecompressTruncated(t *testing.T) {
	comp, err := Compress(randomBytes(8192), 6)
	require.NoError(t, err)

	_, err = Decompress(comp[:len(comp)/2], -1)
	var derr *common.DecompressError
	require.ErrorAs(t, err, &derr)
}

func TestDecompressSizeMismatch(t *testing.T) {
	comp, err := Compress([]byte("fourteen bytes"), 6)
	require.NoError(t, err)

	_, err = Decompress(comp, 999)
	var derr *common.DecompressError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, common.DecompressSizeMismatch, derr.Reason)

	// No expectation, no mismatch.
	out, err := Decompress(comp, -1)
	require.NoError(t, err)
	assert.Equal(t, []byte("fourteen bytes"), out)
}

func TestLevelName(t *testing.T) {
	tests := []struct {
		level int
		name  string
	}{
		{0, "None"},
		{1, "Fastest"},
		{2, "Fast"},
		{3, "Fast"},
		{4, "Default"},
		{6, "Default"},
		{7, "Best"},
		{9, "Best"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.name, LevelName(tt.level))
	}
}

func randomBytes(n int) []byte {
	out := make([]byte, n)
	rand.New(rand.NewSource(42)).Read(out)
	return out
}
