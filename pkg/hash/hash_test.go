package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDigest(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		hex   string
	}{
		{"empty", []byte{}, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{"nil treated as empty", nil, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{"hello world", []byte("Hello, world!\n"), "d9014c4624844aa5bac314773d6b689ad467fa4e1d1a50a1b8a99d5a95f72ff5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Digest(tt.input)
			assert.Equal(t, tt.hex, Hex(d[:]))
			assert.Len(t, Sum(tt.input), Size)
		})
	}
}

func TestEqualCT(t *testing.T) {
	a := Sum([]byte("a"))
	b := Sum([]byte("b"))

	require.True(t, EqualCT(a, a))
	require.False(t, EqualCT(a, b))
	require.False(t, EqualCT(a, a[:16]))
	require.True(t, EqualCT(nil, nil))
}
