package common

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectFileTypeMagic(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want FileType
	}{
		{"png", []byte("\x89PNG\r\n\x1a\nrest"), FileTypeImage},
		{"gif87a", []byte("GIF87a...."), FileTypeImage},
		{"gif89a", []byte("GIF89a...."), FileTypeImage},
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00}, FileTypeImage},
		{"webp", append([]byte("RIFF\x00\x00\x00\x00WEBP"), 0x00), FileTypeImage},
		{"mp3 id3", []byte("ID3\x03\x00"), FileTypeAudio},
		{"mp3 frame", []byte{0xFF, 0xFB, 0x90, 0x00}, FileTypeAudio},
		{"ogg", []byte("OggS\x00\x02"), FileTypeAudio},
		{"mp4 ftyp", []byte("\x00\x00\x00\x20ftypisom"), FileTypeVideo},
		{"pdf", []byte("%PDF-1.7\n"), FileTypeDocument},
		{"zip local", []byte("PK\x03\x04\x14\x00"), FileTypeArchive},
		{"zip central", []byte("PK\x05\x06\x00\x00"), FileTypeArchive},
		{"too short", []byte("ab"), FileTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectFileType(tt.data))
		})
	}
}

func TestDetectFileTypePrintableBoundary(t *testing.T) {
	// 100-byte buffers make the ratio exact: >=90 printable bytes is Text.
	printable := func(n int) []byte {
		out := bytes.Repeat([]byte{'a'}, n)
		return append(out, bytes.Repeat([]byte{0x00}, 100-n)...)
	}

	assert.Equal(t, FileTypeText, DetectFileType(printable(100)))
	assert.Equal(t, FileTypeText, DetectFileType(printable(90)))
	assert.Equal(t, FileTypeBinary, DetectFileType(printable(89)))
}

func TestDetectFileTypeChecksPrefixOnly(t *testing.T) {
	// 256 printable bytes followed by garbage is still Text.
	data := append(bytes.Repeat([]byte{'x'}, 256), bytes.Repeat([]byte{0x00}, 1024)...)
	assert.Equal(t, FileTypeText, DetectFileType(data))
}

func TestFileTypeString(t *testing.T) {
	assert.Equal(t, "Text", FileTypeText.String())
	assert.Equal(t, "Archive", FileTypeArchive.String())
	assert.Equal(t, "Unknown", FileType(99).String())
}
