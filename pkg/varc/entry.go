package varc

import (
	"time"

	"github.com/lotusos/varc/pkg/common"
	"github.com/lotusos/varc/pkg/hash"
)

// Entry is one logical file inside an archive. Payload always holds the
// stored form: the original bytes after whatever subset of the
// encrypt-then-compress pipeline ran, exactly what goes to disk between the
// path and the digest. Digest is fixed at creation from the original
// plaintext and never changes afterwards.
type Entry struct {
	Path         string
	OriginalSize uint64
	StoredSize   uint64
	FileType     common.FileType
	Flags        uint32
	Created      time.Time
	Modified     time.Time
	Payload      []byte
	Digest       [common.ChecksumSize]byte
}

// NewEntry builds a plain entry from original plaintext bytes. The pipeline
// has not run yet; Payload is the plaintext.
func NewEntry(path string, data []byte) *Entry {
	now := time.Now()
	return &Entry{
		Path:         path,
		OriginalSize: uint64(len(data)),
		StoredSize:   uint64(len(data)),
		FileType:     common.DetectFileType(prefix(data, 256)),
		Created:      now,
		Modified:     now,
		Payload:      data,
		Digest:       hash.Digest(data),
	}
}

func prefix(data []byte, n int) []byte {
	if len(data) > n {
		return data[:n]
	}
	return data
}

func (e *Entry) IsCompressed() bool { return e.Flags&common.EntryCompressed != 0 }
func (e *Entry) IsEncrypted() bool  { return e.Flags&common.EntryEncrypted != 0 }
func (e *Entry) IsDirectory() bool  { return e.Flags&common.EntryDirectory != 0 }
func (e *Entry) IsSymlink() bool    { return e.Flags&common.EntrySymlink != 0 }

// setPayload replaces the stored form and keeps StoredSize in sync.
func (e *Entry) setPayload(p []byte) {
	e.Payload = p
	e.StoredSize = uint64(len(p))
}

// TotalSize is the entry's full on-disk footprint.
func (e *Entry) TotalSize() uint64 {
	return common.EntryHeaderLength + uint64(len(e.Path)) + e.StoredSize + common.ChecksumSize
}

// CompressionRatio is stored/original as a percentage; 100 for empty entries.
func (e *Entry) CompressionRatio() float64 {
	if e.OriginalSize == 0 {
		return 100
	}
	return 100 * float64(e.StoredSize) / float64(e.OriginalSize)
}

func (e *Entry) SizeString() string {
	return common.FormatSize(e.OriginalSize)
}

func (e *Entry) StoredSizeString() string {
	return common.FormatSize(e.StoredSize)
}

// header materializes the on-disk entry header.
func (e *Entry) header() common.EntryHeader {
	return common.EntryHeader{
		PathLength:   uint16(len(e.Path)),
		OriginalSize: e.OriginalSize,
		StoredSize:   e.StoredSize,
		FileType:     e.FileType,
		Flags:        e.Flags,
	}
}
