package common

import "bytes"

// Signature is the four magic bytes at the start of every VARC archive.
var Signature = [4]byte{'V', 'A', 'R', 'C'}

const (
	VersionMajor uint8 = 0
	VersionMinor uint8 = 3

	// Version packs major and minor into the on-disk big-endian u16.
	Version uint16 = uint16(VersionMajor)<<8 | uint16(VersionMinor)

	GlobalHeaderLength = 64
	EntryHeaderLength  = 26

	SaltSize     = 32
	IVSize       = 16
	ChecksumSize = 32
	KeySize      = 32

	MaxPathLength = 65535
)

// Archive-level header flags.
const (
	ArchiveEncrypted   uint16 = 0x0001
	ArchiveCompressed  uint16 = 0x0002
	ArchiveHasMetadata uint16 = 0x0004
)

// Per-entry flags.
const (
	EntryCompressed uint32 = 0x0001
	EntryEncrypted  uint32 = 0x0002
	EntryDirectory  uint32 = 0x0004
	EntrySymlink    uint32 = 0x0008
	EntryHidden     uint32 = 0x0010
	EntryReadonly   uint32 = 0x0020
)

// GlobalHeader is the 64-byte header at the start of every archive. The
// signature and the 4 reserved trailing bytes are implicit; they are written
// by the codec and never carried in memory.
type GlobalHeader struct {
	Version   uint16
	Flags     uint16
	FileCount uint32
	Salt      [SaltSize]byte
	IV        [IVSize]byte
}

// NewGlobalHeader returns a header for an empty, unencrypted archive.
func NewGlobalHeader() GlobalHeader {
	return GlobalHeader{Version: Version}
}

func (h GlobalHeader) IsEncrypted() bool {
	return h.Flags&ArchiveEncrypted != 0
}

func (h GlobalHeader) IsCompressed() bool {
	return h.Flags&ArchiveCompressed != 0
}

// HasSalt reports whether the salt field carries real key-derivation material
// rather than the all-zero placeholder of unencrypted archives.
func (h GlobalHeader) HasSalt() bool {
	var zero [SaltSize]byte
	return !bytes.Equal(h.Salt[:], zero[:])
}

// EntryHeader is the fixed 26-byte header preceding each entry's path,
// payload, and digest.
type EntryHeader struct {
	PathLength   uint16
	OriginalSize uint64
	StoredSize   uint64
	FileType     FileType
	Flags        uint32
}
