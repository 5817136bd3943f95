// Package codec serializes and parses the VARC on-disk layout. Every
// multi-byte integer is big-endian. No other package reads or writes the raw
// archive byte stream.
//
// Layout:
//
//	GlobalHeader (64 bytes):
//	  "VARC" | version u16 | flags u16 | file_count u32 |
//	  salt [32] | iv [16] | reserved [4] (zero on write, ignored on read)
//	Entry, file_count times:
//	  EntryHeader (26 bytes):
//	    path_length u16 | original_size u64 | stored_size u64 |
//	    file_type u32 | flags u32
//	  path [path_length] (UTF-8, '/'-separated, no leading slash)
//	  stored payload [stored_size]
//	  digest [32] (SHA-256 of the original plaintext)
package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"unicode/utf8"

	"github.com/lotusos/varc/pkg/common"
)

// Record is one parsed entry: header plus the three variable sections.
type Record struct {
	Header  common.EntryHeader
	Path    string
	Payload []byte
	Digest  [common.ChecksumSize]byte
}

// WriteGlobalHeader emits the fixed 64-byte global header.
func WriteGlobalHeader(h common.GlobalHeader) []byte {
	out := make([]byte, common.GlobalHeaderLength)
	copy(out[0:4], common.Signature[:])
	binary.BigEndian.PutUint16(out[4:6], h.Version)
	binary.BigEndian.PutUint16(out[6:8], h.Flags)
	binary.BigEndian.PutUint32(out[8:12], h.FileCount)
	copy(out[12:44], h.Salt[:])
	copy(out[44:60], h.IV[:])
	// out[60:64] reserved, zero
	return out
}

// ReadGlobalHeader parses and validates the global header.
func ReadGlobalHeader(data []byte) (common.GlobalHeader, error) {
	var h common.GlobalHeader
	if len(data) < common.GlobalHeaderLength {
		return h, common.ErrTruncated
	}
	if !bytes.Equal(data[0:4], common.Signature[:]) {
		return h, common.ErrInvalidSignature
	}

	h.Version = binary.BigEndian.Uint16(data[4:6])
	if h.Version > common.Version {
		return h, fmt.Errorf("%w: %d.%d", common.ErrUnsupportedVersion, h.Version>>8, h.Version&0xFF)
	}

	h.Flags = binary.BigEndian.Uint16(data[6:8])
	h.FileCount = binary.BigEndian.Uint32(data[8:12])
	copy(h.Salt[:], data[12:44])
	copy(h.IV[:], data[44:60])
	return h, nil
}

// WriteEntryHeader emits the fixed 26-byte entry header.
func WriteEntryHeader(eh common.EntryHeader) []byte {
	out := make([]byte, common.EntryHeaderLength)
	binary.BigEndian.PutUint16(out[0:2], eh.PathLength)
	binary.BigEndian.PutUint64(out[2:10], eh.OriginalSize)
	binary.BigEndian.PutUint64(out[10:18], eh.StoredSize)
	binary.BigEndian.PutUint32(out[18:22], uint32(eh.FileType))
	binary.BigEndian.PutUint32(out[22:26], eh.Flags)
	return out
}

// ReadEntryHeader parses one entry header.
func ReadEntryHeader(data []byte) (common.EntryHeader, error) {
	var eh common.EntryHeader
	if len(data) < common.EntryHeaderLength {
		return eh, common.ErrTruncated
	}
	eh.PathLength = binary.BigEndian.Uint16(data[0:2])
	eh.OriginalSize = binary.BigEndian.Uint64(data[2:10])
	eh.StoredSize = binary.BigEndian.Uint64(data[10:18])
	eh.FileType = common.FileType(binary.BigEndian.Uint32(data[18:22]))
	eh.Flags = binary.BigEndian.Uint32(data[22:26])
	return eh, nil
}

// WriteArchive serializes the full archive: global header then each record's
// header, path, stored payload, and digest, in slice order. The header's
// FileCount is taken from len(records), not from h.
func WriteArchive(h common.GlobalHeader, records []Record) []byte {
	h.FileCount = uint32(len(records))

	size := common.GlobalHeaderLength
	for i := range records {
		size += common.EntryHeaderLength + len(records[i].Path) + len(records[i].Payload) + common.ChecksumSize
	}

	out := make([]byte, 0, size)
	out = append(out, WriteGlobalHeader(h)...)
	for i := range records {
		r := &records[i]
		eh := r.Header
		eh.PathLength = uint16(len(r.Path))
		eh.StoredSize = uint64(len(r.Payload))
		out = append(out, WriteEntryHeader(eh)...)
		out = append(out, r.Path...)
		out = append(out, r.Payload...)
		out = append(out, r.Digest[:]...)
	}
	return out
}

// ReadArchive parses a whole archive image. The cursor starts at byte 64 and
// consumes exactly FileCount entries; leftover bytes are rejected rather than
// silently treated as an extra entry.
func ReadArchive(data []byte) (common.GlobalHeader, []Record, error) {
	h, err := ReadGlobalHeader(data)
	if err != nil {
		return h, nil, err
	}

	records := make([]Record, 0, h.FileCount)
	cur := common.GlobalHeaderLength

	for i := uint32(0); i < h.FileCount; i++ {
		if len(data)-cur < common.EntryHeaderLength {
			return h, nil, common.ErrTruncated
		}
		eh, err := ReadEntryHeader(data[cur:])
		if err != nil {
			return h, nil, err
		}
		cur += common.EntryHeaderLength

		need := int(eh.PathLength) + int(eh.StoredSize) + common.ChecksumSize
		if eh.StoredSize > uint64(len(data)) || len(data)-cur < need {
			return h, nil, common.ErrTruncated
		}

		path := data[cur : cur+int(eh.PathLength)]
		if !utf8.Valid(path) {
			return h, nil, fmt.Errorf("%w: path is not valid UTF-8", common.ErrInvalidEntry)
		}
		cur += int(eh.PathLength)

		var payload []byte
		if eh.StoredSize > 0 {
			payload = make([]byte, eh.StoredSize)
			copy(payload, data[cur:cur+int(eh.StoredSize)])
		}
		cur += int(eh.StoredSize)

		var digest [common.ChecksumSize]byte
		copy(digest[:], data[cur:cur+common.ChecksumSize])
		cur += common.ChecksumSize

		records = append(records, Record{
			Header:  eh,
			Path:    string(path),
			Payload: payload,
			Digest:  digest,
		})
	}

	if cur != len(data) {
		return h, nil, common.ErrTrailingBytes
	}
	return h, records, nil
}
