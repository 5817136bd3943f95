package varc

import (
	"fmt"

	"github.com/lotusos/varc/pkg/common"
	"github.com/lotusos/varc/pkg/compress"
	"github.com/lotusos/varc/pkg/crypt"
	"github.com/lotusos/varc/pkg/hash"
)

// applyPipeline transforms an entry's plaintext payload into stored form:
// encrypt first, then compress. The digest was fixed before this runs.
func (a *Archive) applyPipeline(e *Entry, opts CreateOptions) error {
	payload := e.Payload

	encrypt := opts.Encrypt || a.header.IsEncrypted()
	if encrypt {
		// Encryption is all-or-nothing: turning it on with plaintext
		// entries already present locks them under the same key first.
		if !a.header.IsEncrypted() && len(a.entries) > 0 {
			if err := a.Lock(opts.Password); err != nil {
				return err
			}
		}
		if err := a.ensureEncryption(opts.Password); err != nil {
			return err
		}
		enc, err := a.cipher.Encrypt(payload)
		if err != nil {
			return err
		}
		payload = enc
		e.Flags |= common.EntryEncrypted
	}

	// Level 0 means "None" even when compression is requested.
	if opts.Compress && opts.CompressionLevel > 0 {
		comp, err := compress.Compress(payload, opts.CompressionLevel)
		if err != nil {
			return err
		}
		payload = comp
		e.Flags |= common.EntryCompressed
		a.header.Flags |= common.ArchiveCompressed
	}

	e.setPayload(payload)
	return nil
}

// ensureEncryption lazily initializes the archive's key material the first
// time an encrypted entry is added.
func (a *Archive) ensureEncryption(password string) error {
	if a.header.IsEncrypted() {
		if a.cipher.Initialized() {
			return nil
		}
		if password == "" {
			return common.ErrPasswordRequired
		}
		return a.cipher.InitFromPassword(password, a.header.Salt[:], a.header.IV[:])
	}

	if password == "" {
		return common.ErrEmptyPassword
	}

	salt, err := crypt.RandomSalt(a.rand, common.SaltSize)
	if err != nil {
		return err
	}
	iv, err := crypt.RandomIV(a.rand)
	if err != nil {
		return err
	}
	if err := a.cipher.InitFromPassword(password, salt, iv); err != nil {
		return err
	}

	copy(a.header.Salt[:], salt)
	copy(a.header.IV[:], iv)
	a.header.Flags |= common.ArchiveEncrypted
	return nil
}

// decodeEntry reverses the pipeline on a stored payload: decompress first,
// then decrypt. The digest is NOT checked here.
func (a *Archive) decodeEntry(e *Entry) ([]byte, error) {
	payload := e.Payload

	if e.IsCompressed() {
		// Only when the payload underneath is plaintext do we know its
		// exact inflated length; ciphertext carries padding.
		expected := int64(-1)
		if !e.IsEncrypted() {
			expected = int64(e.OriginalSize)
		}
		dec, err := compress.Decompress(payload, expected)
		if err != nil {
			return nil, err
		}
		payload = dec
	}

	if e.IsEncrypted() {
		if !a.cipher.Initialized() {
			return nil, common.ErrPasswordRequired
		}
		dec, err := a.cipher.Decrypt(payload)
		if err != nil {
			return nil, err
		}
		payload = dec
	}

	return payload, nil
}

// decodeVerified reverses the pipeline and checks the plaintext against the
// stored digest in constant time.
func (a *Archive) decodeVerified(e *Entry) ([]byte, error) {
	plain, err := a.decodeEntry(e)
	if err != nil {
		return nil, err
	}
	digest := hash.Digest(plain)
	if !hash.EqualCT(digest[:], e.Digest[:]) {
		return nil, fmt.Errorf("%w: %s", common.ErrChecksumMismatch, e.Path)
	}
	return plain, nil
}
