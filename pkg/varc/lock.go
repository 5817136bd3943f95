package varc

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/lotusos/varc/pkg/common"
	"github.com/lotusos/varc/pkg/compress"
	"github.com/lotusos/varc/pkg/crypt"
)

// Lock encrypts every entry in place under a fresh salt and IV. Compressed
// entries are inflated, encrypted, and re-deflated so the stored form keeps
// the canonical encrypt-then-compress order the reverse pipeline expects.
// Payloads are staged and committed together; a failure leaves the archive
// unchanged.
func (a *Archive) Lock(password string) error {
	if !a.loaded {
		return common.ErrNotOpen
	}
	if a.header.IsEncrypted() {
		return common.ErrAlreadyEncrypted
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

	cipher := crypt.NewEngine(a.rand)
	if err := cipher.InitFromPassword(password, salt, iv); err != nil {
		return err
	}
	defer cipher.Clear()

	staged := make([][]byte, len(a.entries))
	for i, e := range a.entries {
		inner := e.Payload
		if e.IsCompressed() {
			inner, err = compress.Decompress(inner, int64(e.OriginalSize))
			if err != nil {
				return fmt.Errorf("entry %s: %w", e.Path, err)
			}
		}

		enc, err := cipher.Encrypt(inner)
		if err != nil {
			return fmt.Errorf("entry %s: %w", e.Path, err)
		}

		if e.IsCompressed() {
			enc, err = compress.Compress(enc, compress.DefaultLevel)
			if err != nil {
				return fmt.Errorf("entry %s: %w", e.Path, err)
			}
		}
		staged[i] = enc
	}

	for i, e := range a.entries {
		e.setPayload(staged[i])
		e.Flags |= common.EntryEncrypted
	}

	copy(a.header.Salt[:], salt)
	copy(a.header.IV[:], iv)
	a.header.Flags |= common.ArchiveEncrypted

	a.cipher.Clear()
	if err := a.cipher.InitFromPassword(password, salt, iv); err != nil {
		return err
	}

	a.modified = true
	log.Info().Msgf("locked archive %s (%d entries)", a.path, len(a.entries))
	return nil
}

// Unlock decrypts every entry in place and clears the encryption flags. Any
// padding failure means a wrong password; the archive is left unchanged.
func (a *Archive) Unlock(password string) error {
	if !a.loaded {
		return common.ErrNotOpen
	}
	if !a.header.IsEncrypted() {
		return common.ErrNotEncrypted
	}
	if password == "" {
		return common.ErrEmptyPassword
	}

	cipher := crypt.NewEngine(a.rand)
	if err := cipher.InitFromPassword(password, a.header.Salt[:], a.header.IV[:]); err != nil {
		return err
	}
	defer cipher.Clear()

	staged := make([][]byte, len(a.entries))
	for i, e := range a.entries {
		inner := e.Payload
		var err error
		if e.IsCompressed() {
			inner, err = compress.Decompress(inner, -1)
			if err != nil {
				return fmt.Errorf("entry %s: %w", e.Path, err)
			}
		}

		plain, err := cipher.Decrypt(inner)
		if err != nil {
			if errors.Is(err, common.ErrBadPadding) {
				return common.ErrWrongPassword
			}
			return fmt.Errorf("entry %s: %w", e.Path, err)
		}

		if e.IsCompressed() {
			plain, err = compress.Compress(plain, compress.DefaultLevel)
			if err != nil {
				return fmt.Errorf("entry %s: %w", e.Path, err)
			}
		}
		staged[i] = plain
	}

	for i, e := range a.entries {
		e.setPayload(staged[i])
		e.Flags &^= common.EntryEncrypted
	}

	a.header.Salt = [common.SaltSize]byte{}
	a.header.IV = [common.IVSize]byte{}
	a.header.Flags &^= common.ArchiveEncrypted
	a.cipher.Clear()

	a.modified = true
	log.Info().Msgf("unlocked archive %s (%d entries)", a.path, len(a.entries))
	return nil
}

// ChangePassword re-keys the archive as unlock(old) then lock(new) in one
// transaction. If unlock fails nothing changes; if lock fails afterwards the
// archive is left unlocked and the error says so.
func (a *Archive) ChangePassword(oldPassword, newPassword string) error {
	if err := a.Unlock(oldPassword); err != nil {
		return err
	}
	if err := a.Lock(newPassword); err != nil {
		return fmt.Errorf("re-lock failed, archive left unlocked: %w", err)
	}
	return nil
}
