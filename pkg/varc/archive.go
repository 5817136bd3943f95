// Package varc is the VaultArchive engine: it owns the in-memory entry list
// and orchestrates the hasher, cipher, compressor, and codec into the
// create/open/add/extract/verify/lock/save state machine.
package varc

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/btree"

	"github.com/lotusos/varc/pkg/codec"
	"github.com/lotusos/varc/pkg/common"
	"github.com/lotusos/varc/pkg/crypt"
	"github.com/lotusos/varc/pkg/storage"
)

// SetLogLevel configures the logging verbosity for the varc library.
// Valid levels: "debug", "info", "warn", "error", "disabled"
func SetLogLevel(level string) error {
	switch strings.ToLower(level) {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn", "warning":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "disabled", "none", "off":
		zerolog.SetGlobalLevel(zerolog.Disabled)
	default:
		return fmt.Errorf("invalid log level %q: must be one of: debug, info, warn, error, disabled", level)
	}
	return nil
}

// Archive is one open VARC container. It is not safe for concurrent use;
// callers serialize access externally.
type Archive struct {
	path     string
	header   common.GlobalHeader
	entries  []*Entry
	index    *btree.BTree
	metadata Metadata

	loaded   bool
	modified bool

	rand     io.Reader
	cipher   *crypt.Engine
	progress ProgressFunc
}

// New returns a closed archive wired to the host CSPRNG.
func New() *Archive {
	return NewWithRand(rand.Reader)
}

// NewWithRand lets the host supply the CSPRNG used for salts, IVs, and key
// wiping.
func NewWithRand(r io.Reader) *Archive {
	return &Archive{
		header: common.NewGlobalHeader(),
		index:  newIndex(),
		rand:   r,
		cipher: crypt.NewEngine(r),
	}
}

func newIndex() *btree.BTree {
	return btree.New(func(a, b interface{}) bool {
		return a.(*Entry).Path < b.(*Entry).Path
	})
}

// Create allocates a new empty archive at path. Nothing touches disk until
// Save.
func (a *Archive) Create(path string) error {
	if a.loaded {
		return common.ErrAlreadyOpen
	}

	a.path = path
	a.header = common.NewGlobalHeader()
	a.entries = nil
	a.index = newIndex()
	a.metadata = Metadata{Created: time.Now(), Modified: time.Now()}
	a.loaded = true
	a.modified = false

	log.Debug().Msgf("created empty archive %s", path)
	return nil
}

// Open reads and parses an existing archive whole. Encrypted archives need
// the password up front; entry payloads stay in stored form until extracted.
func (a *Archive) Open(path, password string) error {
	return a.OpenContext(context.Background(), path, password)
}

func (a *Archive) OpenContext(ctx context.Context, path, password string) error {
	if a.loaded {
		return common.ErrAlreadyOpen
	}

	backend, err := storage.Resolve(path)
	if err != nil {
		return err
	}

	data, err := backend.ReadAll(ctx, path)
	if err != nil {
		return err
	}

	header, records, err := codec.ReadArchive(data)
	if err != nil {
		return err
	}

	entries := make([]*Entry, 0, len(records))
	index := newIndex()
	now := time.Now()
	for i := range records {
		r := &records[i]
		e := &Entry{
			Path:         r.Path,
			OriginalSize: r.Header.OriginalSize,
			StoredSize:   r.Header.StoredSize,
			FileType:     r.Header.FileType,
			Flags:        r.Header.Flags,
			Created:      now,
			Modified:     now,
			Payload:      r.Payload,
			Digest:       r.Digest,
		}
		if index.Get(e) != nil {
			return fmt.Errorf("%w: %s", common.ErrDuplicatePath, e.Path)
		}
		index.Set(e)
		entries = append(entries, e)
	}

	if err := checkFlagConsistency(header, entries); err != nil {
		return err
	}

	a.path = path
	a.header = header
	a.entries = entries
	a.index = index
	a.loaded = true
	a.modified = false

	if header.IsEncrypted() {
		if password == "" {
			a.reset()
			return common.ErrPasswordRequired
		}
		if err := a.cipher.InitFromPassword(password, header.Salt[:], header.IV[:]); err != nil {
			a.reset()
			return err
		}
		// Probe one entry so a wrong password fails here, not mid-extract.
		// A decompression failure is payload corruption, not a password
		// problem; it is left for verify/extract to report.
		if len(entries) > 0 {
			if _, err := a.decodeVerified(entries[0]); err != nil {
				var derr *common.DecompressError
				if !errors.As(err, &derr) {
					a.reset()
					return common.ErrWrongPassword
				}
			}
		}
	}

	log.Info().Msgf("opened archive %s (%d entries)", path, len(entries))
	return nil
}

// header flags must agree with entry flags: encrypted is all-or-nothing,
// compressed means at least one compressed entry.
func checkFlagConsistency(h common.GlobalHeader, entries []*Entry) error {
	anyCompressed := false
	for _, e := range entries {
		if e.IsEncrypted() != h.IsEncrypted() {
			return fmt.Errorf("%w: entry %s encryption flag disagrees with header", common.ErrInvalidEntry, e.Path)
		}
		if e.IsCompressed() {
			anyCompressed = true
		}
	}
	if h.IsCompressed() != anyCompressed {
		return fmt.Errorf("%w: header compression flag disagrees with entries", common.ErrInvalidEntry)
	}
	return nil
}

// Close releases the archive, auto-saving first when modified. Key material
// is wiped unconditionally.
func (a *Archive) Close() error {
	if !a.loaded {
		return nil
	}

	var err error
	if a.modified {
		err = a.Save()
	}

	a.reset()
	return err
}

func (a *Archive) reset() {
	a.cipher.Clear()
	a.path = ""
	a.header = common.NewGlobalHeader()
	a.entries = nil
	a.index = newIndex()
	a.metadata = Metadata{}
	a.loaded = false
	a.modified = false
}

// Save serializes the archive and writes it through the storage backend. An
// optional path argument retargets the archive.
func (a *Archive) Save(path ...string) error {
	return a.SaveContext(context.Background(), path...)
}

func (a *Archive) SaveContext(ctx context.Context, path ...string) error {
	if !a.loaded {
		return common.ErrNotOpen
	}

	target := a.path
	if len(path) > 0 && path[0] != "" {
		target = path[0]
	}

	header := a.header
	header.Flags &^= common.ArchiveHasMetadata // metadata has no on-disk layout
	header.Flags &^= common.ArchiveCompressed
	records := make([]codec.Record, 0, len(a.entries))
	for _, e := range a.entries {
		if e.IsCompressed() {
			header.Flags |= common.ArchiveCompressed
		}
		records = append(records, codec.Record{
			Header:  e.header(),
			Path:    e.Path,
			Payload: e.Payload,
			Digest:  e.Digest,
		})
	}

	backend, err := storage.Resolve(target)
	if err != nil {
		return err
	}

	data := codec.WriteArchive(header, records)
	if err := backend.WriteAll(ctx, target, data); err != nil {
		return err
	}

	a.path = target
	a.header.FileCount = uint32(len(a.entries))
	a.modified = false

	log.Info().Msgf("saved archive %s (%d entries, %d bytes)", target, len(a.entries), len(data))
	return nil
}

// IsOpen reports whether the archive holds a loaded state.
func (a *Archive) IsOpen() bool { return a.loaded }

// IsModified reports whether a mutation happened since the last Save.
func (a *Archive) IsModified() bool { return a.modified }

// Path returns the archive's current location.
func (a *Archive) Path() string { return a.path }

// Header returns a copy of the global header.
func (a *Archive) Header() common.GlobalHeader { return a.header }

// Entries returns the entries in on-disk order. The slice is shared; callers
// must not mutate it.
func (a *Archive) Entries() []*Entry { return a.entries }

// EntryCount returns the number of entries.
func (a *Archive) EntryCount() int { return len(a.entries) }

// SetProgressCallback installs fn, called between entries during bulk
// operations. Pass nil to remove it.
func (a *Archive) SetProgressCallback(fn ProgressFunc) {
	a.progress = fn
}

func (a *Archive) invokeProgress(current, total, bytesDone, bytesTotal uint64, path string) {
	if a.progress != nil {
		a.progress(current, total, bytesDone, bytesTotal, path)
	}
}

// GetMetadata returns the in-memory metadata block.
func (a *Archive) GetMetadata() Metadata { return a.metadata }

// SetMetadata replaces the in-memory metadata block. The flag lives only in
// memory; Save never writes it.
func (a *Archive) SetMetadata(m Metadata) {
	a.metadata = m
	a.header.Flags |= common.ArchiveHasMetadata
	a.modified = true
}

// ensureKey makes key material available for reading encrypted entries,
// deriving it from password when the archive was opened without one.
func (a *Archive) ensureKey(password string) error {
	if !a.header.IsEncrypted() {
		return nil
	}
	if a.cipher.Initialized() {
		return nil
	}
	if password == "" {
		return common.ErrPasswordRequired
	}
	return a.cipher.InitFromPassword(password, a.header.Salt[:], a.header.IV[:])
}
