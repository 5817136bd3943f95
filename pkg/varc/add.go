package varc

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lotusos/varc/pkg/common"
)

// AddBytes stores data under the given archive path.
func (a *Archive) AddBytes(path string, data []byte, opts CreateOptions) error {
	if !a.loaded {
		return common.ErrNotOpen
	}

	norm, err := normalizePath(path)
	if err != nil {
		return err
	}

	return a.AddEntry(NewEntry(norm, data), opts)
}

// AddEntry validates and pipelines an entry whose Payload holds plaintext.
// The digest is fixed from that plaintext if not already set.
func (a *Archive) AddEntry(e *Entry, opts CreateOptions) error {
	if !a.loaded {
		return common.ErrNotOpen
	}
	if len(e.Path) > common.MaxPathLength {
		return fmt.Errorf("%w: %d bytes", common.ErrPathTooLong, len(e.Path))
	}
	if a.index.Get(e) != nil {
		return fmt.Errorf("%w: %s", common.ErrDuplicatePath, e.Path)
	}

	var zero [common.ChecksumSize]byte
	if e.Digest == zero {
		*e = *NewEntryAt(e.Path, e.Payload, e.Created, e.Modified, e.Flags)
	}

	if err := a.applyPipeline(e, opts); err != nil {
		return err
	}

	a.entries = append(a.entries, e)
	a.index.Set(e)
	a.modified = true

	log.Debug().Msgf("added entry %s (%d bytes, %s)", e.Path, e.OriginalSize, e.FileType)
	return nil
}

// NewEntryAt is NewEntry with explicit timestamps and extra flags, used when
// the entry originates from the filesystem.
func NewEntryAt(path string, data []byte, created, modified time.Time, flags uint32) *Entry {
	e := NewEntry(path, data)
	if !created.IsZero() {
		e.Created = created
	}
	if !modified.IsZero() {
		e.Modified = modified
	}
	e.Flags |= flags
	return e
}

// AddPath reads one file from the filesystem and stores it under its
// supplied path (normalized to the archive's forward-slash form).
func (a *Archive) AddPath(fsPath string, opts CreateOptions) error {
	if !a.loaded {
		return common.ErrNotOpen
	}

	fi, err := os.Stat(fsPath)
	if err != nil {
		return fmt.Errorf("unable to stat %s: %w", fsPath, err)
	}
	if fi.IsDir() {
		return fmt.Errorf("%w: %s is a directory", common.ErrInvalidEntry, fsPath)
	}

	data, err := os.ReadFile(fsPath)
	if err != nil {
		return fmt.Errorf("unable to read %s: %w", fsPath, err)
	}

	norm, err := normalizePath(fsPath)
	if err != nil {
		return err
	}

	var flags uint32
	if strings.HasPrefix(filepath.Base(fsPath), ".") {
		flags |= common.EntryHidden
	}
	if fi.Mode().Perm()&0200 == 0 {
		flags |= common.EntryReadonly
	}

	return a.AddEntry(NewEntryAt(norm, data, fi.ModTime(), fi.ModTime(), flags), opts)
}

// AddDirectory walks root recursively and adds every regular file under it,
// keyed by its path relative to root's parent. Directory entries themselves
// are not stored; extraction recreates them as needed. Duplicate paths are
// skipped and reported, not fatal.
func (a *Archive) AddDirectory(root string, opts CreateOptions) (Result, error) {
	start := time.Now()
	result := Result{Success: true}

	if !a.loaded {
		return result, common.ErrNotOpen
	}

	base := filepath.Dir(filepath.Clean(root))
	skipped := 0

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		hidden := strings.HasPrefix(d.Name(), ".") && p != filepath.Clean(root)
		if d.IsDir() {
			if hidden && !opts.IncludeHidden {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if hidden && !opts.IncludeHidden {
			return nil
		}

		rel, err := filepath.Rel(base, p)
		if err != nil {
			return err
		}
		relSlash := filepath.ToSlash(rel)

		for _, pat := range opts.ExcludePatterns {
			if Match(relSlash, pat) {
				return nil
			}
		}

		fi, err := d.Info()
		if err != nil {
			return err
		}

		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}

		var flags uint32
		if strings.HasPrefix(d.Name(), ".") {
			flags |= common.EntryHidden
		}
		if fi.Mode().Perm()&0200 == 0 {
			flags |= common.EntryReadonly
		}

		addErr := a.AddEntry(NewEntryAt(relSlash, data, fi.ModTime(), fi.ModTime(), flags), opts)
		if addErr != nil {
			if errors.Is(addErr, common.ErrDuplicatePath) {
				log.Warn().Msgf("skipping duplicate path %s", relSlash)
				skipped++
				return nil
			}
			return addErr
		}

		result.FilesProcessed++
		result.BytesProcessed += uint64(len(data))
		a.invokeProgress(result.FilesProcessed, 0, result.BytesProcessed, result.BytesProcessed, relSlash)
		return nil
	})

	result.Duration = time.Since(start)
	if err != nil {
		result.Success = false
		result.Message = err.Error()
		return result, err
	}
	if skipped > 0 {
		result.Message = fmt.Sprintf("%d duplicate paths skipped", skipped)
	}
	return result, nil
}

// AddFiles adds a mixed list of file and directory paths, the CLI's input
// shape. Directories recurse; duplicates are skipped and reported.
func (a *Archive) AddFiles(paths []string, opts CreateOptions) (Result, error) {
	start := time.Now()
	result := Result{Success: true}

	if !a.loaded {
		return result, common.ErrNotOpen
	}

	for i, p := range paths {
		fi, err := os.Stat(p)
		if err != nil {
			return result, fmt.Errorf("unable to stat %s: %w", p, err)
		}

		if fi.IsDir() {
			sub, err := a.AddDirectory(p, opts)
			result.FilesProcessed += sub.FilesProcessed
			result.BytesProcessed += sub.BytesProcessed
			if err != nil {
				result.Success = false
				result.Message = err.Error()
				result.Duration = time.Since(start)
				return result, err
			}
			continue
		}

		if err := a.AddPath(p, opts); err != nil {
			if errors.Is(err, common.ErrDuplicatePath) {
				log.Warn().Msgf("skipping duplicate path %s", p)
				continue
			}
			result.Success = false
			result.Message = err.Error()
			result.Duration = time.Since(start)
			return result, err
		}

		result.FilesProcessed++
		result.BytesProcessed += uint64(fi.Size())
		a.invokeProgress(uint64(i+1), uint64(len(paths)), result.BytesProcessed, result.BytesProcessed, p)
	}

	result.Duration = time.Since(start)
	return result, nil
}

// normalizePath converts a filesystem or caller path to the archive's
// canonical form: forward slashes, no leading slash, no dot segments.
func normalizePath(p string) (string, error) {
	s := filepath.ToSlash(p)
	s = strings.TrimPrefix(s, "./")
	for strings.HasPrefix(s, "../") {
		s = strings.TrimPrefix(s, "../")
	}
	s = strings.TrimPrefix(s, "/")
	if s == "" || s == "." {
		return "", fmt.Errorf("%w: empty path", common.ErrInvalidEntry)
	}
	if len(s) > common.MaxPathLength {
		return "", fmt.Errorf("%w: %d bytes", common.ErrPathTooLong, len(s))
	}
	return s, nil
}
