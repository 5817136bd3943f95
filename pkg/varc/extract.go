package varc

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lotusos/varc/pkg/common"
)

// GetEntryData returns the verified plaintext of one entry.
func (a *Archive) GetEntryData(path string) ([]byte, error) {
	if !a.loaded {
		return nil, common.ErrNotOpen
	}

	e := a.FindEntry(path)
	if e == nil {
		return nil, fmt.Errorf("%w: %s", common.ErrNotFound, path)
	}
	return a.decodeVerified(e)
}

// ExtractOne reverses the pipeline for a single entry, verifies its digest,
// and writes the plaintext to outputPath. Parent directories are created; the
// file is not fsynced.
func (a *Archive) ExtractOne(path, outputPath, password string) error {
	if !a.loaded {
		return common.ErrNotOpen
	}
	if err := a.ensureKey(password); err != nil {
		return err
	}

	e := a.FindEntry(path)
	if e == nil {
		return fmt.Errorf("%w: %s", common.ErrNotFound, path)
	}

	plain, err := a.decodeVerified(e)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(outputPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("unable to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(outputPath, plain, 0644); err != nil {
		return fmt.Errorf("unable to write %s: %w", outputPath, err)
	}
	return nil
}

// ExtractAll extracts every entry (or the filter-matched subset) into
// outputDir in stored order. Existing files are skipped unless Overwrite is
// set; skipped files still count as processed. Per-file I/O errors are
// logged and extraction continues; decode and checksum failures abort.
func (a *Archive) ExtractAll(outputDir, password string, opts ExtractOptions) (Result, error) {
	start := time.Now()
	result := Result{Success: true}

	if !a.loaded {
		return result, common.ErrNotOpen
	}
	if err := a.ensureKey(password); err != nil {
		return result, err
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return result, fmt.Errorf("unable to create output directory: %w", err)
	}

	selected := make([]*Entry, 0, len(a.entries))
	var bytesTotal uint64
	for _, e := range a.entries {
		if !matchesFilter(e.Path, opts.Filter) {
			continue
		}
		selected = append(selected, e)
		bytesTotal += e.OriginalSize
	}

	for i, e := range selected {
		if e.IsDirectory() {
			os.MkdirAll(filepath.Join(outputDir, filepath.FromSlash(e.Path)), 0755)
			continue
		}

		outputPath := filepath.Join(outputDir, filepath.FromSlash(e.Path))

		if !opts.Overwrite {
			if _, err := os.Stat(outputPath); err == nil {
				result.FilesProcessed++
				result.BytesProcessed += e.OriginalSize
				a.invokeProgress(uint64(i+1), uint64(len(selected)), result.BytesProcessed, bytesTotal, e.Path)
				continue
			}
		}

		plain, err := a.decodeVerified(e)
		if err != nil {
			result.Success = false
			result.Message = err.Error()
			result.Duration = time.Since(start)
			return result, err
		}

		if dir := filepath.Dir(outputPath); dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				log.Warn().Msgf("skipping %s: %v", e.Path, err)
				result.Success = false
				continue
			}
		}
		if err := os.WriteFile(outputPath, plain, 0644); err != nil {
			log.Warn().Msgf("skipping %s: %v", e.Path, err)
			result.Success = false
			continue
		}

		if opts.PreserveTimestamps && !e.Modified.IsZero() {
			os.Chtimes(outputPath, e.Modified, e.Modified)
		}

		result.FilesProcessed++
		result.BytesProcessed += e.OriginalSize
		a.invokeProgress(uint64(i+1), uint64(len(selected)), result.BytesProcessed, bytesTotal, e.Path)
	}

	result.Duration = time.Since(start)
	log.Info().Msgf("extracted %d entries to %s", result.FilesProcessed, outputDir)
	return result, nil
}

// ExtractPattern extracts entries whose paths match the glob pattern.
func (a *Archive) ExtractPattern(pattern, outputDir, password string) (Result, error) {
	start := time.Now()
	result := Result{Success: true}

	if !a.loaded {
		return result, common.ErrNotOpen
	}
	if err := a.ensureKey(password); err != nil {
		return result, err
	}

	for _, e := range a.entries {
		if !Match(e.Path, pattern) {
			continue
		}
		outputPath := filepath.Join(outputDir, filepath.FromSlash(e.Path))
		if err := a.ExtractOne(e.Path, outputPath, password); err != nil {
			result.Success = false
			result.Message = err.Error()
			result.Duration = time.Since(start)
			return result, err
		}
		result.FilesProcessed++
		result.BytesProcessed += e.OriginalSize
	}

	result.Duration = time.Since(start)
	return result, nil
}

// matchesFilter reports whether path contains any of the filter substrings.
// An empty filter matches everything.
func matchesFilter(path string, filter []string) bool {
	if len(filter) == 0 {
		return true
	}
	for _, f := range filter {
		if strings.Contains(path, f) {
			return true
		}
	}
	return false
}
