package varc

import "time"

// ProgressFunc is invoked between entries during bulk operations, never
// mid-entry and never re-entrantly.
type ProgressFunc func(current, total, bytesDone, bytesTotal uint64, currentPath string)

// CreateOptions governs how entries are added.
type CreateOptions struct {
	Compress         bool
	CompressionLevel int
	Encrypt          bool
	Password         string
	FollowSymlinks   bool
	IncludeHidden    bool
	ExcludePatterns  []string
}

// DefaultCreateOptions mirrors the CLI defaults: compress at level 6, no
// encryption, include hidden files.
func DefaultCreateOptions() CreateOptions {
	return CreateOptions{
		Compress:         true,
		CompressionLevel: 6,
		FollowSymlinks:   true,
		IncludeHidden:    true,
	}
}

// ExtractOptions governs extraction.
type ExtractOptions struct {
	Overwrite          bool
	PreserveTimestamps bool
	Filter             []string
}

// ListOptions governs the formatted listing.
type ListOptions struct {
	ShowDetails    bool
	ShowChecksums  bool
	ShowTimestamps bool
	HumanReadable  bool
}

// DefaultListOptions matches the CLI's default listing.
func DefaultListOptions() ListOptions {
	return ListOptions{ShowDetails: true, ShowTimestamps: true, HumanReadable: true}
}

// Result summarizes a bulk operation.
type Result struct {
	Success        bool
	Message        string
	FilesProcessed uint64
	BytesProcessed uint64
	Duration       time.Duration
}

// Metadata is the in-memory archive annotation block. The on-disk format
// reserves a flag for it but defines no layout, so it is never serialized.
type Metadata struct {
	Created     time.Time
	Modified    time.Time
	Creator     string
	Description string
	Tags        map[string]string
}
