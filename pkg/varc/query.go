package varc

import (
	"fmt"
	"strings"

	"github.com/lotusos/varc/pkg/common"
	"github.com/lotusos/varc/pkg/hash"
)

// FindEntry returns the entry with the exact path, or nil.
func (a *Archive) FindEntry(path string) *Entry {
	item := a.index.Get(&Entry{Path: path})
	if item == nil {
		return nil
	}
	return item.(*Entry)
}

// FindEntries returns the entries whose paths match the glob pattern, in
// stored order.
func (a *Archive) FindEntries(pattern string) []*Entry {
	var out []*Entry
	for _, e := range a.entries {
		if Match(e.Path, pattern) {
			out = append(out, e)
		}
	}
	return out
}

// EntryExists reports whether an entry with the exact path is present.
func (a *Archive) EntryExists(path string) bool {
	return a.FindEntry(path) != nil
}

// TotalOriginalSize sums the uncompressed sizes of all entries.
func (a *Archive) TotalOriginalSize() uint64 {
	var total uint64
	for _, e := range a.entries {
		total += e.OriginalSize
	}
	return total
}

// TotalStoredSize sums the on-disk payload sizes of all entries.
func (a *Archive) TotalStoredSize() uint64 {
	var total uint64
	for _, e := range a.entries {
		total += e.StoredSize
	}
	return total
}

// List renders the archive contents as formatted text.
func (a *Archive) List(opts ListOptions) string {
	var b strings.Builder

	fmt.Fprintf(&b, "VaultArchive Contents: %s\n", a.path)
	b.WriteString("========================================\n\n")

	if len(a.entries) == 0 {
		b.WriteString("(empty archive)\n")
		return b.String()
	}

	if opts.ShowDetails {
		fmt.Fprintf(&b, "%-50s%12s%10s", "Name", "Size", "Type")
		if opts.ShowChecksums {
			fmt.Fprintf(&b, "  %64s", "Checksum")
		}
		if opts.ShowTimestamps {
			fmt.Fprintf(&b, "  %20s", "Modified")
		}
		b.WriteString("\n")

		b.WriteString(strings.Repeat("-", 50) + "  " + strings.Repeat("-", 10) + "  " + strings.Repeat("-", 8))
		if opts.ShowChecksums {
			b.WriteString("  " + strings.Repeat("-", 64))
		}
		if opts.ShowTimestamps {
			b.WriteString("  " + strings.Repeat("-", 20))
		}
		b.WriteString("\n")
	}

	for _, e := range a.entries {
		path := e.Path
		if len(path) > 48 {
			path = "..." + path[len(path)-47:]
		}
		fmt.Fprintf(&b, "%-50s", path)

		size := e.SizeString()
		if !opts.HumanReadable {
			size = fmt.Sprintf("%d", e.OriginalSize)
		}
		if e.IsCompressed() && e.StoredSize != e.OriginalSize {
			size += "*"
		}
		fmt.Fprintf(&b, "%12s%10s", size, e.FileType)

		if opts.ShowChecksums {
			fmt.Fprintf(&b, "  %s", hash.Hex(e.Digest[:]))
		}
		if opts.ShowTimestamps {
			fmt.Fprintf(&b, "  %20s", e.Modified.Format("2006-01-02 15:04:05"))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	total := a.TotalOriginalSize()
	if opts.HumanReadable {
		fmt.Fprintf(&b, "Total: %d files, %s\n", len(a.entries), common.FormatSize(total))
	} else {
		fmt.Fprintf(&b, "Total: %d files, %d\n", len(a.entries), total)
	}

	if a.header.IsCompressed() && total > 0 {
		ratio := 100 * float64(a.TotalStoredSize()) / float64(total)
		fmt.Fprintf(&b, "Compressed: %.1f%% of original\n", ratio)
	}

	return b.String()
}
