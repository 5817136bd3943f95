package varc

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/lotusos/varc/pkg/common"
)

// Remove deletes the entry with the exact path.
func (a *Archive) Remove(path string) error {
	if !a.loaded {
		return common.ErrNotOpen
	}

	for i, e := range a.entries {
		if e.Path == path {
			a.entries = append(a.entries[:i], a.entries[i+1:]...)
			a.index.Delete(e)
			a.modified = true
			log.Debug().Msgf("removed entry %s", path)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", common.ErrNotFound, path)
}

// RemovePattern deletes every entry whose path matches the glob pattern and
// returns how many were removed.
func (a *Archive) RemovePattern(pattern string) int {
	if !a.loaded {
		return 0
	}

	kept := a.entries[:0]
	removed := 0
	for _, e := range a.entries {
		if Match(e.Path, pattern) {
			a.index.Delete(e)
			removed++
			continue
		}
		kept = append(kept, e)
	}
	a.entries = kept

	if removed > 0 {
		a.modified = true
		log.Debug().Msgf("removed %d entries matching %q", removed, pattern)
	}
	return removed
}

// Clear deletes every entry.
func (a *Archive) Clear() {
	if !a.loaded || len(a.entries) == 0 {
		return
	}
	a.entries = nil
	a.index = newIndex()
	a.modified = true
}
