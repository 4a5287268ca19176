// Package history keeps a linear undo/redo log of whole-document snapshots.
// Entries are deep copies: nothing outside the store can mutate a stored
// snapshot, and nothing the store hands out aliases one.
package history

import "scenery/core"

// Store is an append-only snapshot arena with a cursor. entries[cursor] is
// always the authoritative current document state.
type Store struct {
	entries [][]core.Page
	cursor  int
}

// NewStore starts a fresh timeline with the given pages as its only entry.
func NewStore(pages []core.Page) *Store {
	return &Store{entries: [][]core.Page{core.ClonePages(pages)}}
}

// Commit truncates any redo-able entries past the cursor, appends a deep
// snapshot, and moves the cursor to it. All document mutations route through
// here.
func (s *Store) Commit(pages []core.Page) {
	s.entries = append(s.entries[:s.cursor+1], core.ClonePages(pages))
	s.cursor = len(s.entries) - 1
}

// Undo steps the cursor back and returns the restored snapshot. The second
// return is false when already at the oldest entry.
func (s *Store) Undo() ([]core.Page, bool) {
	if s.cursor == 0 {
		return nil, false
	}
	s.cursor--
	return core.ClonePages(s.entries[s.cursor]), true
}

// Redo steps the cursor forward and returns the restored snapshot. The second
// return is false when already at the newest entry.
func (s *Store) Redo() ([]core.Page, bool) {
	if s.cursor >= len(s.entries)-1 {
		return nil, false
	}
	s.cursor++
	return core.ClonePages(s.entries[s.cursor]), true
}

// Reset discards the timeline and starts over from the given pages. Loading a
// project goes through this: history is never persisted.
func (s *Store) Reset(pages []core.Page) {
	s.entries = [][]core.Page{core.ClonePages(pages)}
	s.cursor = 0
}

// Current returns a copy of the snapshot under the cursor.
func (s *Store) Current() []core.Page {
	return core.ClonePages(s.entries[s.cursor])
}

func (s *Store) Len() int      { return len(s.entries) }
func (s *Store) Cursor() int   { return s.cursor }
func (s *Store) CanUndo() bool { return s.cursor > 0 }
func (s *Store) CanRedo() bool { return s.cursor < len(s.entries)-1 }
