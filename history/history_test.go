package history

import (
	"fmt"
	"testing"

	"scenery/core"
)

func pagesNamed(name string) []core.Page {
	p := core.NewPage(name, core.AspectLandscape)
	return []core.Page{p}
}

func TestNewStoreStartsWithSingleEntry(t *testing.T) {
	s := NewStore(pagesNamed("initial"))
	if s.Len() != 1 || s.Cursor() != 0 {
		t.Fatalf("expected len=1 cursor=0, got len=%d cursor=%d", s.Len(), s.Cursor())
	}
	if s.CanUndo() || s.CanRedo() {
		t.Fatal("fresh store has nothing to undo or redo")
	}
}

func TestLinearity(t *testing.T) {
	s := NewStore(pagesNamed("v0"))
	const n = 5
	for i := 1; i <= n; i++ {
		s.Commit(pagesNamed(fmt.Sprintf("v%d", i)))
	}

	// K undos land on snapshot N-K.
	for k := 1; k <= n; k++ {
		pages, ok := s.Undo()
		if !ok {
			t.Fatalf("undo %d failed", k)
		}
		want := fmt.Sprintf("v%d", n-k)
		if pages[0].Name != want {
			t.Fatalf("undo %d: expected %s, got %s", k, want, pages[0].Name)
		}
	}
	if _, ok := s.Undo(); ok {
		t.Fatal("undo past the oldest entry must be a no-op")
	}

	// Redo walks forward in order.
	for k := 1; k <= n; k++ {
		pages, ok := s.Redo()
		if !ok {
			t.Fatalf("redo %d failed", k)
		}
		want := fmt.Sprintf("v%d", k)
		if pages[0].Name != want {
			t.Fatalf("redo %d: expected %s, got %s", k, want, pages[0].Name)
		}
	}
	if _, ok := s.Redo(); ok {
		t.Fatal("redo past the newest entry must be a no-op")
	}
}

func TestCommitTruncatesRedoableEntries(t *testing.T) {
	s := NewStore(pagesNamed("v0"))
	s.Commit(pagesNamed("v1"))
	s.Commit(pagesNamed("v2"))

	if _, ok := s.Undo(); !ok {
		t.Fatal("undo failed")
	}
	s.Commit(pagesNamed("branch"))

	if s.CanRedo() {
		t.Fatal("commit from a non-tip cursor must discard redoable entries")
	}
	if s.Len() != 3 {
		t.Fatalf("expected 3 entries after truncation, got %d", s.Len())
	}
	if cur := s.Current(); cur[0].Name != "branch" {
		t.Fatalf("expected branch at cursor, got %s", cur[0].Name)
	}
}

func TestEntriesNeverAlias(t *testing.T) {
	pages := pagesNamed("v0")
	pages[0] = pages[0].WithLayerAdded(core.NewTextLayer("original"))
	s := NewStore(pages)

	// Mutating the input after commit must not affect the stored entry.
	pages[0].Layers[0].Text.Content = "tampered"
	if cur := s.Current(); cur[0].Layers[0].Text.Content != "original" {
		t.Fatal("store aliased the committed input")
	}

	// Mutating a read-out snapshot must not affect the store either.
	cur := s.Current()
	cur[0].Layers[0].Text.Content = "tampered"
	if again := s.Current(); again[0].Layers[0].Text.Content != "original" {
		t.Fatal("store handed out an aliased snapshot")
	}
}

func TestResetStartsFreshTimeline(t *testing.T) {
	s := NewStore(pagesNamed("v0"))
	s.Commit(pagesNamed("v1"))
	s.Commit(pagesNamed("v2"))

	s.Reset(pagesNamed("loaded"))
	if s.Len() != 1 || s.Cursor() != 0 {
		t.Fatalf("reset should leave a single-entry log, got len=%d cursor=%d", s.Len(), s.Cursor())
	}
	if s.CanUndo() {
		t.Fatal("loaded projects start with no undo history")
	}
	if cur := s.Current(); cur[0].Name != "loaded" {
		t.Fatalf("expected loaded snapshot, got %s", cur[0].Name)
	}
}
