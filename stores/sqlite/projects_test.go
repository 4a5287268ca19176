package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"scenery/core"
)

func newStore(t *testing.T) *ProjectStore {
	t.Helper()
	s, err := NewProjectStore(filepath.Join(t.TempDir(), "scenery.db"))
	if err != nil {
		t.Fatalf("NewProjectStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	p := core.NewProject("Round Trip")
	if err := s.Save(ctx, &p); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load(ctx, p.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.ID != p.ID || got.Name != p.Name {
		t.Fatalf("loaded project differs: %+v", got)
	}
	if len(got.Pages) != 1 || got.Pages[0].Width != 1920 {
		t.Fatalf("pages did not survive the round trip: %+v", got.Pages)
	}
}

func TestSaveUpserts(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	p := core.NewProject("v1")
	if err := s.Save(ctx, &p); err != nil {
		t.Fatalf("Save: %v", err)
	}
	p.Name = "v2"
	if err := s.Save(ctx, &p); err != nil {
		t.Fatalf("Save again: %v", err)
	}

	got, err := s.Load(ctx, p.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Name != "v2" {
		t.Fatalf("name = %q, want v2", got.Name)
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("len = %d, want 1 after upsert", len(list))
	}
}

func TestLoadUnknownID(t *testing.T) {
	s := newStore(t)
	if _, err := s.Load(context.Background(), "missing"); !errors.Is(err, core.ErrProjectNotFound) {
		t.Fatalf("err = %v, want ErrProjectNotFound", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	old := core.NewProject("old")
	old.UpdatedAt = time.Now().Add(-time.Hour).UTC()
	recent := core.NewProject("recent")
	recent.UpdatedAt = time.Now().UTC()

	for _, p := range []*core.Project{&old, &recent} {
		if err := s.Save(ctx, p); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
	if list[0].Name != "recent" || list[1].Name != "old" {
		t.Fatalf("order = %q, %q; want recent, old", list[0].Name, list[1].Name)
	}
}

func TestDelete(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	p := core.NewProject("doomed")
	if err := s.Save(ctx, &p); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Delete(ctx, p.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, p.ID); !errors.Is(err, core.ErrProjectNotFound) {
		t.Fatalf("second delete err = %v, want ErrProjectNotFound", err)
	}
}
