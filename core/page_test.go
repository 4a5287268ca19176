package core

import "testing"

func TestAspectRatioDimensions(t *testing.T) {
	cases := []struct {
		aspect AspectRatio
		w, h   int
	}{
		{AspectLandscape, 1920, 1080},
		{AspectPortrait, 1080, 1920},
		{AspectSquare, 1080, 1080},
		{AspectSocial, 1080, 1350},
	}
	for _, c := range cases {
		w, h := c.aspect.Dimensions()
		if w != c.w || h != c.h {
			t.Fatalf("%s: expected %dx%d, got %dx%d", c.aspect, c.w, c.h, w, h)
		}
	}
}

func TestNewPageMatchesPreset(t *testing.T) {
	p := NewPage("Scene 1", AspectPortrait)
	if p.Width != 1080 || p.Height != 1920 {
		t.Fatalf("page dimensions should match preset, got %dx%d", p.Width, p.Height)
	}
	if p.Background != "#ffffff" {
		t.Fatalf("unexpected default background %q", p.Background)
	}
	if len(p.Layers) != 0 {
		t.Fatal("new pages start empty")
	}
}

func TestWithLayerOpsArePure(t *testing.T) {
	p := NewPage("p", AspectLandscape)
	l := NewTextLayer("a")

	added := p.WithLayerAdded(l)
	if len(p.Layers) != 0 {
		t.Fatal("WithLayerAdded mutated the receiver")
	}
	if len(added.Layers) != 1 {
		t.Fatal("layer not added")
	}

	removed := added.WithLayerRemoved(l.ID)
	if len(added.Layers) != 1 || len(removed.Layers) != 0 {
		t.Fatal("WithLayerRemoved should only affect the returned page")
	}

	renamed := l
	renamed.Name = "renamed"
	replaced := added.WithLayerReplaced(l.ID, renamed)
	if added.Layers[0].Name == "renamed" {
		t.Fatal("WithLayerReplaced mutated the receiver")
	}
	if replaced.Layers[0].Name != "renamed" {
		t.Fatal("replacement not applied")
	}
}

func TestRemoveUnknownLayerIsNoop(t *testing.T) {
	p := NewPage("p", AspectLandscape).WithLayerAdded(NewTextLayer("a"))
	out := p.WithLayerRemoved("missing")
	if len(out.Layers) != 1 {
		t.Fatal("unknown id should leave layers untouched")
	}
}

func TestReorderIsIdempotent(t *testing.T) {
	p := NewPage("p", AspectLandscape)
	a, b, c := NewTextLayer("a"), NewTextLayer("b"), NewTextLayer("c")
	p = p.WithLayerAdded(a).WithLayerAdded(b).WithLayerAdded(c)

	order := []string{c.ID, a.ID, b.ID}
	once := p.WithLayersReordered(order)
	twice := once.WithLayersReordered(order)

	for i, id := range order {
		if once.Layers[i].ID != id {
			t.Fatalf("reorder not applied at %d", i)
		}
		if twice.Layers[i].ID != id {
			t.Fatalf("second application changed the order at %d", i)
		}
	}
}

func TestReorderWithForeignIdsKeepsPage(t *testing.T) {
	p := NewPage("p", AspectLandscape)
	a := NewTextLayer("a")
	p = p.WithLayerAdded(a)

	out := p.WithLayersReordered([]string{"bogus"})
	if len(out.Layers) != 1 || out.Layers[0].ID != a.ID {
		t.Fatal("an invalid permutation must not drop layers")
	}
}

func TestPageDuplicateFreshIds(t *testing.T) {
	p := NewPage("p", AspectLandscape).WithLayerAdded(NewTextLayer("a"))
	d := p.Duplicate()
	if d.ID == p.ID {
		t.Fatal("duplicate page needs a new id")
	}
	if d.Name != "p copy" {
		t.Fatalf("expected decorated name, got %q", d.Name)
	}
	if d.Layers[0].ID == p.Layers[0].ID {
		t.Fatal("duplicated layers must get fresh ids")
	}
	if d.Layers[0].Text.Content != "a" {
		t.Fatal("duplicated layer content must match")
	}
}

func TestClonePagesIndependence(t *testing.T) {
	p := NewPage("p", AspectLandscape).WithLayerAdded(NewTextLayer("a"))
	pages := []Page{p}
	cloned := ClonePages(pages)
	cloned[0].Layers[0].Text.Content = "mutated"
	if pages[0].Layers[0].Text.Content != "a" {
		t.Fatal("ClonePages must deep copy layer payloads")
	}
}
