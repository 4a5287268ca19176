package render

import (
	"errors"
	"image/color"
	"testing"

	"scenery/core"
)

func testPage() core.Page {
	p := core.NewPage("Scene 1", core.AspectLandscape)
	p.Width, p.Height = 192, 108
	return p
}

func TestSnapshotDimensions(t *testing.T) {
	r := NewRaster()
	page := testPage()

	img, err := r.Snapshot(page, 2)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 384 || b.Dy() != 216 {
		t.Fatalf("snapshot = %dx%d, want 384x216", b.Dx(), b.Dy())
	}
}

func TestSnapshotNonPositiveRatioDefaultsToOne(t *testing.T) {
	r := NewRaster()
	page := testPage()

	img, err := r.Snapshot(page, 0)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if b := img.Bounds(); b.Dx() != page.Width || b.Dy() != page.Height {
		t.Fatalf("snapshot = %dx%d, want %dx%d", b.Dx(), b.Dy(), page.Width, page.Height)
	}
}

func TestSnapshotPaintsBackground(t *testing.T) {
	r := NewRaster()
	page := testPage()
	page.Background = "#ff0000"

	img, err := r.Snapshot(page, 1)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	cr, cg, cb, _ := img.At(0, 0).RGBA()
	if cr>>8 != 0xff || cg>>8 != 0 || cb>>8 != 0 {
		t.Fatalf("corner pixel = %v, want red", img.At(0, 0))
	}
}

func TestSnapshotSkipsHiddenLayers(t *testing.T) {
	r := NewRaster()
	page := testPage()
	page.Background = "#ffffff"

	l := core.NewShapeLayer(core.KindRect)
	l.Frame = core.Frame{X: 0, Y: 0, Width: float64(page.Width), Height: float64(page.Height)}
	l.Shape.Fill = "#000000"
	l.Visible = false
	page = page.WithLayerAdded(l)

	img, err := r.Snapshot(page, 1)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	cr, _, _, _ := img.At(10, 10).RGBA()
	if cr>>8 != 0xff {
		t.Fatal("hidden layer was drawn")
	}
}

func TestSnapshotDrawsShape(t *testing.T) {
	r := NewRaster()
	page := testPage()
	page.Background = "#ffffff"

	l := core.NewShapeLayer(core.KindRect)
	l.Frame = core.Frame{X: 0, Y: 0, Width: float64(page.Width), Height: float64(page.Height)}
	l.Shape.Fill = "#0000ff"
	page = page.WithLayerAdded(l)

	img, err := r.Snapshot(page, 1)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	_, _, cb, _ := img.At(page.Width/2, page.Height/2).RGBA()
	if cb>>8 != 0xff {
		t.Fatalf("center pixel = %v, want blue", img.At(page.Width/2, page.Height/2))
	}
}

func TestCaptureRequiresSurface(t *testing.T) {
	r := NewRaster()
	if _, err := r.Capture(testPage()); !errors.Is(err, ErrNoSurface) {
		t.Fatalf("err = %v, want ErrNoSurface", err)
	}
}

func TestCaptureUsesSurfaceSizeAndScale(t *testing.T) {
	r := NewRaster()
	r.Resize(100, 50, 2)

	img, err := r.Capture(testPage())
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 100 {
		t.Fatalf("capture = %dx%d, want 200x100", b.Dx(), b.Dy())
	}
}

func TestLayerRaster(t *testing.T) {
	r := NewRaster()
	page := testPage()

	l := core.NewShapeLayer(core.KindEllipse)
	l.Frame = core.Frame{X: 500, Y: 500, Width: 60, Height: 40, Rotation: 45}
	page = page.WithLayerAdded(l)

	img, err := r.LayerRaster(page, l.ID)
	if err != nil {
		t.Fatalf("LayerRaster: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 60 || b.Dy() != 40 {
		t.Fatalf("layer raster = %dx%d, want 60x40", b.Dx(), b.Dy())
	}

	if _, err := r.LayerRaster(page, "nope"); !errors.Is(err, ErrLayerNotFound) {
		t.Fatalf("err = %v, want ErrLayerNotFound", err)
	}
}

func TestParseColor(t *testing.T) {
	cases := []struct {
		in      string
		opacity float64
		want    color.NRGBA
	}{
		{"#ff0000", 1, color.NRGBA{R: 255, A: 255}},
		{"#f00", 1, color.NRGBA{R: 255, A: 255}},
		{"#00ff0080", 1, color.NRGBA{G: 255, A: 128}},
		{"#0000ff", 0.5, color.NRGBA{B: 255, A: 127}},
		{"garbage", 1, color.NRGBA{A: 255}},
		{"", 1, color.NRGBA{A: 255}},
	}
	for _, c := range cases {
		got := parseColor(c.in, c.opacity)
		if got != c.want {
			t.Errorf("parseColor(%q, %v) = %v, want %v", c.in, c.opacity, got, c.want)
		}
	}
}
