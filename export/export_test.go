package export

import (
	"errors"
	"image"
	"image/color"
	"os"
	"strings"
	"testing"
	"time"

	"scenery/core"
)

type fakeSurface struct {
	w, h  int
	scale float64

	resizes      []string
	snapshots    int
	lastRatio    float64
	captures     int
	failCaptures bool
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{w: 800, h: 600, scale: 1}
}

func (s *fakeSurface) Size() (int, int) { return s.w, s.h }
func (s *fakeSurface) Scale() float64   { return s.scale }

func (s *fakeSurface) Resize(w, h int, scale float64) {
	s.w, s.h, s.scale = w, h, scale
	s.resizes = append(s.resizes, "resize")
}

func (s *fakeSurface) Capture(page core.Page) (image.Image, error) {
	s.captures++
	if s.failCaptures {
		return nil, errors.New("boom")
	}
	return solidFrame(s.w, s.h), nil
}

func (s *fakeSurface) Snapshot(page core.Page, ratio float64) (image.Image, error) {
	s.snapshots++
	s.lastRatio = ratio
	w := int(float64(page.Width) * ratio)
	h := int(float64(page.Height) * ratio)
	return solidFrame(w, h), nil
}

func solidFrame(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0x80
	}
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	return img
}

type fakeStage struct {
	page     core.Page
	seeks    int
	releases int
}

func (s *fakeStage) Page() core.Page { return s.page }
func (s *fakeStage) SeekVideos()     { s.seeks++ }
func (s *fakeStage) ReleaseVideos()  { s.releases++ }

type fakeClock struct{ slept time.Duration }

func (c *fakeClock) Sleep(d time.Duration) { c.slept += d }

func smallPage() core.Page {
	return core.Page{ID: core.NewID(), Name: "Scene 1", Width: 40, Height: 24, Background: "#ffffff"}
}

func testPipeline(surface Surface) *Pipeline {
	p := New(surface)
	p.clock = &fakeClock{}
	return p
}

func TestStillUsesTargetWidthRatio(t *testing.T) {
	surface := newFakeSurface()
	p := testPipeline(surface)
	stage := &fakeStage{page: smallPage()}

	dir := t.TempDir()
	opts := Options{Format: FormatPNG, TargetWidth: 80}
	path, err := p.Still(stage.Page(), "My Project", opts, dir)
	if err != nil {
		t.Fatalf("Still: %v", err)
	}
	if surface.lastRatio != 2 {
		t.Fatalf("pixel ratio = %v, want 2", surface.lastRatio)
	}
	if stage.seeks != 0 || stage.releases != 0 {
		t.Fatalf("still export touched video playback: seeks=%d releases=%d", stage.seeks, stage.releases)
	}
	if !strings.HasSuffix(path, "my-project.png") {
		t.Fatalf("path = %q", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("output file: %v", err)
	}
	if p.Phase() != PhaseIdle {
		t.Fatalf("phase after still = %v, want idle", p.Phase())
	}
}

func TestStillZeroTargetWidthKeepsPageSize(t *testing.T) {
	surface := newFakeSurface()
	p := testPipeline(surface)

	_, err := p.Still(smallPage(), "p", Options{Format: FormatPNG}, t.TempDir())
	if err != nil {
		t.Fatalf("Still: %v", err)
	}
	if surface.lastRatio != 1 {
		t.Fatalf("ratio = %v, want 1", surface.lastRatio)
	}
}

func TestVideoRestoresSurfaceOnSuccess(t *testing.T) {
	surface := newFakeSurface()
	p := testPipeline(surface)
	stage := &fakeStage{page: smallPage()}

	opts := Options{Format: FormatGIF, TargetWidth: 80, Duration: 100 * time.Millisecond}
	path, err := p.Video(stage, "clip", opts, t.TempDir())
	if err != nil {
		t.Fatalf("Video: %v", err)
	}

	if w, h := surface.Size(); w != 800 || h != 600 {
		t.Fatalf("surface size after export = %dx%d, want 800x600", w, h)
	}
	if surface.Scale() != 1 {
		t.Fatalf("surface scale after export = %v, want 1", surface.Scale())
	}
	if stage.seeks != 1 {
		t.Fatalf("seeks = %d, want 1", stage.seeks)
	}
	if stage.releases != 1 {
		t.Fatalf("releases = %d, want exactly 1", stage.releases)
	}
	if p.Phase() != PhaseIdle {
		t.Fatalf("phase = %v, want idle", p.Phase())
	}
	if p.Progress() != 100 {
		t.Fatalf("progress = %v, want 100", p.Progress())
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("output file: %v", err)
	}
	if surface.captures == 0 {
		t.Fatal("no frames were captured")
	}
}

func TestVideoRestoresSurfaceOnCaptureError(t *testing.T) {
	surface := newFakeSurface()
	surface.failCaptures = true
	p := testPipeline(surface)
	stage := &fakeStage{page: smallPage()}

	opts := Options{Format: FormatGIF, Duration: 100 * time.Millisecond}
	_, err := p.Video(stage, "clip", opts, t.TempDir())
	if err == nil {
		t.Fatal("expected capture error")
	}

	if w, h := surface.Size(); w != 800 || h != 600 {
		t.Fatalf("surface size after failed export = %dx%d, want 800x600", w, h)
	}
	if surface.Scale() != 1 {
		t.Fatalf("surface scale after failed export = %v, want 1", surface.Scale())
	}
	if stage.releases == 0 {
		t.Fatal("videos were not released after failed export")
	}
	if p.Phase() != PhaseIdle {
		t.Fatalf("phase = %v, want idle", p.Phase())
	}
	if p.Progress() != 0 {
		t.Fatalf("progress after failure = %v, want 0", p.Progress())
	}
}

func TestVideoReportsMonotonicProgress(t *testing.T) {
	surface := newFakeSurface()
	p := testPipeline(surface)
	stage := &fakeStage{page: smallPage()}

	var seen []float64
	p.OnProgress(func(pct float64) { seen = append(seen, pct) })

	opts := Options{Format: FormatGIF, Duration: 150 * time.Millisecond}
	if _, err := p.Video(stage, "clip", opts, t.TempDir()); err != nil {
		t.Fatalf("Video: %v", err)
	}

	if len(seen) < 2 {
		t.Fatalf("progress callbacks = %d, want several", len(seen))
	}
	for i := 1; i < len(seen); i++ {
		if seen[i] < seen[i-1] {
			t.Fatalf("progress went backwards: %v then %v", seen[i-1], seen[i])
		}
	}
	if last := seen[len(seen)-1]; last != 100 {
		t.Fatalf("final progress = %v, want 100", last)
	}
}

// Run with -race: the UI polls progress and phase from the program loop
// while the export runs on its own goroutine.
func TestProgressPollableWhileRecording(t *testing.T) {
	surface := newFakeSurface()
	p := testPipeline(surface)
	stage := &fakeStage{page: smallPage()}
	dir := t.TempDir()

	done := make(chan error, 1)
	go func() {
		_, err := p.Video(stage, "clip", Options{Format: FormatGIF, Duration: 150 * time.Millisecond}, dir)
		done <- err
	}()

	for {
		select {
		case err := <-done:
			if err != nil {
				t.Fatalf("Video: %v", err)
			}
			if p.Busy() {
				t.Fatal("pipeline busy after the export returned")
			}
			return
		default:
			_ = p.Progress()
			_ = p.Phase()
			time.Sleep(time.Millisecond)
		}
	}
}

func TestVideoRejectedWhileBusy(t *testing.T) {
	p := testPipeline(newFakeSurface())
	p.phase = PhaseRecording

	_, err := p.Video(&fakeStage{page: smallPage()}, "clip", Options{Format: FormatGIF}, t.TempDir())
	if !errors.Is(err, ErrBusy) {
		t.Fatalf("err = %v, want ErrBusy", err)
	}
	_, err = p.Still(smallPage(), "clip", Options{Format: FormatPNG}, t.TempDir())
	if !errors.Is(err, ErrBusy) {
		t.Fatalf("still err = %v, want ErrBusy", err)
	}
}

func TestExportWithoutSurface(t *testing.T) {
	p := New(nil)
	if _, err := p.Still(smallPage(), "p", Options{}, t.TempDir()); !errors.Is(err, ErrNoSurface) {
		t.Fatalf("err = %v, want ErrNoSurface", err)
	}
	if _, err := p.Video(&fakeStage{page: smallPage()}, "p", Options{}, t.TempDir()); !errors.Is(err, ErrNoSurface) {
		t.Fatalf("err = %v, want ErrNoSurface", err)
	}
}
