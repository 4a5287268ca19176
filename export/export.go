// Package export turns a rendered page into a file: a PNG still, or a video
// recorded by capturing frames at a fixed rate while the page's video layers
// play. The video path is an explicit state machine; whatever happens, the
// render surface is restored to its pre-export size and the video layers are
// released before the pipeline returns.
package export

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"scenery/core"
)

var (
	ErrBusy      = errors.New("export: already in progress")
	ErrNoSurface = errors.New("export: render surface unavailable")
)

// Surface is the single mutable render surface. The pipeline owns it
// exclusively for the duration of an export.
type Surface interface {
	Size() (width, height int)
	Scale() float64
	Resize(width, height int, scale float64)
	Capture(page core.Page) (image.Image, error)
	Snapshot(page core.Page, pixelRatio float64) (image.Image, error)
}

// Stage is the document side of an export: the page being recorded and
// control over its video layers' playback sub-state.
type Stage interface {
	Page() core.Page
	SeekVideos()
	ReleaseVideos()
}

type Format string

const (
	FormatPNG Format = "png"
	FormatAVI Format = "avi"
	FormatGIF Format = "gif"
)

// Options is the recognized export configuration. TargetWidth drives the
// capture pixel ratio, Duration bounds the recording, Format selects the
// still vs video path.
type Options struct {
	Format      Format
	TargetWidth int
	Label       string
	Duration    time.Duration
}

type Phase int

const (
	PhaseIdle Phase = iota
	PhasePreparing
	PhaseSeeking
	PhaseRecording
	PhaseFinalizing
)

const (
	defaultFPS      = 30
	defaultDuration = 5 * time.Second

	// settleDelay lets video elements visually stabilize at frame zero
	// before capture starts. Too short captures a stale frame, too long
	// wastes export time.
	settleDelay = 500 * time.Millisecond
)

// Clock abstracts the pipeline's waits so tests run instantly.
type Clock interface {
	Sleep(d time.Duration)
}

type realClock struct{}

func (realClock) Sleep(d time.Duration) { time.Sleep(d) }

type Pipeline struct {
	surface Surface
	clock   Clock
	fps     int
	settle  time.Duration

	// mu guards phase and progress: an export runs on its own goroutine
	// while the UI polls both.
	mu         sync.Mutex
	phase      Phase
	progress   float64
	onProgress func(float64)

	log *logrus.Entry
}

func New(surface Surface) *Pipeline {
	return &Pipeline{
		surface: surface,
		clock:   realClock{},
		fps:     defaultFPS,
		settle:  settleDelay,
		log:     logrus.WithField("component", "export"),
	}
}

func (p *Pipeline) Phase() Phase {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.phase
}

func (p *Pipeline) Progress() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.progress
}

func (p *Pipeline) Busy() bool { return p.Phase() != PhaseIdle }

// OnProgress registers the progress callback. Set it before starting an
// export; the callback runs on the exporting goroutine.
func (p *Pipeline) OnProgress(f func(float64)) { p.onProgress = f }

func (p *Pipeline) setPhase(ph Phase) {
	p.mu.Lock()
	p.phase = ph
	p.mu.Unlock()
}

func (p *Pipeline) setProgress(pct float64) {
	if pct > 100 {
		pct = 100
	}
	p.mu.Lock()
	p.progress = pct
	p.mu.Unlock()
	if p.onProgress != nil {
		p.onProgress(pct)
	}
}

func pixelRatio(targetWidth, pageWidth int) float64 {
	if targetWidth <= 0 || pageWidth <= 0 {
		return 1
	}
	return float64(targetWidth) / float64(pageWidth)
}

// Still renders the page at the configured pixel ratio and writes a PNG into
// dir. No video synchronization happens on this path.
func (p *Pipeline) Still(page core.Page, projectName string, opts Options, dir string) (string, error) {
	if p.Busy() {
		return "", ErrBusy
	}
	if p.surface == nil {
		return "", ErrNoSurface
	}

	ratio := pixelRatio(opts.TargetWidth, page.Width)
	img, err := p.surface.Snapshot(page, ratio)
	if err != nil {
		return "", fmt.Errorf("export: snapshot: %w", err)
	}

	path := Filename(dir, projectName, opts.Label, FormatPNG)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return "", fmt.Errorf("export: encode png: %w", err)
	}

	p.log.WithFields(logrus.Fields{"path": path, "ratio": ratio}).Info("still exported")
	return path, nil
}

// Video runs the capture-and-record state machine:
//
//	Idle -> Preparing -> Seeking -> Recording -> Finalizing -> Idle
//
// The surface is resized to page dimensions at the target pixel ratio for
// the duration of recording and restored on every exit path, success or
// error. Video layers are likewise released on every exit path.
func (p *Pipeline) Video(stage Stage, projectName string, opts Options, dir string) (path string, err error) {
	p.mu.Lock()
	if p.phase != PhaseIdle {
		p.mu.Unlock()
		return "", ErrBusy
	}
	if p.surface == nil {
		p.mu.Unlock()
		return "", ErrNoSurface
	}
	p.phase = PhasePreparing
	p.mu.Unlock()

	page := stage.Page()
	ratio := pixelRatio(opts.TargetWidth, page.Width)
	duration := opts.Duration
	if duration <= 0 {
		duration = defaultDuration
	}

	p.setProgress(0)
	origW, origH := p.surface.Size()
	origScale := p.surface.Scale()
	p.surface.Resize(page.Width, page.Height, ratio)

	released := false
	defer func() {
		p.surface.Resize(origW, origH, origScale)
		if !released {
			stage.ReleaseVideos()
		}
		p.setPhase(PhaseIdle)
		if err != nil {
			p.setProgress(0)
		}
	}()

	p.setPhase(PhaseSeeking)
	stage.SeekVideos()
	p.clock.Sleep(p.settle)

	outW := int(float64(page.Width) * ratio)
	outH := int(float64(page.Height) * ratio)
	rec, format, err := newRecorder(opts.Format, dir, projectName, opts.Label, outW, outH, p.fps)
	if err != nil {
		return "", fmt.Errorf("export: recorder: %w", err)
	}
	path = rec.path()

	p.setPhase(PhaseRecording)
	stage.ReleaseVideos()
	released = true

	frameInterval := time.Second / time.Duration(p.fps)
	for elapsed := time.Duration(0); elapsed < duration; elapsed += frameInterval {
		frame, captureErr := p.surface.Capture(stage.Page())
		if captureErr != nil {
			rec.discard()
			return "", fmt.Errorf("export: capture: %w", captureErr)
		}
		if addErr := rec.add(frame); addErr != nil {
			rec.discard()
			return "", fmt.Errorf("export: record frame: %w", addErr)
		}
		p.setProgress(float64(elapsed) / float64(duration) * 100)
		p.clock.Sleep(frameInterval)
	}

	p.setPhase(PhaseFinalizing)
	if err = rec.close(); err != nil {
		return "", fmt.Errorf("export: finalize: %w", err)
	}
	p.setProgress(100)

	p.log.WithFields(logrus.Fields{
		"path":     path,
		"format":   format,
		"duration": duration,
		"ratio":    ratio,
	}).Info("video exported")
	return path, nil
}
