package editor

import (
	"sync"
	"time"
)

// DefaultThumbnailDelay is the quiet period waited after the last change
// before a thumbnail regeneration fires.
const DefaultThumbnailDelay = 800 * time.Millisecond

// ThumbnailScheduler debounces thumbnail regeneration: every change restarts
// the delay, so rapid edits cost one snapshot instead of many.
type ThumbnailScheduler struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
	regen func()
}

func NewThumbnailScheduler(delay time.Duration, regen func()) *ThumbnailScheduler {
	if delay <= 0 {
		delay = DefaultThumbnailDelay
	}
	return &ThumbnailScheduler{delay: delay, regen: regen}
}

// Bump cancels any pending regeneration and schedules a new one.
func (s *ThumbnailScheduler) Bump() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, s.regen)
}

// Stop cancels any outstanding regeneration. Called on teardown.
func (s *ThumbnailScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// AttachThumbnails wires a scheduler so layer and background changes bump it.
func (e *Editor) AttachThumbnails(s *ThumbnailScheduler) {
	e.thumbs = s
}
