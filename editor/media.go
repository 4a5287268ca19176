package editor

import (
	"errors"

	"scenery/core"
)

var ErrImportCompleted = errors.New("editor: media import already completed")

// PendingMedia is the handle for a video import awaiting decoded metadata.
// The layer itself is not constructed until the duration is known, so no
// committed layer ever carries an unknown duration.
type PendingMedia struct {
	src  string
	name string
	done bool
}

func (p *PendingMedia) Src() string { return p.src }

// ImportImage adds an image layer immediately; images need no metadata
// handshake.
func (e *Editor) ImportImage(src, name string) core.Layer {
	if name == "" {
		name = "Image"
	}
	return e.AddLayer(core.NewImageLayer(src, name))
}

// BeginVideoImport starts the two-step video import. The returned handle is
// completed once the decoder reports metadata.
func (e *Editor) BeginVideoImport(src, name string) *PendingMedia {
	if name == "" {
		name = "Video"
	}
	return &PendingMedia{src: src, name: name}
}

// CompleteVideoImport constructs and adds the video layer now that its
// duration is known. Completing a handle twice is an error.
func (e *Editor) CompleteVideoImport(pending *PendingMedia, duration float64) (core.Layer, error) {
	if pending == nil || pending.done {
		return core.Layer{}, ErrImportCompleted
	}
	pending.done = true
	return e.AddLayer(core.NewVideoLayer(pending.src, pending.name, duration)), nil
}

// CancelVideoImport abandons a pending import. The document never saw it, so
// there is nothing to roll back.
func (e *Editor) CancelVideoImport(pending *PendingMedia) {
	if pending != nil {
		pending.done = true
	}
}

// ApplyGeneratedVideo swaps a media layer's source for a generated video and
// turns it into a playing, looping video layer. Called only after a
// generation fully succeeded; unknown ids and non-media layers are a no-op.
func (e *Editor) ApplyGeneratedVideo(id, videoURI string) {
	i := e.activeIndex()
	page := e.project.Pages[i]
	l, ok := page.LayerByID(id)
	if !ok || l.Media == nil {
		return
	}
	c := l.Clone()
	c.Kind = core.KindVideo
	c.Media.Src = videoURI
	c.Media.Playing = true
	c.Media.Loop = true
	c.Media.CurrentTime = nil
	e.project.Pages[i] = page.WithLayerReplaced(id, c)
	e.commit()
	e.bumpThumbnails()
}
