// Package editor owns the live document: the active project, selection,
// viewport and tool mode. Every document mutation funnels into the history
// store so undo/redo always sees whole-document snapshots.
package editor

import (
	"errors"

	"scenery/core"
	"scenery/history"
)

var (
	ErrLastPage   = errors.New("editor: cannot delete the last page")
	ErrExportBusy = errors.New("editor: export in progress")
)

// Tool selects how pointer input is interpreted. It does not affect the data
// model.
type Tool int

const (
	ToolSelect Tool = iota
	ToolHand
)

type Editor struct {
	project  core.Project
	history  *history.Store
	active   string // active page id, always valid
	selected string // selected layer id, or ""

	viewport  Viewport
	tool      Tool
	exporting bool

	thumbs *ThumbnailScheduler
}

// New wraps a project in an editing session with a fresh undo timeline.
func New(project core.Project) *Editor {
	p := project.Clone()
	if len(p.Pages) == 0 {
		p.Pages = []core.Page{core.NewPage("Scene 1", core.AspectLandscape)}
	}
	return &Editor{
		project:  p,
		history:  history.NewStore(p.Pages),
		active:   p.Pages[0].ID,
		viewport: NewViewport(),
	}
}

// Project returns a deep copy of the current document.
func (e *Editor) Project() core.Project {
	return e.project.Clone()
}

func (e *Editor) ProjectName() string { return e.project.Name }

func (e *Editor) SetProjectName(name string) { e.project.Name = name }

// Load replaces the document and resets history to a single-entry timeline.
func (e *Editor) Load(project core.Project) {
	p := project.Clone()
	if len(p.Pages) == 0 {
		p.Pages = []core.Page{core.NewPage("Scene 1", core.AspectLandscape)}
	}
	e.project = p
	e.history.Reset(p.Pages)
	e.active = p.Pages[0].ID
	e.selected = ""
	e.bumpThumbnails()
}

func (e *Editor) History() *history.Store { return e.history }

// ActivePage returns a copy of the page being edited.
func (e *Editor) ActivePage() core.Page {
	return e.project.Pages[e.activeIndex()].Clone()
}

func (e *Editor) ActivePageID() string { return e.active }

func (e *Editor) activeIndex() int {
	if i := e.project.PageIndex(e.active); i >= 0 {
		return i
	}
	// Active page invariant: fall back to the first page rather than
	// dereference a dangling id.
	e.active = e.project.Pages[0].ID
	return 0
}

func (e *Editor) Tool() Tool        { return e.tool }
func (e *Editor) SetTool(tool Tool) { e.tool = tool }

func (e *Editor) Exporting() bool { return e.exporting }

// BeginExport marks the render surface as exclusively owned by the export
// pipeline. Conflicting operations are disabled until EndExport.
func (e *Editor) BeginExport() error {
	if e.exporting {
		return ErrExportBusy
	}
	e.exporting = true
	return nil
}

func (e *Editor) EndExport() { e.exporting = false }

// commit snapshots the current page sequence. The only path new history
// entries take.
func (e *Editor) commit() {
	e.history.Commit(e.project.Pages)
}

// Undo restores the previous snapshot and clears selection.
func (e *Editor) Undo() bool {
	pages, ok := e.history.Undo()
	if !ok {
		return false
	}
	e.restore(pages)
	return true
}

// Redo restores the next snapshot and clears selection.
func (e *Editor) Redo() bool {
	pages, ok := e.history.Redo()
	if !ok {
		return false
	}
	e.restore(pages)
	return true
}

func (e *Editor) restore(pages []core.Page) {
	e.project.Pages = pages
	e.selected = ""
	if e.project.PageIndex(e.active) < 0 {
		e.active = e.project.Pages[0].ID
	}
	e.bumpThumbnails()
}

func (e *Editor) bumpThumbnails() {
	if e.thumbs != nil {
		e.thumbs.Bump()
	}
}
