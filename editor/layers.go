package editor

import "scenery/core"

// Selection returns the selected layer id, or "" when nothing is selected.
func (e *Editor) Selection() string { return e.selected }

// SelectedLayer resolves the selection against the active page.
func (e *Editor) SelectedLayer() (core.Layer, bool) {
	if e.selected == "" {
		return core.Layer{}, false
	}
	return e.ActivePage().LayerByID(e.selected)
}

// SelectLayer sets the selection. Ids not present on the active page clear it
// instead, so selection never dangles.
func (e *Editor) SelectLayer(id string) {
	if _, ok := e.project.Pages[e.activeIndex()].LayerByID(id); ok {
		e.selected = id
		return
	}
	e.selected = ""
}

func (e *Editor) ClearSelection() { e.selected = "" }

// AddLayer appends the layer to the active page, centers it when it has no
// position yet, selects it and commits.
func (e *Editor) AddLayer(l core.Layer) core.Layer {
	i := e.activeIndex()
	page := e.project.Pages[i]
	if l.Frame.X == 0 && l.Frame.Y == 0 {
		l.Frame.X = float64(page.Width)/2 - l.Frame.Width/2
		l.Frame.Y = float64(page.Height)/2 - l.Frame.Height/2
	}
	e.project.Pages[i] = page.WithLayerAdded(l)
	e.selected = l.ID
	e.commit()
	e.bumpThumbnails()
	return l
}

// AddTextLayer adds a text layer with factory defaults.
func (e *Editor) AddTextLayer(content string) core.Layer {
	return e.AddLayer(core.NewTextLayer(content))
}

// AddShapeLayer adds a shape layer of the given kind.
func (e *Editor) AddShapeLayer(kind core.Kind) core.Layer {
	return e.AddLayer(core.NewShapeLayer(kind))
}

// UpdateLayer merges a partial update into the matching layer on the active
// page. Unknown ids are a silent no-op: UI state can legitimately race with
// async deletions.
func (e *Editor) UpdateLayer(id string, patch core.LayerPatch) {
	i := e.activeIndex()
	page := e.project.Pages[i]
	l, ok := page.LayerByID(id)
	if !ok {
		return
	}
	e.project.Pages[i] = page.WithLayerReplaced(id, l.Apply(patch))
	e.commit()
	e.bumpThumbnails()
}

// updateLayerTransient applies a patch without committing. Used for video
// seek/release sub-state during export, which must not pollute the undo
// timeline.
func (e *Editor) updateLayerTransient(pageIdx int, id string, patch core.LayerPatch) {
	page := e.project.Pages[pageIdx]
	l, ok := page.LayerByID(id)
	if !ok {
		return
	}
	e.project.Pages[pageIdx] = page.WithLayerReplaced(id, l.Apply(patch))
}

// DuplicateLayer copies the layer with a fresh id, name suffix and offset,
// then selects the copy. Unknown ids are a silent no-op.
func (e *Editor) DuplicateLayer(id string) {
	i := e.activeIndex()
	page := e.project.Pages[i]
	l, ok := page.LayerByID(id)
	if !ok {
		return
	}
	dup := l.Duplicate()
	e.project.Pages[i] = page.WithLayerAdded(dup)
	e.selected = dup.ID
	e.commit()
	e.bumpThumbnails()
}

// DeleteLayer removes the layer and clears selection when it pointed at the
// deleted layer. Unknown ids are a silent no-op.
func (e *Editor) DeleteLayer(id string) {
	i := e.activeIndex()
	page := e.project.Pages[i]
	if page.LayerIndex(id) < 0 {
		return
	}
	e.project.Pages[i] = page.WithLayerRemoved(id)
	if e.selected == id {
		e.selected = ""
	}
	e.commit()
	e.bumpThumbnails()
}

// ReorderLayers replaces the active page's stacking order. order must be a
// permutation of the current layer ids; that contract is the caller's.
func (e *Editor) ReorderLayers(order []string) {
	i := e.activeIndex()
	e.project.Pages[i] = e.project.Pages[i].WithLayersReordered(order)
	e.commit()
	e.bumpThumbnails()
}

// SeekVideosForExport forces every video layer on the active page to a
// synchronized start position: paused at second zero. History-exempt.
func (e *Editor) SeekVideosForExport() {
	i := e.activeIndex()
	zero := 0.0
	paused := false
	for _, l := range e.project.Pages[i].Layers {
		if l.Kind != core.KindVideo {
			continue
		}
		e.updateLayerTransient(i, l.ID, core.LayerPatch{
			Media: &core.MediaPatch{Playing: &paused, CurrentTime: &zero},
		})
	}
}

// ReleaseVideosForExport lets every video layer free-run again, dropping any
// stale seek position. Called both when recording starts and on export
// failure, so no layer is left pinned at second zero.
func (e *Editor) ReleaseVideosForExport() {
	i := e.activeIndex()
	playing := true
	for _, l := range e.project.Pages[i].Layers {
		if l.Kind != core.KindVideo {
			continue
		}
		e.updateLayerTransient(i, l.ID, core.LayerPatch{
			Media: &core.MediaPatch{Playing: &playing, ClearCurrentTime: true},
		})
	}
}
