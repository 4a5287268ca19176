package editor

const (
	MinZoom = 0.1
	MaxZoom = 4.0

	// FitPadding is the margin kept around the page when fitting it to the
	// available area.
	FitPadding = 80.0
)

// Viewport is ephemeral view state: zoom and pan. Never part of undo history.
type Viewport struct {
	Zoom float64
	PanX float64
	PanY float64
}

func NewViewport() Viewport {
	return Viewport{Zoom: 1}
}

func (e *Editor) Viewport() Viewport { return e.viewport }

// SetZoom clamps the target into [MinZoom, MaxZoom]. History-exempt.
func (e *Editor) SetZoom(zoom float64) {
	e.viewport.Zoom = clampZoom(zoom)
}

// ZoomBy applies a multiplicative delta, keeping the result in bounds.
func (e *Editor) ZoomBy(factor float64) {
	e.SetZoom(e.viewport.Zoom * factor)
}

// SetPan replaces the pan offset. History-exempt.
func (e *Editor) SetPan(x, y float64) {
	e.viewport.PanX = x
	e.viewport.PanY = y
}

// PanBy translates the pan offset by a cursor delta.
func (e *Editor) PanBy(dx, dy float64) {
	e.viewport.PanX += dx
	e.viewport.PanY += dy
}

// FitToScreen computes the zoom that fits the active page into the available
// area minus padding, capped at 100%, and centers the pan.
func (e *Editor) FitToScreen(availWidth, availHeight float64) {
	page := e.project.Pages[e.activeIndex()]
	w := availWidth - 2*FitPadding
	h := availHeight - 2*FitPadding
	if w <= 0 || h <= 0 || page.Width == 0 || page.Height == 0 {
		return
	}
	zoom := w / float64(page.Width)
	if vz := h / float64(page.Height); vz < zoom {
		zoom = vz
	}
	if zoom > 1 {
		zoom = 1
	}
	e.viewport.Zoom = clampZoom(zoom)
	e.viewport.PanX = (availWidth - float64(page.Width)*e.viewport.Zoom) / 2
	e.viewport.PanY = (availHeight - float64(page.Height)*e.viewport.Zoom) / 2
}

func clampZoom(z float64) float64 {
	if z < MinZoom {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	return z
}
