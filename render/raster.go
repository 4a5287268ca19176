// Package render draws pages into raster images. It is the repository's
// stand-in for the scene-graph renderer the editor collaborates with: it
// produces on-demand snapshots, per-frame captures for video export, and
// per-layer rasters. Video layers are drawn as poster placeholders; frame
// decoding is outside this renderer's scope.
package render

import (
	"errors"
	"image"
	"math"

	"github.com/fogleman/gg"
	"github.com/sirupsen/logrus"
	xdraw "golang.org/x/image/draw"

	"scenery/core"
)

var (
	ErrNoSurface     = errors.New("render: surface not initialized")
	ErrLayerNotFound = errors.New("render: layer not found")
)

// Raster renders pages with fogleman/gg. It also models the single mutable
// render surface the export pipeline resizes and restores around a capture.
type Raster struct {
	width  int
	height int
	scale  float64

	fonts  *fontCache
	images map[string]image.Image
	log    *logrus.Entry
}

func NewRaster() *Raster {
	return &Raster{
		scale:  1,
		fonts:  newFontCache(),
		images: make(map[string]image.Image),
		log:    logrus.WithField("component", "render"),
	}
}

// Size returns the surface's logical dimensions.
func (r *Raster) Size() (int, int) { return r.width, r.height }

// Scale returns the surface's coordinate scale (pixel ratio).
func (r *Raster) Scale() float64 { return r.scale }

// Resize sets the surface's logical size and scale. During export the
// pipeline owns this exclusively.
func (r *Raster) Resize(width, height int, scale float64) {
	r.width = width
	r.height = height
	r.scale = scale
}

// Snapshot renders the page once at the given pixel ratio, independent of the
// surface state. Used for still export and thumbnails.
func (r *Raster) Snapshot(page core.Page, pixelRatio float64) (image.Image, error) {
	if pixelRatio <= 0 {
		pixelRatio = 1
	}
	pw := int(math.Round(float64(page.Width) * pixelRatio))
	ph := int(math.Round(float64(page.Height) * pixelRatio))
	return r.draw(page, pw, ph)
}

// Capture renders the page at the current surface size and scale: one frame
// of the pixel stream.
func (r *Raster) Capture(page core.Page) (image.Image, error) {
	if r.width == 0 || r.height == 0 {
		return nil, ErrNoSurface
	}
	pw := int(math.Round(float64(r.width) * r.scale))
	ph := int(math.Round(float64(r.height) * r.scale))
	return r.draw(page, pw, ph)
}

// LayerRaster renders a single layer at its own frame size. Used to grab a
// reference keyframe before generative requests.
func (r *Raster) LayerRaster(page core.Page, layerID string) (image.Image, error) {
	l, ok := page.LayerByID(layerID)
	if !ok {
		return nil, ErrLayerNotFound
	}
	w := int(math.Round(l.Frame.Width))
	h := int(math.Round(l.Frame.Height))
	if w < 1 || h < 1 {
		return nil, ErrLayerNotFound
	}
	dc := gg.NewContext(w, h)
	detached := l.Clone()
	detached.Frame.X = 0
	detached.Frame.Y = 0
	detached.Frame.Rotation = 0
	r.drawLayer(dc, detached, 1)
	return dc.Image(), nil
}

func (r *Raster) draw(page core.Page, pw, ph int) (image.Image, error) {
	if pw < 1 || ph < 1 {
		return nil, ErrNoSurface
	}
	dc := gg.NewContext(pw, ph)
	dc.SetColor(parseColor(page.Background, 1))
	dc.Clear()

	// gg's matrix does not scale glyphs or line widths, so scaling is done
	// on coordinates and font sizes directly.
	s := float64(pw) / float64(page.Width)
	for _, l := range page.Layers {
		if !l.Visible || l.Opacity == 0 {
			continue
		}
		r.drawLayer(dc, l, s)
	}
	return dc.Image(), nil
}

func (r *Raster) drawLayer(dc *gg.Context, l core.Layer, s float64) {
	f := l.Frame
	x, y := f.X*s, f.Y*s
	w, h := f.Width*s, f.Height*s
	cx, cy := x+w/2, y+h/2

	dc.Push()
	if f.Rotation != 0 {
		dc.RotateAbout(gg.Radians(f.Rotation), cx, cy)
	}
	switch {
	case l.Text != nil:
		r.drawText(dc, l, x, y, w, h, s)
	case l.Shape != nil:
		r.drawShape(dc, l, x, y, w, h, s)
	case l.Media != nil:
		r.drawMedia(dc, l, x, y, w, h)
	}
	dc.Pop()
}

func (r *Raster) drawText(dc *gg.Context, l core.Layer, x, y, w, h, s float64) {
	t := l.Text
	face, err := r.fonts.face(t.FontFamily, t.FontWeight, t.FontSize*s)
	if err != nil {
		r.log.WithError(err).Warn("font unavailable, skipping text layer")
		return
	}
	dc.SetFontFace(face)
	dc.SetColor(parseColor(t.Fill, l.Opacity))

	align := gg.AlignCenter
	ax := 0.5
	switch t.Align {
	case core.AlignLeft:
		align, ax = gg.AlignLeft, 0
	case core.AlignRight:
		align, ax = gg.AlignRight, 1
	}
	lineHeight := t.LineHeight
	if lineHeight <= 0 {
		lineHeight = 1.2
	}
	dc.DrawStringWrapped(t.Content, x+w*ax, y+h/2, ax, 0.5, w, lineHeight, align)
}

func (r *Raster) drawShape(dc *gg.Context, l core.Layer, x, y, w, h, s float64) {
	sp := l.Shape
	switch l.Kind {
	case core.KindEllipse:
		dc.DrawEllipse(x+w/2, y+h/2, w/2, h/2)
	case core.KindLine:
		dc.MoveTo(x, y+h/2)
		dc.LineTo(x+w, y+h/2)
		dc.SetColor(parseColor(sp.Fill, l.Opacity))
		width := sp.StrokeWidth * s
		if width <= 0 {
			width = h
		}
		dc.SetLineWidth(width)
		dc.Stroke()
		return
	case core.KindTriangle:
		dc.MoveTo(x+w/2, y)
		dc.LineTo(x+w, y+h)
		dc.LineTo(x, y+h)
		dc.ClosePath()
	case core.KindPolygon:
		sides := sp.Sides
		if sides < 3 {
			sides = 6
		}
		dc.DrawRegularPolygon(sides, x+w/2, y+h/2, math.Min(w, h)/2, -math.Pi/2)
	case core.KindStar:
		drawStarPath(dc, x+w/2, y+h/2, math.Min(w, h)/2, sp.Sides, sp.InnerRatio)
	default: // rectangle
		if sp.CornerRadius > 0 {
			dc.DrawRoundedRectangle(x, y, w, h, sp.CornerRadius*s)
		} else {
			dc.DrawRectangle(x, y, w, h)
		}
	}

	dc.SetColor(parseColor(sp.Fill, l.Opacity))
	if sp.StrokeWidth > 0 {
		dc.FillPreserve()
		dc.SetColor(parseColor(sp.Stroke, l.Opacity))
		dc.SetLineWidth(sp.StrokeWidth * s)
		dc.Stroke()
	} else {
		dc.Fill()
	}
}

func drawStarPath(dc *gg.Context, cx, cy, outer float64, points int, innerRatio float64) {
	if points < 3 {
		points = 5
	}
	if innerRatio <= 0 || innerRatio >= 1 {
		innerRatio = 0.5
	}
	inner := outer * innerRatio
	for i := 0; i < points*2; i++ {
		radius := outer
		if i%2 == 1 {
			radius = inner
		}
		angle := -math.Pi/2 + float64(i)*math.Pi/float64(points)
		px := cx + radius*math.Cos(angle)
		py := cy + radius*math.Sin(angle)
		if i == 0 {
			dc.MoveTo(px, py)
		} else {
			dc.LineTo(px, py)
		}
	}
	dc.ClosePath()
}

func (r *Raster) drawMedia(dc *gg.Context, l core.Layer, x, y, w, h float64) {
	iw, ih := int(math.Round(w)), int(math.Round(h))
	if iw < 1 || ih < 1 {
		return
	}

	if l.Kind == core.KindImage {
		if src := r.loadImage(l.Media.Src); src != nil {
			scaled := image.NewRGBA(image.Rect(0, 0, iw, ih))
			xdraw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), src, src.Bounds(), xdraw.Over, nil)
			dc.DrawImage(scaled, int(math.Round(x)), int(math.Round(y)))
			return
		}
	}

	// Video layers (and unloadable images) render as a poster placeholder.
	dc.SetColor(parseColor("#1f2937", l.Opacity))
	dc.DrawRectangle(x, y, w, h)
	dc.Fill()
	if face, err := r.fonts.face("sans", "bold", math.Max(12, h/10)); err == nil {
		dc.SetFontFace(face)
		dc.SetColor(parseColor("#f9fafb", l.Opacity))
		dc.DrawStringAnchored(l.Name, x+w/2, y+h/2, 0.5, 0.5)
	}
}

func (r *Raster) loadImage(src string) image.Image {
	if im, ok := r.images[src]; ok {
		return im
	}
	im, err := gg.LoadImage(src)
	if err != nil {
		r.log.WithError(err).WithField("src", src).Debug("image load failed")
		r.images[src] = nil
		return nil
	}
	r.images[src] = im
	return im
}
