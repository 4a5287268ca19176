package core

import (
	"github.com/google/uuid"
)

// Kind discriminates the layer variant. Exactly one payload (Text, Shape or
// Media) is populated per layer, matching the kind.
type Kind string

const (
	KindText     Kind = "text"
	KindRect     Kind = "rect"
	KindEllipse  Kind = "ellipse"
	KindLine     Kind = "line"
	KindPolygon  Kind = "polygon"
	KindTriangle Kind = "triangle"
	KindStar     Kind = "star"
	KindImage    Kind = "image"
	KindVideo    Kind = "video"
)

func (k Kind) IsShape() bool {
	switch k {
	case KindRect, KindEllipse, KindLine, KindPolygon, KindTriangle, KindStar:
		return true
	}
	return false
}

func (k Kind) IsMedia() bool {
	return k == KindImage || k == KindVideo
}

// Frame is a layer's placement on the page. Rotation is in degrees about the
// frame center.
type Frame struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Rotation float64 `json:"rotation"`
}

type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

type TextProps struct {
	Content       string  `json:"content"`
	FontFamily    string  `json:"fontFamily"`
	FontSize      float64 `json:"fontSize"`
	FontWeight    string  `json:"fontWeight"`
	Fill          string  `json:"fill"`
	Align         Align   `json:"align"`
	LetterSpacing float64 `json:"letterSpacing"`
	LineHeight    float64 `json:"lineHeight"`
}

type ShapeProps struct {
	Fill        string  `json:"fill"`
	Stroke      string  `json:"stroke"`
	StrokeWidth float64 `json:"strokeWidth"`
	// CornerRadius applies to rectangles only.
	CornerRadius float64 `json:"cornerRadius,omitempty"`
	// Sides and InnerRatio apply to polygons and stars.
	Sides      int     `json:"sides,omitempty"`
	InnerRatio float64 `json:"innerRatio,omitempty"`
}

type MediaProps struct {
	Src     string  `json:"src"`
	Playing bool    `json:"playing,omitempty"`
	Loop    bool    `json:"loop,omitempty"`
	Volume  float64 `json:"volume"`
	// CurrentTime is a seek position in seconds. nil means free-running
	// playback.
	CurrentTime *float64 `json:"currentTime,omitempty"`
	// Duration in seconds, advisory. Known at construction time for videos.
	Duration float64 `json:"duration,omitempty"`
}

// Layer is one visual element on a page. Layers are value records: edits go
// through Apply, which returns an updated copy.
type Layer struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Kind    Kind    `json:"kind"`
	Frame   Frame   `json:"frame"`
	Opacity float64 `json:"opacity"`
	Visible bool    `json:"visible"`
	Locked  bool    `json:"locked"`

	Text  *TextProps  `json:"text,omitempty"`
	Shape *ShapeProps `json:"shape,omitempty"`
	Media *MediaProps `json:"media,omitempty"`
}

// NewID returns a fresh layer or page identifier. Ids are never reused within
// a session.
func NewID() string {
	return uuid.NewString()
}

const (
	// DuplicateOffset is the pixel delta applied to duplicated layers so
	// they do not sit exactly on top of their source.
	DuplicateOffset = 20

	duplicateSuffix = " copy"
)

func baseLayer(kind Kind, name string, f Frame) Layer {
	return Layer{
		ID:      NewID(),
		Name:    name,
		Kind:    kind,
		Frame:   f,
		Opacity: 1,
		Visible: true,
	}
}

// NewTextLayer returns a text layer with editor defaults: bold, centered,
// 60-unit font.
func NewTextLayer(content string) Layer {
	l := baseLayer(KindText, "Text", Frame{Width: 480, Height: 120})
	l.Text = &TextProps{
		Content:    content,
		FontFamily: "sans",
		FontSize:   60,
		FontWeight: "bold",
		Fill:       "#1a1a1a",
		Align:      AlignCenter,
		LineHeight: 1.2,
	}
	return l
}

// NewShapeLayer returns a shape layer of the given kind with default styling.
// Non-shape kinds fall back to a rectangle.
func NewShapeLayer(kind Kind) Layer {
	if !kind.IsShape() {
		kind = KindRect
	}
	f := Frame{Width: 240, Height: 240}
	if kind == KindLine {
		f.Height = 4
	}
	l := baseLayer(kind, shapeName(kind), f)
	l.Shape = &ShapeProps{
		Fill:        "#4f46e5",
		Stroke:      "#312e81",
		StrokeWidth: 0,
	}
	switch kind {
	case KindPolygon:
		l.Shape.Sides = 6
	case KindStar:
		l.Shape.Sides = 5
		l.Shape.InnerRatio = 0.5
	}
	return l
}

func shapeName(kind Kind) string {
	switch kind {
	case KindRect:
		return "Rectangle"
	case KindEllipse:
		return "Ellipse"
	case KindLine:
		return "Line"
	case KindPolygon:
		return "Polygon"
	case KindTriangle:
		return "Triangle"
	case KindStar:
		return "Star"
	}
	return "Shape"
}

// NewImageLayer returns an image layer for the given source.
func NewImageLayer(src, name string) Layer {
	l := baseLayer(KindImage, name, Frame{Width: 480, Height: 360})
	l.Media = &MediaProps{Src: src, Volume: 1}
	return l
}

// NewVideoLayer returns a video layer. Duration must be known before
// construction; callers go through the editor's two-step media import to
// guarantee that.
func NewVideoLayer(src, name string, duration float64) Layer {
	l := baseLayer(KindVideo, name, Frame{Width: 640, Height: 360})
	l.Media = &MediaProps{
		Src:      src,
		Playing:  true,
		Loop:     true,
		Volume:   1,
		Duration: duration,
	}
	return l
}

// Clone returns a deep copy. The copy shares no pointers with the source, so
// history snapshots stay independent.
func (l Layer) Clone() Layer {
	c := l
	if l.Text != nil {
		t := *l.Text
		c.Text = &t
	}
	if l.Shape != nil {
		s := *l.Shape
		c.Shape = &s
	}
	if l.Media != nil {
		m := *l.Media
		if l.Media.CurrentTime != nil {
			ct := *l.Media.CurrentTime
			m.CurrentTime = &ct
		}
		c.Media = &m
	}
	return c
}

// Duplicate returns a structurally identical copy with a new id, a decorated
// name and a fixed positional offset.
func (l Layer) Duplicate() Layer {
	c := l.Clone()
	c.ID = NewID()
	c.Name = l.Name + duplicateSuffix
	c.Frame.X += DuplicateOffset
	c.Frame.Y += DuplicateOffset
	return c
}
