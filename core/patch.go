package core

// LayerPatch is a partial layer update. nil fields are left untouched.
type LayerPatch struct {
	Name     *string  `json:"name,omitempty"`
	X        *float64 `json:"x,omitempty"`
	Y        *float64 `json:"y,omitempty"`
	Width    *float64 `json:"width,omitempty"`
	Height   *float64 `json:"height,omitempty"`
	Rotation *float64 `json:"rotation,omitempty"`
	Opacity  *float64 `json:"opacity,omitempty"`
	Visible  *bool    `json:"visible,omitempty"`
	Locked   *bool    `json:"locked,omitempty"`

	Text  *TextPatch  `json:"text,omitempty"`
	Shape *ShapePatch `json:"shape,omitempty"`
	Media *MediaPatch `json:"media,omitempty"`
}

type TextPatch struct {
	Content       *string  `json:"content,omitempty"`
	FontFamily    *string  `json:"fontFamily,omitempty"`
	FontSize      *float64 `json:"fontSize,omitempty"`
	FontWeight    *string  `json:"fontWeight,omitempty"`
	Fill          *string  `json:"fill,omitempty"`
	Align         *Align   `json:"align,omitempty"`
	LetterSpacing *float64 `json:"letterSpacing,omitempty"`
	LineHeight    *float64 `json:"lineHeight,omitempty"`
}

type ShapePatch struct {
	Fill         *string  `json:"fill,omitempty"`
	Stroke       *string  `json:"stroke,omitempty"`
	StrokeWidth  *float64 `json:"strokeWidth,omitempty"`
	CornerRadius *float64 `json:"cornerRadius,omitempty"`
	Sides        *int     `json:"sides,omitempty"`
	InnerRatio   *float64 `json:"innerRatio,omitempty"`
}

type MediaPatch struct {
	Src         *string  `json:"src,omitempty"`
	Playing     *bool    `json:"playing,omitempty"`
	Loop        *bool    `json:"loop,omitempty"`
	Volume      *float64 `json:"volume,omitempty"`
	CurrentTime *float64 `json:"currentTime,omitempty"`
	// ClearCurrentTime drops the seek position so playback free-runs.
	ClearCurrentTime bool `json:"clearCurrentTime,omitempty"`
}

// Apply merges the patch into a copy of the layer and returns it. Variant
// patches that do not match the layer's variant are ignored.
func (l Layer) Apply(p LayerPatch) Layer {
	c := l.Clone()
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.X != nil {
		c.Frame.X = *p.X
	}
	if p.Y != nil {
		c.Frame.Y = *p.Y
	}
	if p.Width != nil {
		c.Frame.Width = *p.Width
	}
	if p.Height != nil {
		c.Frame.Height = *p.Height
	}
	if p.Rotation != nil {
		c.Frame.Rotation = *p.Rotation
	}
	if p.Opacity != nil {
		c.Opacity = clamp01(*p.Opacity)
	}
	if p.Visible != nil {
		c.Visible = *p.Visible
	}
	if p.Locked != nil {
		c.Locked = *p.Locked
	}
	if p.Text != nil && c.Text != nil {
		applyTextPatch(c.Text, p.Text)
	}
	if p.Shape != nil && c.Shape != nil {
		applyShapePatch(c.Shape, p.Shape)
	}
	if p.Media != nil && c.Media != nil {
		applyMediaPatch(c.Media, p.Media)
	}
	return c
}

func applyTextPatch(t *TextProps, p *TextPatch) {
	if p.Content != nil {
		t.Content = *p.Content
	}
	if p.FontFamily != nil {
		t.FontFamily = *p.FontFamily
	}
	if p.FontSize != nil {
		t.FontSize = *p.FontSize
	}
	if p.FontWeight != nil {
		t.FontWeight = *p.FontWeight
	}
	if p.Fill != nil {
		t.Fill = *p.Fill
	}
	if p.Align != nil {
		t.Align = *p.Align
	}
	if p.LetterSpacing != nil {
		t.LetterSpacing = *p.LetterSpacing
	}
	if p.LineHeight != nil {
		t.LineHeight = *p.LineHeight
	}
}

func applyShapePatch(s *ShapeProps, p *ShapePatch) {
	if p.Fill != nil {
		s.Fill = *p.Fill
	}
	if p.Stroke != nil {
		s.Stroke = *p.Stroke
	}
	if p.StrokeWidth != nil {
		s.StrokeWidth = *p.StrokeWidth
	}
	if p.CornerRadius != nil {
		s.CornerRadius = *p.CornerRadius
	}
	if p.Sides != nil {
		s.Sides = *p.Sides
	}
	if p.InnerRatio != nil {
		s.InnerRatio = *p.InnerRatio
	}
}

func applyMediaPatch(m *MediaProps, p *MediaPatch) {
	if p.Src != nil {
		m.Src = *p.Src
	}
	if p.Playing != nil {
		m.Playing = *p.Playing
	}
	if p.Loop != nil {
		m.Loop = *p.Loop
	}
	if p.Volume != nil {
		m.Volume = clamp01(*p.Volume)
	}
	if p.ClearCurrentTime {
		m.CurrentTime = nil
	} else if p.CurrentTime != nil {
		ct := *p.CurrentTime
		m.CurrentTime = &ct
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
