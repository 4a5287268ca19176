package core

// AspectRatio is an enumerated canvas preset. Dimensions returns the preset's
// canonical pixel size.
type AspectRatio string

const (
	AspectLandscape AspectRatio = "16:9"
	AspectPortrait  AspectRatio = "9:16"
	AspectSquare    AspectRatio = "1:1"
	AspectSocial    AspectRatio = "4:5"
)

func (a AspectRatio) Dimensions() (width, height int) {
	switch a {
	case AspectPortrait:
		return 1080, 1920
	case AspectSquare:
		return 1080, 1080
	case AspectSocial:
		return 1080, 1350
	default:
		return 1920, 1080
	}
}

const defaultBackground = "#ffffff"

// Page is one canvas composition: an ordered layer stack (index 0 = bottom)
// plus output geometry. Pages are value records; layer mutations return a new
// page.
type Page struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Aspect     AspectRatio `json:"aspect"`
	Width      int         `json:"width"`
	Height     int         `json:"height"`
	Background string      `json:"background"`
	Layers     []Layer     `json:"layers"`
	// Thumbnail is a cached raster snapshot, regenerated lazily. Never
	// authoritative.
	Thumbnail []byte `json:"thumbnail,omitempty"`
}

func NewPage(name string, aspect AspectRatio) Page {
	w, h := aspect.Dimensions()
	return Page{
		ID:         NewID(),
		Name:       name,
		Aspect:     aspect,
		Width:      w,
		Height:     h,
		Background: defaultBackground,
		Layers:     []Layer{},
	}
}

func (p Page) Clone() Page {
	c := p
	c.Layers = make([]Layer, len(p.Layers))
	for i, l := range p.Layers {
		c.Layers[i] = l.Clone()
	}
	if p.Thumbnail != nil {
		c.Thumbnail = append([]byte(nil), p.Thumbnail...)
	}
	return c
}

// Duplicate returns a copy with a new page id, a decorated name, and fresh
// layer ids so the duplicated content never aliases the source by id.
func (p Page) Duplicate() Page {
	c := p.Clone()
	c.ID = NewID()
	c.Name = p.Name + duplicateSuffix
	for i := range c.Layers {
		c.Layers[i].ID = NewID()
	}
	return c
}

func (p Page) LayerIndex(id string) int {
	for i, l := range p.Layers {
		if l.ID == id {
			return i
		}
	}
	return -1
}

func (p Page) LayerByID(id string) (Layer, bool) {
	if i := p.LayerIndex(id); i >= 0 {
		return p.Layers[i], true
	}
	return Layer{}, false
}

// WithLayerAdded appends the layer at the top of the stack.
func (p Page) WithLayerAdded(l Layer) Page {
	c := p.Clone()
	c.Layers = append(c.Layers, l.Clone())
	return c
}

// WithLayerRemoved removes the layer with the given id. Unknown ids leave the
// page unchanged.
func (p Page) WithLayerRemoved(id string) Page {
	c := p.Clone()
	i := c.LayerIndex(id)
	if i < 0 {
		return c
	}
	c.Layers = append(c.Layers[:i], c.Layers[i+1:]...)
	return c
}

// WithLayerReplaced swaps the layer with the matching id for the given one.
// Unknown ids leave the page unchanged.
func (p Page) WithLayerReplaced(id string, l Layer) Page {
	c := p.Clone()
	if i := c.LayerIndex(id); i >= 0 {
		c.Layers[i] = l.Clone()
	}
	return c
}

// WithLayersReordered replaces the stack order. order must name every current
// layer id exactly once; ids outside the page are skipped, which also makes
// reapplying the same order a no-op.
func (p Page) WithLayersReordered(order []string) Page {
	c := p.Clone()
	reordered := make([]Layer, 0, len(c.Layers))
	for _, id := range order {
		if l, ok := c.LayerByID(id); ok {
			reordered = append(reordered, l)
		}
	}
	if len(reordered) == len(c.Layers) {
		c.Layers = reordered
	}
	return c
}

// ClonePages deep-copies a page sequence. History snapshots are stored and
// read out through this.
func ClonePages(pages []Page) []Page {
	out := make([]Page, len(pages))
	for i, p := range pages {
		out[i] = p.Clone()
	}
	return out
}
