package render

import (
	"fmt"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

type faceKey struct {
	family string
	weight string
	size   float64
}

// fontCache parses the bundled gofonts once and hands out sized faces.
type fontCache struct {
	mu    sync.Mutex
	fonts map[string]*truetype.Font
	faces map[faceKey]font.Face
}

func newFontCache() *fontCache {
	return &fontCache{
		fonts: make(map[string]*truetype.Font),
		faces: make(map[faceKey]font.Face),
	}
}

func (c *fontCache) face(family, weight string, size float64) (font.Face, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := faceKey{family, weight, size}
	if f, ok := c.faces[key]; ok {
		return f, nil
	}

	ttf, err := c.font(family, weight)
	if err != nil {
		return nil, err
	}
	f := truetype.NewFace(ttf, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	c.faces[key] = f
	return f, nil
}

func (c *fontCache) font(family, weight string) (*truetype.Font, error) {
	name, data := fontData(family, weight)
	if f, ok := c.fonts[name]; ok {
		return f, nil
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", name, err)
	}
	c.fonts[name] = f
	return f, nil
}

func fontData(family, weight string) (string, []byte) {
	switch family {
	case "mono":
		return "mono", gomono.TTF
	case "italic":
		return "italic", goitalic.TTF
	}
	if weight == "bold" {
		return "bold", gobold.TTF
	}
	return "regular", goregular.TTF
}
