package export

import (
	"bytes"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"os"

	"github.com/icza/mjpeg"
	xdraw "golang.org/x/image/draw"
)

// recorder consumes captured frames and assembles the output container.
type recorder interface {
	add(frame image.Image) error
	close() error
	discard()
	path() string
}

// newRecorder opens the preferred container for the requested format. AVI is
// tried first; when the writer cannot be opened the pipeline falls back to
// animated GIF.
func newRecorder(format Format, dir, project, label string, w, h, fps int) (recorder, Format, error) {
	if format != FormatGIF {
		rec, err := newAVIRecorder(Filename(dir, project, label, FormatAVI), w, h, fps)
		if err == nil {
			return rec, FormatAVI, nil
		}
	}
	rec, err := newGIFRecorder(Filename(dir, project, label, FormatGIF), w, h, fps)
	if err != nil {
		return nil, "", err
	}
	return rec, FormatGIF, nil
}

type aviRecorder struct {
	aw   mjpeg.AviWriter
	name string
	w, h int
}

func newAVIRecorder(path string, w, h, fps int) (*aviRecorder, error) {
	aw, err := mjpeg.New(path, int32(w), int32(h), int32(fps))
	if err != nil {
		return nil, err
	}
	return &aviRecorder{aw: aw, name: path, w: w, h: h}, nil
}

func (r *aviRecorder) add(frame image.Image) error {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, normalize(frame, r.w, r.h), &jpeg.Options{Quality: 90}); err != nil {
		return err
	}
	return r.aw.AddFrame(buf.Bytes())
}

func (r *aviRecorder) close() error { return r.aw.Close() }

func (r *aviRecorder) discard() {
	_ = r.aw.Close()
	_ = os.Remove(r.name)
}

func (r *aviRecorder) path() string { return r.name }

type gifRecorder struct {
	g     *gif.GIF
	name  string
	w, h  int
	delay int // per-frame delay in 1/100s
}

func newGIFRecorder(path string, w, h, fps int) (*gifRecorder, error) {
	delay := 100 / fps
	if delay < 2 {
		delay = 2
	}
	return &gifRecorder{g: &gif.GIF{}, name: path, w: w, h: h, delay: delay}, nil
}

func (r *gifRecorder) add(frame image.Image) error {
	src := normalize(frame, r.w, r.h)
	paletted := image.NewPaletted(image.Rect(0, 0, r.w, r.h), palette.Plan9)
	draw.FloydSteinberg.Draw(paletted, paletted.Bounds(), src, image.Point{})
	r.g.Image = append(r.g.Image, paletted)
	r.g.Delay = append(r.g.Delay, r.delay)
	return nil
}

func (r *gifRecorder) close() error {
	f, err := os.Create(r.name)
	if err != nil {
		return err
	}
	defer f.Close()
	return gif.EncodeAll(f, r.g)
}

func (r *gifRecorder) discard() {
	r.g = &gif.GIF{}
}

func (r *gifRecorder) path() string { return r.name }

// normalize scales a frame to the exact recorder dimensions. Containers do
// not tolerate per-frame size drift.
func normalize(frame image.Image, w, h int) image.Image {
	b := frame.Bounds()
	if b.Dx() == w && b.Dy() == h {
		return frame
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), frame, b, xdraw.Over, nil)
	return dst
}
