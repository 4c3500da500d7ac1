package atomcast

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"

	"golang.org/x/image/draw"
)

// Pixmap represents a rectangular pixel buffer in non-premultiplied RGBA
// format, 4 bytes per pixel. It is the working canvas of the rasterizer and
// the carrier for the final encoded frame.
type Pixmap struct {
	width  int
	height int
	data   []uint8
}

// NewPixmap creates a new pixmap with the given dimensions.
func NewPixmap(width, height int) *Pixmap {
	return &Pixmap{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}
}

// Width returns the width of the pixmap.
func (p *Pixmap) Width() int {
	return p.width
}

// Height returns the height of the pixmap.
func (p *Pixmap) Height() int {
	return p.height
}

// Data returns the raw pixel data (RGBA order).
func (p *Pixmap) Data() []uint8 {
	return p.data
}

// Clear fills the entire pixmap with a color.
func (p *Pixmap) Clear(c RGBA) {
	r, g, b, a := c.bytes()
	for i := 0; i < len(p.data); i += 4 {
		p.data[i+0] = r
		p.data[i+1] = g
		p.data[i+2] = b
		p.data[i+3] = a
	}
}

// SetPixel sets the color of a single pixel. Writes outside the canvas
// are ignored.
func (p *Pixmap) SetPixel(x, y int, c RGBA) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return
	}
	r, g, b, a := c.bytes()
	i := (y*p.width + x) * 4
	p.data[i+0] = r
	p.data[i+1] = g
	p.data[i+2] = b
	p.data[i+3] = a
}

// setRGB8 writes an opaque pixel from pre-quantized channels.
// The caller guarantees x and y are in bounds; this is the hot path of the
// sequential merge phase and skips the bounds check.
func (p *Pixmap) setRGB8(x, y int, r, g, b uint8) {
	i := (y*p.width + x) * 4
	p.data[i+0] = r
	p.data[i+1] = g
	p.data[i+2] = b
	p.data[i+3] = 255
}

// GetPixel returns the color of a single pixel, or Transparent when the
// coordinates fall outside the canvas.
func (p *Pixmap) GetPixel(x, y int) RGBA {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return Transparent
	}
	i := (y*p.width + x) * 4
	return RGBA{
		R: float32(p.data[i+0]) / 255,
		G: float32(p.data[i+1]) / 255,
		B: float32(p.data[i+2]) / 255,
		A: float32(p.data[i+3]) / 255,
	}
}

// ToImage converts the pixmap to an image.NRGBA sharing no storage with
// the pixmap.
func (p *Pixmap) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, p.width, p.height))
	copy(img.Pix, p.data)
	return img
}

// Downsample resamples the pixmap to the given dimensions with a
// Catmull-Rom filter. This is the SSAA resolve step: the renderer draws at
// a multiple of the output size and funnels the result through here.
func (p *Pixmap) Downsample(width, height int) *Pixmap {
	src := p.ToImage()
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	out := NewPixmap(width, height)
	copy(out.data, dst.Pix)
	return out
}

// EncodePNG encodes the pixmap as PNG and returns the raw bytes.
func (p *Pixmap) EncodePNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, p.ToImage()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodingFailure, err)
	}
	return buf.Bytes(), nil
}

// WritePNG encodes the pixmap as PNG and writes it to path.
func (p *Pixmap) WritePNG(path string) error {
	data, err := p.EncodePNG()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrResourceWrite, err)
	}
	return nil
}
