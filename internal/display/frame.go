package display

import (
	"image"
	"image/color"
	"image/draw"

	"periph.io/x/devices/v3/ssd1306/image1bit"
	"tinygo.org/x/drivers"
)

var (
	_ drivers.Displayer = (*Frame)(nil)
	_ draw.Image        = (*Frame)(nil)
)

// Frame is the 1-bit off-screen bitmap drawn each tick.
type Frame struct {
	img *image1bit.VerticalLSB
}

// NewFrame allocates a blank frame of the given size.
func NewFrame(width, height int) *Frame {
	return &Frame{img: image1bit.NewVerticalLSB(image.Rect(0, 0, width, height))}
}

// Image exposes the backing bitmap in the layout the SSD1306 expects.
func (f *Frame) Image() *image1bit.VerticalLSB { return f.img }

// Clear switches every pixel off.
func (f *Frame) Clear() {
	for i := range f.img.Pix {
		f.img.Pix[i] = 0
	}
}

// Lit reports whether the pixel at (x, y) is on.
func (f *Frame) Lit(x, y int) bool {
	if !(image.Point{X: x, Y: y}).In(f.img.Rect) {
		return false
	}
	return bool(f.img.BitAt(x, y))
}

// LitCount returns the number of pixels switched on.
func (f *Frame) LitCount() int {
	count := 0
	b := f.img.Rect
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if f.img.BitAt(x, y) {
				count++
			}
		}
	}
	return count
}

// Bounds implements image.Image.
func (f *Frame) Bounds() image.Rectangle { return f.img.Rect }

// ColorModel implements image.Image.
func (f *Frame) ColorModel() color.Model { return image1bit.BitModel }

// At implements image.Image.
func (f *Frame) At(x, y int) color.Color { return f.img.At(x, y) }

// Set implements draw.Image. Out-of-range points are ignored.
func (f *Frame) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}).In(f.img.Rect) {
		return
	}
	f.img.Set(x, y, c)
}

// Size implements drivers.Displayer.
func (f *Frame) Size() (int16, int16) {
	return int16(f.img.Rect.Dx()), int16(f.img.Rect.Dy())
}

// SetPixel implements drivers.Displayer.
func (f *Frame) SetPixel(x, y int16, c color.RGBA) {
	f.Set(int(x), int(y), c)
}

// Display implements drivers.Displayer. Frames are flushed by Screen.Show.
func (f *Frame) Display() error { return nil }
