package display

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"tinygo.org/x/tinyfont"
)

var ink = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}

// Typeface draws a single line of text into a frame.
type Typeface interface {
	// Name identifies the face in logs.
	Name() string
	// DrawString renders s with the top of its ascender at y.
	DrawString(dst *Frame, x, y int, s string)
}

type bitmapFace struct {
	name   string
	font   tinyfont.Fonter
	ascent int16
}

// Built-in tinyfont faces. The ascent converts the top-edge coordinate used by
// callers into the baseline tinyfont expects.
var builtinFaces = map[string]bitmapFace{
	"org01":     {name: "org01", font: &tinyfont.Org01, ascent: 5},
	"tomthumb":  {name: "tomthumb", font: &tinyfont.TomThumb, ascent: 5},
	"picopixel": {name: "picopixel", font: &tinyfont.Picopixel, ascent: 5},
}

func (b bitmapFace) Name() string { return b.name }

func (b bitmapFace) DrawString(dst *Frame, x, y int, s string) {
	tinyfont.WriteLine(dst, b.font, int16(x), int16(y)+b.ascent, s, ink)
}

type outlineFace struct {
	name   string
	face   font.Face
	ascent int
}

func (o *outlineFace) Name() string { return o.name }

func (o *outlineFace) DrawString(dst *Frame, x, y int, s string) {
	drawer := font.Drawer{
		Dst:  dst,
		Src:  image.White,
		Face: o.face,
		Dot:  fixed.P(x, y+o.ascent),
	}
	drawer.DrawString(s)
}

// LoadTypeface returns the built-in face called name, or, when path is set,
// an outline face parsed from that TrueType/OpenType file at size pixels.
func LoadTypeface(name, path string, size float64) (Typeface, error) {
	if strings.TrimSpace(path) != "" {
		return loadOutlineFace(path, size)
	}
	face, ok := builtinFaces[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown built-in font %q", name)
	}
	return face, nil
}

func loadOutlineFace(path string, size float64) (Typeface, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", path, err)
	}
	if size <= 0 {
		size = 8
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create face %s: %w", path, err)
	}
	return &outlineFace{name: path, face: face, ascent: face.Metrics().Ascent.Ceil()}, nil
}
