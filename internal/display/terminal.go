package display

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
)

// TerminalPanel previews frames as text. On a TTY each pair of pixel rows is
// collapsed into one line of half-block glyphs and redrawn in place; on any
// other writer every row is printed with '#' and '.'.
type TerminalPanel struct {
	mu     sync.Mutex
	out    io.Writer
	bounds image.Rectangle
	fancy  bool
	frames int
}

// NewTerminalPanel returns a panel of width x height writing to out.
func NewTerminalPanel(out io.Writer, width, height int) *TerminalPanel {
	return &TerminalPanel{
		out:    out,
		bounds: image.Rect(0, 0, width, height),
		fancy:  writerIsTerminal(out),
	}
}

// Bounds implements Panel.
func (p *TerminalPanel) Bounds() image.Rectangle { return p.bounds }

// Frames returns how many frames have been drawn.
func (p *TerminalPanel) Frames() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.frames
}

// Draw implements Panel.
func (p *TerminalPanel) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	r = r.Intersect(p.bounds)
	w := bufio.NewWriter(p.out)
	if p.fancy {
		p.drawBlocks(w, r, src, sp)
	} else {
		p.drawPlain(w, r, src, sp)
	}
	p.frames++
	return w.Flush()
}

// Halt implements Panel.
func (p *TerminalPanel) Halt() error { return nil }

func (p *TerminalPanel) drawPlain(w *bufio.Writer, r image.Rectangle, src image.Image, sp image.Point) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if on(src, sp.X+x-r.Min.X, sp.Y+y-r.Min.Y) {
				_ = w.WriteByte('#')
			} else {
				_ = w.WriteByte('.')
			}
		}
		_ = w.WriteByte('\n')
	}
	_ = w.WriteByte('\n')
}

func (p *TerminalPanel) drawBlocks(w *bufio.Writer, r image.Rectangle, src image.Image, sp image.Point) {
	// Cursor home so successive frames overwrite each other.
	_, _ = w.WriteString("\x1b[H")
	for y := r.Min.Y; y < r.Max.Y; y += 2 {
		for x := r.Min.X; x < r.Max.X; x++ {
			top := on(src, sp.X+x-r.Min.X, sp.Y+y-r.Min.Y)
			bottom := y+1 < r.Max.Y && on(src, sp.X+x-r.Min.X, sp.Y+y+1-r.Min.Y)
			switch {
			case top && bottom:
				_, _ = w.WriteString("█")
			case top:
				_, _ = w.WriteString("▀")
			case bottom:
				_, _ = w.WriteString("▄")
			default:
				_ = w.WriteByte(' ')
			}
		}
		_, _ = fmt.Fprint(w, "\x1b[K\n")
	}
}

func on(src image.Image, x, y int) bool {
	gray := color.GrayModel.Convert(src.At(x, y)).(color.Gray)
	return gray.Y >= 0x80
}

func writerIsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
