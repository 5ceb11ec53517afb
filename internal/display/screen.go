package display

import (
	"errors"
	"fmt"
	"image"
	"io"
	"sync"
)

// Panel is the physical (or emulated) display a frame is flushed to.
// *ssd1306.Dev satisfies it directly.
type Panel interface {
	Bounds() image.Rectangle
	Draw(r image.Rectangle, src image.Image, sp image.Point) error
	Halt() error
}

// Screen couples a panel with the frame and typeface drawn onto it.
type Screen struct {
	mu     sync.Mutex
	panel  Panel
	frame  *Frame
	face   Typeface
	closer io.Closer
	closed bool
}

// NewScreen wraps panel. closer, when non-nil, releases the underlying bus on
// Close.
func NewScreen(panel Panel, face Typeface, closer io.Closer) *Screen {
	bounds := panel.Bounds()
	return &Screen{
		panel:  panel,
		frame:  NewFrame(bounds.Dx(), bounds.Dy()),
		face:   face,
		closer: closer,
	}
}

// Frame returns the off-screen bitmap.
func (s *Screen) Frame() *Frame { return s.frame }

// Typeface returns the face used by Text.
func (s *Screen) Typeface() Typeface { return s.face }

// Blank clears the off-screen bitmap without touching the panel.
func (s *Screen) Blank() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frame.Clear()
}

// Text draws text with its top-left corner at (x, y).
func (s *Screen) Text(x, y int, text string) {
	if text == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.face.DrawString(s.frame, x, y, FoldASCII(text))
}

// Show pushes the whole frame to the panel.
func (s *Screen) Show() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushLocked()
}

// Clear blanks the frame and flushes it so the panel goes dark.
func (s *Screen) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frame.Clear()
	return s.flushLocked()
}

// PowerOff halts the panel.
func (s *Screen) PowerOff() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	if err := s.panel.Halt(); err != nil {
		return fmt.Errorf("halt panel: %w", err)
	}
	return nil
}

// Close releases the bus. Panel contents are left as they are.
func (s *Screen) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

func (s *Screen) flushLocked() error {
	if s.closed {
		return errors.New("screen closed")
	}
	img := s.frame.Image()
	if err := s.panel.Draw(s.panel.Bounds(), img, image.Point{}); err != nil {
		return fmt.Errorf("draw frame: %w", err)
	}
	return nil
}
