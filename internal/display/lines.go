package display

// LineCount is the number of text lines a 32 pixel panel holds.
const LineCount = 4

// StandaloneOffsets are the y coordinates used by the one-shot print mode.
var StandaloneOffsets = [LineCount]int{-2, 6, 14, 22}

// PadLines returns exactly LineCount lines, padding with empty strings and
// dropping anything past the fourth.
func PadLines(lines []string) [LineCount]string {
	var out [LineCount]string
	copy(out[:], lines)
	return out
}

// DrawLines draws lines at x, each at y plus its matching offset. Empty lines
// are skipped.
func (s *Screen) DrawLines(x, y int, offsets [LineCount]int, lines [LineCount]string) {
	for i, line := range lines {
		s.Text(x, y+offsets[i], line)
	}
}

// ShowStandalone clears the panel, then draws lines at the fixed standalone
// offsets and flushes once. The panel is not cleared afterwards.
func ShowStandalone(s *Screen, lines []string) error {
	if err := s.Clear(); err != nil {
		return err
	}
	s.DrawLines(0, 0, StandaloneOffsets, PadLines(lines))
	return s.Show()
}
