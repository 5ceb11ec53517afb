// Package display owns the off-screen bitmap and the panel it is pushed to.
//
// A Frame is a 1-bit periph image1bit.VerticalLSB that also satisfies the
// tinygo drivers.Displayer and draw.Image interfaces, so both tinyfont bitmap
// fonts and x/image outline faces can write into it. A Screen pairs a Frame
// with a Panel (the SSD1306 over I2C, or a terminal preview) and a Typeface.
//
// Coordinates passed to Screen.Text are the top edge of the text, matching the
// way the status layout is described. Pixels that land outside the frame,
// such as rows above y=0 when a line is drawn at y=-2, are dropped.
package display
