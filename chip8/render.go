package chip8

import (
	"bufio"
	"io"
	"strings"
)

// Each pixel is rendered as two characters so the text grid keeps roughly
// the 2:1 aspect ratio of the display.
const (
	PixelOn  = "██"
	PixelOff = "  "
)

// Render writes the display as a text grid, one line per row.
func (c8 *Machine) Render(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for y := 0; y < DisplayHeight; y++ {
		for x := 0; x < DisplayWidth; x++ {
			cell := PixelOff
			if c8.Pixel(x, y) {
				cell = PixelOn
			}
			if _, err := bw.WriteString(cell); err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// DisplayString returns the text grid written by Render.
func (c8 *Machine) DisplayString() string {
	var sb strings.Builder
	_ = c8.Render(&sb)
	return sb.String()
}
