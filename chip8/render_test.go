package chip8

import (
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestDisplayString(t *testing.T) {
	c8 := New()
	assert.NoError(t, c8.Write(FramebufferStart, 0xa0))
	assert.NoError(t, c8.Write(FramebufferStart+FramebufferSize-1, 0x01))

	lines := strings.Split(c8.DisplayString(), "\n")
	assert.Equal(t, DisplayHeight+1, len(lines))
	assert.Equal(t, "", lines[DisplayHeight])

	blank := strings.Repeat(PixelOff, DisplayWidth)
	first := PixelOn + PixelOff + PixelOn + strings.Repeat(PixelOff, DisplayWidth-3)
	last := strings.Repeat(PixelOff, DisplayWidth-1) + PixelOn
	assert.Equal(t, first, lines[0])
	assert.Equal(t, blank, lines[1])
	assert.Equal(t, last, lines[DisplayHeight-1])
}
