package layout

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/stretchr/testify/assert"
)

func TestIsTooSmall(t *testing.T) {
	tests := []struct {
		w, h int
		want bool
	}{
		{MinWidth, MinHeight, false},
		{MinWidth - 1, MinHeight, true},
		{MinWidth, MinHeight - 1, true},
		{120, 40, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsTooSmall(tt.w, tt.h), "%dx%d", tt.w, tt.h)
	}
}

func TestRenderHeader(t *testing.T) {
	out := RenderHeader("notes.txt", "Ask Anything", 80)
	assert.Contains(t, out, "docchat")
	assert.Contains(t, out, "notes.txt")
	assert.Contains(t, out, "Ask Anything")
	assert.Equal(t, 2, lipgloss.Height(out))
}

func TestRenderFooter_DropsHintsThatDoNotFit(t *testing.T) {
	hints := []KeyHint{
		{Key: "Enter", Description: "Send"},
		{Key: "Ctrl+N", Description: "New chat"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
	wide := RenderFooter(hints, 100)
	assert.Contains(t, wide, "Quit")

	narrow := RenderFooter(hints, 22)
	assert.Contains(t, narrow, "Send")
	assert.NotContains(t, narrow, "Quit")
}

func TestRenderFrame_FillsHeight(t *testing.T) {
	header := RenderHeader("t", "", 60)
	footer := RenderFooter(nil, 60)
	frame := RenderFrame(header, "hello", footer, 60, 20)
	assert.Equal(t, 20, lipgloss.Height(frame))
	assert.True(t, strings.Contains(frame, "hello"))
}

func TestWrap(t *testing.T) {
	assert.Equal(t, "abc", Wrap("abc", 0))
	wrapped := Wrap("one two three four five six", 10)
	for _, line := range strings.Split(wrapped, "\n") {
		assert.LessOrEqual(t, lipgloss.Width(line), 10)
	}
}
