package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/docchat/internal/ui/theme"
)

// Minimum usable terminal size. Below CompactWidthThreshold the chat view
// drops decorations such as the quiz progress bar.
const (
	MinWidth  = 60
	MinHeight = 16

	CompactWidthThreshold = 90
)

// KeyHint is one key binding shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

func IsCompactWidth(width int) bool {
	return width < CompactWidthThreshold
}

func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage asks the user to enlarge the terminal.
func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(theme.Body.Render(fmt.Sprintf(
			"Terminal too small (%d x %d).\nResize to at least %d x %d.",
			width, height, MinWidth, MinHeight,
		)))
}

// RenderHeader renders a one-line title bar over a rule: the app name and
// screen title on the left, status on the right.
func RenderHeader(title, status string, width int) string {
	left := theme.Title.Render(" docchat")
	if title != "" {
		left += theme.Subtitle.Render(" · " + title)
	}
	right := lipgloss.NewStyle().Foreground(theme.Accent).Render(status + " ")

	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	bar := lipgloss.NewStyle().
		Background(theme.BgCard).
		Width(width).
		Render(left + strings.Repeat(" ", gap) + right)

	return bar + "\n" + rule(width)
}

// RenderFooter renders a rule over the key hints. Hints that do not fit are
// dropped from the end.
func RenderFooter(hints []KeyHint, width int) string {
	line := " "
	for i, h := range hints {
		part := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(h.Key) +
			" " + theme.Subtitle.Render(h.Description)
		if i > 0 {
			part = "  " + part
		}
		if lipgloss.Width(line+part) > width {
			break
		}
		line += part
	}
	return rule(width) + "\n" + line
}

// RenderFrame stacks header, content and footer, padding the content to
// fill whatever height remains.
func RenderFrame(header, content, footer string, width, height int) string {
	contentHeight := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().
		Width(width).
		Height(contentHeight).
		MaxHeight(contentHeight).
		Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

// Wrap soft-wraps text to width columns.
func Wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	return lipgloss.NewStyle().Width(width).Render(text)
}

func rule(width int) string {
	return lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width, 0)))
}
