package components

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
)

func key(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func TestMenu_Navigation(t *testing.T) {
	m := NewMenu([]MenuItem{{Label: "a"}, {Label: "b"}, {Label: "c"}})

	m, _ = m.Update(key(tea.KeyUp))
	assert.Equal(t, 2, m.Selected, "up wraps to the last item")

	m, _ = m.Update(key(tea.KeyDown))
	assert.Equal(t, 0, m.Selected, "down wraps to the first item")

	m, _ = m.Update(key(tea.KeyDown))
	assert.Equal(t, 1, m.Selected)
}

func TestMenu_Activate(t *testing.T) {
	var picked string
	pick := func(label string) func() tea.Cmd {
		return func() tea.Cmd {
			picked = label
			return nil
		}
	}
	m := NewMenu([]MenuItem{
		{Label: "Ask", Action: pick("ask")},
		{Label: "Quiz", Action: pick("quiz")},
	})

	m, _ = m.Update(key(tea.KeyEnter))
	assert.Equal(t, "ask", picked)

	m, _ = m.Update(tea.KeyPressMsg{Code: '2', Text: "2"})
	assert.Equal(t, "quiz", picked)
	assert.Equal(t, 1, m.Selected)

	picked = ""
	m, _ = m.Update(tea.KeyPressMsg{Code: '7', Text: "7"})
	assert.Empty(t, picked, "out-of-range digit is ignored")
	assert.Equal(t, 1, m.Selected)
}

func TestMenu_View(t *testing.T) {
	m := NewMenu([]MenuItem{
		{Label: "Ask Anything", Description: "free-form"},
		{Label: "Challenge Me"},
	})
	out := m.View()
	assert.Contains(t, out, "▸ 1. Ask Anything")
	assert.Contains(t, out, "free-form")
	assert.Contains(t, out, "2. Challenge Me")
}

func TestMenu_Empty(t *testing.T) {
	m := NewMenu(nil)
	m, cmd := m.Update(key(tea.KeyEnter))
	assert.Nil(t, cmd)
	assert.Empty(t, m.View())
}
