package chats

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/docchat/internal/router"
	"github.com/abhisek/docchat/internal/screen"
	"github.com/abhisek/docchat/internal/screens/chat"
	sess "github.com/abhisek/docchat/internal/session"
	"github.com/abhisek/docchat/internal/ui/layout"
	"github.com/abhisek/docchat/internal/ui/theme"
)

// ChatsScreen lists every chat and switches between them.
type ChatsScreen struct {
	svc      *sess.Service
	chats    []sess.Snapshot
	activeID string
	selected int
	errMsg   string
}

var _ screen.Screen = (*ChatsScreen)(nil)
var _ screen.KeyHintProvider = (*ChatsScreen)(nil)

// New creates a ChatsScreen with the active chat preselected.
func New(svc *sess.Service) *ChatsScreen {
	s := &ChatsScreen{svc: svc}
	s.reload()
	return s
}

func (s *ChatsScreen) reload() {
	s.chats = s.svc.Chats()
	s.activeID = s.svc.ActiveID()
	for i, c := range s.chats {
		if c.ID == s.activeID {
			s.selected = i
		}
	}
}

func (s *ChatsScreen) Init() tea.Cmd { return nil }

func (s *ChatsScreen) Title() string { return "Chats" }

func (s *ChatsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Open"},
		{Key: "N", Description: "New chat"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ChatsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < len(s.chats)-1 {
			s.selected++
		}
	case "n":
		c := s.svc.NewChat()
		return s, open(s.svc, c.ID)
	case "enter":
		if s.selected >= len(s.chats) {
			return s, nil
		}
		c, err := s.svc.Switch(s.chats[s.selected].ID)
		if err != nil {
			s.errMsg = err.Error()
			return s, nil
		}
		return s, open(s.svc, c.ID)
	}
	return s, nil
}

func open(svc *sess.Service, id string) tea.Cmd {
	return func() tea.Msg {
		return router.ResetScreenMsg{Screen: chat.New(svc, id, "")}
	}
}

func (s *ChatsScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")

	if len(s.chats) == 0 {
		b.WriteString(theme.Hint.Render("  No chats yet. Press N to start one."))
		return b.String()
	}

	for i, c := range s.chats {
		prefix := "  "
		if i == s.selected {
			prefix = "▸ "
		}
		marker := " "
		if c.ID == s.activeID {
			marker = "●"
		}

		line := fmt.Sprintf("%s%s %s  %s", prefix, marker, c.Name, describe(c))
		style := theme.Unselected
		if i == s.selected {
			style = theme.Selected
		}
		b.WriteString(lipgloss.NewStyle().PaddingLeft(2).Render(style.Render(line)))
		b.WriteString("\n")
	}

	if s.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(theme.ErrorText.Render("  " + s.errMsg))
	}
	return b.String()
}

// describe summarises where a chat is in its lifecycle.
func describe(c sess.Snapshot) string {
	var status string
	switch {
	case c.State == sess.StateNoDocument:
		status = "no document"
	case c.Mode == sess.ModeAsk:
		status = fmt.Sprintf("asking, %d messages", len(c.Messages))
	case c.Mode == sess.ModeChallenge && c.Quiz != nil:
		status = fmt.Sprintf("quiz %d/%d", c.Quiz.Cursor, len(c.Quiz.Items))
	default:
		status = "document loaded"
	}
	return theme.Hint.Render("(" + status + ")")
}
