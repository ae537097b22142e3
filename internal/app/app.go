package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/docchat/internal/router"
	"github.com/abhisek/docchat/internal/screen"
	"github.com/abhisek/docchat/internal/screens/chat"
	"github.com/abhisek/docchat/internal/screens/chats"
	"github.com/abhisek/docchat/internal/screens/history"
	"github.com/abhisek/docchat/internal/session"
	"github.com/abhisek/docchat/internal/store"
	"github.com/abhisek/docchat/internal/ui/layout"
)

// Options holds injected dependencies for the app.
type Options struct {
	Sessions  *session.Service
	Documents store.DocumentRepo
	History   store.HistoryRepo

	// Preload is a file uploaded into the first chat on start.
	Preload string
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	opts   Options
	width  int
	height int
}

// newAppModel creates an AppModel showing the active chat.
func newAppModel(opts Options) AppModel {
	active := opts.Sessions.EnsureActive()
	return AppModel{
		router: router.New(chat.New(opts.Sessions, active.ID, opts.Preload)),
		opts:   opts,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		case "ctrl+n":
			if m.busy() {
				return m, nil
			}
			c := m.opts.Sessions.NewChat()
			return m, m.router.Reset(chat.New(m.opts.Sessions, c.ID, ""))
		case "ctrl+l":
			if m.busy() {
				return m, nil
			}
			return m, m.router.Push(chats.New(m.opts.Sessions))
		case "ctrl+h":
			if m.busy() || m.opts.Documents == nil || m.opts.History == nil {
				return m, nil
			}
			return m, m.router.Push(history.New(m.opts.Documents, m.opts.History))
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

// busy reports whether the active screen is waiting on the session
// service. Chat navigation needs the service lock, so it waits too.
func (m AppModel) busy() bool {
	b, ok := m.router.Active().(interface{ Busy() bool })
	return ok && b.Busy()
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title, status := "", ""
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			status = sp.Status()
		}
	}

	header := layout.RenderHeader(title, status, m.width)

	var footerHints []layout.KeyHint
	if kp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = kp.KeyHints()
	} else {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(m.height-headerHeight-footerHeight, 0)

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
