package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/docchat/internal/router"
	"github.com/abhisek/docchat/internal/screen"
	"github.com/abhisek/docchat/internal/store"
	"github.com/abhisek/docchat/internal/ui/layout"
	"github.com/abhisek/docchat/internal/ui/theme"
)

type documentsLoadedMsg struct {
	Docs []store.Document
	Err  error
}

type detailLoadedMsg struct {
	DocID   int
	QA      []store.QAPair
	Quizzes []store.QuizSession
	Err     error
}

type detail struct {
	qa      []store.QAPair
	quizzes []store.QuizSession
	err     error
}

// HistoryScreen lists stored documents and, on demand, their Q&A and quiz
// history.
type HistoryScreen struct {
	docs     store.DocumentRepo
	history  store.HistoryRepo
	list     []store.Document
	details  map[int]*detail
	expanded map[int]bool
	selected int
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(docs store.DocumentRepo, history store.HistoryRepo) *HistoryScreen {
	return &HistoryScreen{
		docs:     docs,
		history:  history,
		details:  make(map[int]*detail),
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	docs := s.docs
	return func() tea.Msg {
		list, err := docs.Recent(context.Background(), store.DefaultRecentLimit)
		return documentsLoadedMsg{Docs: list, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case documentsLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.list = msg.Docs
		}
		s.loaded = true
		return s, nil

	case detailLoadedMsg:
		s.details[msg.DocID] = &detail{qa: msg.QA, quizzes: msg.Quizzes, err: msg.Err}
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.list)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			if s.selected >= len(s.list) {
				return s, nil
			}
			s.expanded[s.selected] = !s.expanded[s.selected]
			docID := s.list[s.selected].ID
			if s.expanded[s.selected] && s.details[docID] == nil {
				return s, s.loadDetail(docID)
			}
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) loadDetail(docID int) tea.Cmd {
	history := s.history
	return func() tea.Msg {
		ctx := context.Background()
		qa, err := history.QAHistory(ctx, docID, store.DefaultQAHistoryLimit)
		if err != nil {
			return detailLoadedMsg{DocID: docID, Err: err}
		}
		quizzes, err := history.QuizHistory(ctx, docID, store.DefaultQuizHistoryLimit)
		return detailLoadedMsg{DocID: docID, QA: qa, Quizzes: quizzes, Err: err}
	}
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.list) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No documents yet. Upload one to get started!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, d := range s.list {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}
		line := fmt.Sprintf("%s%s  %s  %d words", prefix, d.CreatedAt.Format("Jan 02, 2006"), d.Filename, d.WordCount)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString("  " + style.Render(line) + "\n")

		if s.expanded[i] {
			b.WriteString(renderDetail(s.details[d.ID], width-8))
		}
	}

	return b.String()
}

func renderDetail(d *detail, width int) string {
	indent := lipgloss.NewStyle().PaddingLeft(6)
	dim := theme.Hint

	if d == nil {
		return indent.Render(dim.Render("Loading...")) + "\n"
	}
	if d.err != nil {
		return indent.Render(theme.ErrorText.Render("Error: "+d.err.Error())) + "\n"
	}
	if len(d.qa) == 0 && len(d.quizzes) == 0 {
		return indent.Render(dim.Render("No questions or quizzes yet")) + "\n"
	}

	var b strings.Builder
	for _, qa := range d.qa {
		b.WriteString(theme.UserLabel.Render("Q: ") + layout.Wrap(qa.Question, width) + "\n")
		b.WriteString(theme.AssistantLabel.Render("A: ") + layout.Wrap(qa.Answer, width) + "\n")
	}
	for _, q := range d.quizzes {
		status := "incomplete"
		if q.Completed {
			status = "completed"
		}
		b.WriteString(theme.Selected.Render(fmt.Sprintf("Quiz %s  %d questions, %s",
			q.CreatedAt.Format("Jan 02 15:04"), q.TotalQuestions, status)) + "\n")
		for _, a := range q.Answers {
			b.WriteString(fmt.Sprintf("  %d. %s\n", a.QuestionNumber, a.Question))
			b.WriteString(dim.Render("     your answer: "+a.UserAnswer) + "\n")
		}
	}
	return indent.Render(strings.TrimRight(b.String(), "\n")) + "\n"
}
