package chat

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	sess "github.com/abhisek/docchat/internal/session"
	"github.com/abhisek/docchat/internal/ui/components"
	"github.com/abhisek/docchat/internal/ui/layout"
	"github.com/abhisek/docchat/internal/ui/theme"
)

func (s *ChatScreen) View(width, height int) string {
	inner := width - 4
	if inner < 20 {
		inner = 20
	}

	var bottom strings.Builder
	switch phaseOf(s.snap) {
	case phaseUpload:
		bottom.WriteString(theme.Title.Render("Upload a PDF or TXT file to begin"))
		bottom.WriteString("\n\n")
		bottom.WriteString(s.input.View())
	case phaseChooseMode:
		bottom.WriteString(theme.Title.Render("Choose your interaction mode"))
		bottom.WriteString("\n\n")
		bottom.WriteString(s.menu.View())
	case phaseAsk:
		bottom.WriteString(s.input.View())
	case phaseQuiz:
		bottom.WriteString(s.renderQuestion(inner))
	case phaseQuizDone:
		bottom.WriteString(lipgloss.NewStyle().Foreground(theme.Success).Bold(true).
			Render("You have completed the challenge!"))
	}

	if s.busy != "" {
		bottom.WriteString("\n\n")
		bottom.WriteString(s.spinner.View() + " " + theme.Hint.Render(s.busy))
	}
	if s.errMsg != "" {
		bottom.WriteString("\n\n")
		bottom.WriteString(theme.ErrorText.Render(layout.Wrap(s.errMsg, inner)))
	}

	bottomView := bottom.String()
	transcriptHeight := height - lipgloss.Height(bottomView) - 2
	transcript := s.renderTranscript(inner, transcriptHeight)

	return lipgloss.NewStyle().Padding(0, 2).Render(transcript + "\n\n" + bottomView)
}

// renderTranscript renders the chat messages, or the quiz results once the
// quiz is done, keeping only the last lines that fit in height.
func (s *ChatScreen) renderTranscript(width, height int) string {
	var b strings.Builder

	switch phaseOf(s.snap) {
	case phaseQuiz, phaseQuizDone:
		b.WriteString(renderAttempts(s.snap.Quiz, width))
	default:
		if len(s.snap.Messages) == 0 {
			b.WriteString(theme.Hint.Render("How can I help you today? Summarize a document, answer questions about it, or test your understanding."))
		}
		for i, m := range s.snap.Messages {
			if i > 0 {
				b.WriteString("\n\n")
			}
			b.WriteString(renderMessage(m, width))
		}
	}

	return tail(b.String(), height)
}

func renderMessage(m sess.Message, width int) string {
	label := theme.AssistantLabel.Render("docchat")
	if m.Role == sess.RoleUser {
		label = theme.UserLabel.Render("you")
	}
	return label + "\n" + theme.Body.Render(layout.Wrap(m.Content, width))
}

func renderAttempts(q *sess.QuizView, width int) string {
	if q == nil {
		return ""
	}

	var b strings.Builder
	if q.Complete {
		b.WriteString(theme.Title.Render("Your results"))
		b.WriteString("\n\n")
	}
	for i, a := range q.Attempts {
		b.WriteString(theme.Selected.Render(fmt.Sprintf("Question %d: ", i+1)))
		b.WriteString(layout.Wrap(a.Question, width))
		b.WriteString("\n")
		b.WriteString(theme.UserLabel.Render("Your answer: "))
		b.WriteString(layout.Wrap(a.UserAnswer, width))
		b.WriteString("\n")
		b.WriteString(theme.AssistantLabel.Render("Feedback:"))
		b.WriteString("\n")
		b.WriteString(layout.Wrap(a.Feedback, width))
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (s *ChatScreen) renderQuestion(width int) string {
	q := s.snap.Quiz
	item, ok := q.Current()
	if !ok {
		return ""
	}

	barWidth := width
	if !layout.IsCompactWidth(width) {
		barWidth = width / 2
	}

	var b strings.Builder
	b.WriteString(components.NewProgressBar("Progress", q.Cursor, len(q.Items), barWidth).View())
	b.WriteString("\n\n")
	b.WriteString(theme.Selected.Render(fmt.Sprintf("Question %d/%d:", q.Cursor+1, len(q.Items))))
	b.WriteString("\n")
	b.WriteString(theme.Card.Render(layout.Wrap(item.Question, width-4)))
	b.WriteString("\n")
	b.WriteString(s.input.View())
	return b.String()
}

// tail keeps the last height lines of s.
func tail(s string, height int) string {
	if height <= 0 {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[len(lines)-height:]
	}
	return strings.Join(lines, "\n")
}
