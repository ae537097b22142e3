package chat

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/docchat/internal/extract"
	"github.com/abhisek/docchat/internal/screen"
	sess "github.com/abhisek/docchat/internal/session"
	"github.com/abhisek/docchat/internal/ui/components"
	"github.com/abhisek/docchat/internal/ui/layout"
)

// phase is what the screen is waiting for from the user.
type phase int

const (
	phaseUpload phase = iota
	phaseChooseMode
	phaseAsk
	phaseQuiz
	phaseQuizDone
)

func phaseOf(s sess.Snapshot) phase {
	if s.State == sess.StateNoDocument {
		return phaseUpload
	}
	switch s.Mode {
	case sess.ModeAsk:
		return phaseAsk
	case sess.ModeChallenge:
		if s.Quiz != nil && s.Quiz.Complete {
			return phaseQuizDone
		}
		return phaseQuiz
	default:
		return phaseChooseMode
	}
}

// ChatScreen shows one chat and drives it through upload, mode choice and
// either question answering or the quiz.
type ChatScreen struct {
	svc     *sess.Service
	snap    sess.Snapshot
	input   components.TextInput
	menu    components.Menu
	spinner spinner.Model
	busy    string
	errMsg  string
	preload string
}

var _ screen.Screen = (*ChatScreen)(nil)
var _ screen.KeyHintProvider = (*ChatScreen)(nil)
var _ screen.StatusProvider = (*ChatScreen)(nil)

// New creates a screen for chat id. preload, when set, is a file path
// uploaded as soon as the screen starts.
func New(svc *sess.Service, id, preload string) *ChatScreen {
	s := &ChatScreen{
		svc:     svc,
		input:   components.NewTextInput("", 4096),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		preload: preload,
	}
	snap, err := svc.Get(id)
	if err != nil {
		s.errMsg = err.Error()
	}
	s.setSnapshot(snap)
	return s
}

func (s *ChatScreen) Init() tea.Cmd {
	cmds := []tea.Cmd{s.input.Init()}
	if s.preload != "" && phaseOf(s.snap) == phaseUpload {
		cmds = append(cmds, s.start("Processing and summarizing document...", s.uploadCmd(s.preload)))
		s.preload = ""
	}
	return tea.Batch(cmds...)
}

// Busy reports whether a service call is in flight.
func (s *ChatScreen) Busy() bool {
	return s.busy != ""
}

func (s *ChatScreen) Title() string {
	if s.snap.Name == "" {
		return "Chat"
	}
	return s.snap.Name
}

func (s *ChatScreen) Status() string {
	switch phaseOf(s.snap) {
	case phaseAsk:
		return "Ask Anything"
	case phaseQuiz, phaseQuizDone:
		return "Challenge Me"
	default:
		return ""
	}
}

func (s *ChatScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "Ctrl+N", Description: "New chat"}, {Key: "Ctrl+L", Description: "Chats"}, {Key: "Ctrl+H", Description: "History"}}
	switch phaseOf(s.snap) {
	case phaseUpload:
		hints = append([]layout.KeyHint{{Key: "Enter", Description: "Load file"}}, hints...)
	case phaseChooseMode:
		hints = append([]layout.KeyHint{{Key: "↑↓", Description: "Choose"}, {Key: "Enter", Description: "Select"}}, hints...)
	case phaseAsk:
		hints = append([]layout.KeyHint{{Key: "Enter", Description: "Ask"}}, hints...)
	case phaseQuiz:
		hints = append([]layout.KeyHint{{Key: "Enter", Description: "Submit answer"}}, hints...)
	}
	return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
}

func (s *ChatScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case chatUpdatedMsg:
		s.busy = ""
		if msg.Err != nil {
			s.errMsg = userMessage(msg.Err)
		} else {
			s.errMsg = ""
			s.input.Reset()
		}
		if msg.Snap.ID != "" {
			s.setSnapshot(msg.Snap)
		}
		return s, nil

	case spinner.TickMsg:
		if s.busy == "" {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		if s.busy != "" {
			return s, nil
		}
		return s.handleKey(msg)
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *ChatScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	p := phaseOf(s.snap)

	if p == phaseChooseMode {
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		return s, cmd
	}

	if msg.String() != "enter" {
		if p == phaseQuizDone {
			return s, nil
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}

	value := s.input.Value()
	switch p {
	case phaseUpload:
		if value == "" {
			s.errMsg = "Enter the path of a PDF or TXT file."
			return s, nil
		}
		return s, s.start("Processing and summarizing document...", s.uploadCmd(value))
	case phaseAsk:
		if value == "" {
			return s, nil
		}
		return s, s.start("Thinking...", s.askCmd(value))
	case phaseQuiz:
		return s, s.start("Evaluating your answer...", s.submitCmd(value))
	}
	return s, nil
}

// start marks the screen busy and runs cmd alongside the spinner.
func (s *ChatScreen) start(label string, cmd tea.Cmd) tea.Cmd {
	s.busy = label
	s.errMsg = ""
	return tea.Batch(cmd, s.spinner.Tick)
}

func (s *ChatScreen) setSnapshot(snap sess.Snapshot) {
	s.snap = snap
	switch phaseOf(snap) {
	case phaseUpload:
		s.input.SetPlaceholder("Path to a PDF or TXT file")
	case phaseChooseMode:
		s.menu = components.NewMenu([]components.MenuItem{
			{
				Label:       "Ask Anything",
				Description: "Ask free-form questions answered from the document",
				Action:      s.enterAskCmd,
			},
			{
				Label:       "Challenge Me",
				Description: "Answer three questions generated from the document",
				Action: func() tea.Cmd {
					return s.start("Generating quiz questions...", s.enterChallengeCmd())
				},
			},
		})
	case phaseAsk:
		s.input.SetPlaceholder("Ask a question about your document...")
	case phaseQuiz:
		s.input.SetPlaceholder("Your answer")
	}
}

func (s *ChatScreen) uploadCmd(path string) tea.Cmd {
	svc, id := s.svc, s.snap.ID
	return func() tea.Msg {
		path = expandHome(path)
		data, err := os.ReadFile(path)
		if err != nil {
			return chatUpdatedMsg{Err: fmt.Errorf("read %s: %w", path, err)}
		}
		snap, err := svc.Upload(context.Background(), id, filepath.Base(path), data)
		return chatUpdatedMsg{Snap: snap, Err: err}
	}
}

func (s *ChatScreen) enterAskCmd() tea.Cmd {
	svc, id := s.svc, s.snap.ID
	return func() tea.Msg {
		snap, err := svc.EnterAsk(id)
		return chatUpdatedMsg{Snap: snap, Err: err}
	}
}

func (s *ChatScreen) enterChallengeCmd() tea.Cmd {
	svc, id := s.svc, s.snap.ID
	return func() tea.Msg {
		snap, err := svc.EnterChallenge(context.Background(), id)
		return chatUpdatedMsg{Snap: snap, Err: err}
	}
}

func (s *ChatScreen) askCmd(question string) tea.Cmd {
	svc, id := s.svc, s.snap.ID
	return func() tea.Msg {
		snap, err := svc.Ask(context.Background(), id, question)
		return chatUpdatedMsg{Snap: snap, Err: err}
	}
}

func (s *ChatScreen) submitCmd(answer string) tea.Cmd {
	svc, id := s.svc, s.snap.ID
	return func() tea.Msg {
		snap, err := svc.SubmitAnswer(context.Background(), id, answer)
		return chatUpdatedMsg{Snap: snap, Err: err}
	}
}

// userMessage turns service errors into the text shown under the input.
func userMessage(err error) string {
	var tooLarge *extract.FileTooLargeError
	switch {
	case errors.As(err, &tooLarge):
		return tooLarge.Error()
	case errors.Is(err, extract.ErrUnsupportedFormat):
		return "Unsupported file format. Please upload a PDF or TXT file."
	case errors.Is(err, extract.ErrExtractionFailed):
		return "Could not extract text from the document. Please try a different file."
	case errors.Is(err, sess.ErrQuizGenerationFailed):
		return "I was unable to generate a quiz for this document. Please try a different document or ask questions in 'Ask Anything' mode."
	case errors.Is(err, sess.ErrEmptyAnswer):
		return "Please enter your answer before submitting."
	case errors.Is(err, sess.ErrQuizComplete):
		return "You have already completed the challenge."
	default:
		return "Error: " + err.Error()
	}
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
