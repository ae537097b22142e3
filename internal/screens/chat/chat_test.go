package chat

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/docchat/internal/extract"
	"github.com/abhisek/docchat/internal/screen"
	sess "github.com/abhisek/docchat/internal/session"
)

type stubGateway struct {
	quiz []sess.QuizItem
}

func (g *stubGateway) Summarize(context.Context, string) string { return "Colours in nature." }

func (g *stubGateway) AnswerQuestion(context.Context, string, string) string {
	return "Answer: Blue"
}

func (g *stubGateway) GenerateQuiz(context.Context, string) []sess.QuizItem { return g.quiz }

func (g *stubGateway) EvaluateAnswer(_ context.Context, _, _, userAnswer, _ string) string {
	return "Feedback for " + userAnswer
}

func enter() tea.KeyPressMsg { return tea.KeyPressMsg{Code: tea.KeyEnter} }

func newScreen(t *testing.T, gw *stubGateway) (*ChatScreen, *sess.Service) {
	t.Helper()
	svc := sess.NewService(sess.NewRepository(), gw, sess.Options{})
	chat := svc.EnsureActive()
	return New(svc, chat.ID, ""), svc
}

func writeDoc(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sky.txt")
	require.NoError(t, os.WriteFile(path, []byte("The sky is blue. Grass is green."), 0o644))
	return path
}

// apply feeds msg to the screen and returns it as a *ChatScreen.
func apply(t *testing.T, s screen.Screen, msg tea.Msg) (*ChatScreen, tea.Cmd) {
	t.Helper()
	next, cmd := s.Update(msg)
	cs, ok := next.(*ChatScreen)
	require.True(t, ok)
	return cs, cmd
}

func TestChatScreen_UploadFlow(t *testing.T) {
	scr, _ := newScreen(t, &stubGateway{})
	assert.Equal(t, phaseUpload, phaseOf(scr.snap))
	assert.Equal(t, "Chat 1", scr.Title())

	path := writeDoc(t)
	scr.input.Model.SetValue(path)

	scr, cmd := apply(t, scr, enter())
	assert.NotNil(t, cmd)
	assert.NotEmpty(t, scr.busy)

	scr, _ = apply(t, scr, scr.uploadCmd(path)())
	assert.Empty(t, scr.busy)
	assert.Empty(t, scr.errMsg)
	assert.Equal(t, phaseChooseMode, phaseOf(scr.snap))
	assert.Equal(t, "sky.txt", scr.Title())

	view := scr.View(100, 40)
	assert.Contains(t, view, "I have finished reading `sky.txt`.")
	assert.Contains(t, view, "Colours in nature.")
	assert.Contains(t, view, "Ask Anything")
	assert.Contains(t, view, "Challenge Me")
}

func TestChatScreen_EmptyPath(t *testing.T) {
	scr, _ := newScreen(t, &stubGateway{})

	scr, cmd := apply(t, scr, enter())
	assert.Nil(t, cmd)
	assert.NotEmpty(t, scr.errMsg)
	assert.Empty(t, scr.busy)
}

func TestChatScreen_MissingFile(t *testing.T) {
	scr, _ := newScreen(t, &stubGateway{})

	scr, _ = apply(t, scr, scr.uploadCmd(filepath.Join(t.TempDir(), "nope.txt"))())
	assert.Contains(t, scr.errMsg, "nope.txt")
	assert.Equal(t, phaseUpload, phaseOf(scr.snap))
}

func TestChatScreen_KeysIgnoredWhileBusy(t *testing.T) {
	scr, _ := newScreen(t, &stubGateway{})
	scr.busy = "Thinking..."

	_, cmd := apply(t, scr, enter())
	assert.Nil(t, cmd)
}

func TestChatScreen_AskMode(t *testing.T) {
	scr, _ := newScreen(t, &stubGateway{})
	scr, _ = apply(t, scr, scr.uploadCmd(writeDoc(t))())

	// First menu item is Ask Anything.
	_, cmd := apply(t, scr, enter())
	require.NotNil(t, cmd)
	scr, _ = apply(t, scr, cmd())
	assert.Equal(t, phaseAsk, phaseOf(scr.snap))
	assert.Equal(t, "Ask Anything", scr.Status())

	scr, _ = apply(t, scr, scr.askCmd("What color is the sky?")())
	require.Len(t, scr.snap.Messages, 4)
	assert.Contains(t, scr.View(100, 40), "Answer: Blue")
}

func TestChatScreen_ChallengeFlow(t *testing.T) {
	gw := &stubGateway{}
	scr, _ := newScreen(t, gw)
	scr, _ = apply(t, scr, scr.uploadCmd(writeDoc(t))())

	scr, _ = apply(t, scr, scr.enterChallengeCmd()())
	assert.Equal(t, phaseChooseMode, phaseOf(scr.snap))
	assert.Contains(t, scr.errMsg, "unable to generate a quiz")

	gw.quiz = []sess.QuizItem{{Question: "Q1?", Answer: "A1"}, {Question: "Q2?", Answer: "A2"}}
	scr, _ = apply(t, scr, scr.enterChallengeCmd()())
	assert.Empty(t, scr.errMsg)
	assert.Equal(t, phaseQuiz, phaseOf(scr.snap))
	assert.Contains(t, scr.View(100, 40), "Question 1/2:")

	scr, _ = apply(t, scr, scr.submitCmd("")())
	assert.Equal(t, "Please enter your answer before submitting.", scr.errMsg)
	assert.Equal(t, 0, scr.snap.Quiz.Cursor)

	scr, _ = apply(t, scr, scr.submitCmd("first")())
	assert.Contains(t, scr.View(100, 40), "Question 2/2:")
	assert.Contains(t, scr.View(100, 40), "Feedback for first")

	scr, _ = apply(t, scr, scr.submitCmd("second")())
	assert.Equal(t, phaseQuizDone, phaseOf(scr.snap))
	view := scr.View(100, 40)
	assert.Contains(t, view, "completed the challenge")
	assert.Contains(t, view, "Feedback for second")
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("x: %w", extract.ErrUnsupportedFormat), "Unsupported file format. Please upload a PDF or TXT file."},
		{extract.ErrExtractionFailed, "Could not extract text from the document. Please try a different file."},
		{&extract.FileTooLargeError{Size: 11 * 1024 * 1024, MaxSizeMB: 10}, "File size (11.0 MB) exceeds maximum allowed size (10 MB)"},
		{sess.ErrEmptyAnswer, "Please enter your answer before submitting."},
		{errors.New("boom"), "Error: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, userMessage(tt.err))
		})
	}
}

func TestTail(t *testing.T) {
	assert.Equal(t, "c\nd", tail("a\nb\nc\nd", 2))
	assert.Equal(t, "a\nb", tail("a\nb", 5))
	assert.Equal(t, "", tail("a", 0))
}
