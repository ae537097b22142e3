package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/docchat/internal/llm"
)

const skyDoc = "The sky is blue. Grass is green."

func newTestAssistant(responses ...llm.MockResponse) (*Assistant, *llm.MockProvider) {
	mock := llm.NewMockProvider(responses...)
	return New(mock, DefaultConfig(), zap.NewNop()), mock
}

func TestSummarize(t *testing.T) {
	a, mock := newTestAssistant(llm.MockResponse{Text: "A document about colours in nature."})

	got := a.Summarize(context.Background(), skyDoc)
	assert.Equal(t, "A document about colours in nature.", got)

	req, ok := mock.LastCall()
	require.True(t, ok)
	assert.Contains(t, req.Messages[0].Content, "about 150 words")
	assert.Contains(t, req.Messages[0].Content, skyDoc)
	assert.Nil(t, req.Schema)
}

func TestProseFailures(t *testing.T) {
	down := &llm.ErrProviderUnavailable{Err: errors.New("connection refused")}

	tests := []struct {
		name    string
		resp    llm.MockResponse
		call    func(a *Assistant) string
		want    string
		wantPre string
	}{
		{
			name:    "summary error",
			resp:    llm.MockResponse{Err: down},
			call:    func(a *Assistant) string { return a.Summarize(context.Background(), skyDoc) },
			wantPre: "Error generating summary: ",
		},
		{
			name: "summary empty",
			resp: llm.MockResponse{Text: "  "},
			call: func(a *Assistant) string { return a.Summarize(context.Background(), skyDoc) },
			want: "Unable to generate summary",
		},
		{
			name:    "answer error",
			resp:    llm.MockResponse{Err: down},
			call:    func(a *Assistant) string { return a.AnswerQuestion(context.Background(), skyDoc, "q") },
			wantPre: "Error answering question: ",
		},
		{
			name: "answer empty",
			resp: llm.MockResponse{Text: ""},
			call: func(a *Assistant) string { return a.AnswerQuestion(context.Background(), skyDoc, "q") },
			want: "Unable to generate answer",
		},
		{
			name:    "evaluation error",
			resp:    llm.MockResponse{Err: down},
			call:    func(a *Assistant) string { return a.EvaluateAnswer(context.Background(), skyDoc, "q", "u", "r") },
			wantPre: "Error evaluating answer: ",
		},
		{
			name: "evaluation empty",
			resp: llm.MockResponse{Text: "\n"},
			call: func(a *Assistant) string { return a.EvaluateAnswer(context.Background(), skyDoc, "q", "u", "r") },
			want: "Unable to evaluate answer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _ := newTestAssistant(tt.resp)
			got := tt.call(a)
			if tt.wantPre != "" {
				assert.True(t, strings.HasPrefix(got, tt.wantPre), "got %q", got)
				assert.Contains(t, got, "connection refused")
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAnswerQuestion_PromptIsGrounded(t *testing.T) {
	a, mock := newTestAssistant(llm.MockResponse{Text: "Answer: Blue\nJustification: \"The sky is blue.\""})

	got := a.AnswerQuestion(context.Background(), skyDoc, "What colour is the sky?")
	assert.Contains(t, got, "Blue")

	req, _ := mock.LastCall()
	prompt := req.Messages[0].Content
	assert.Contains(t, prompt, NotFoundAnswer)
	assert.Contains(t, prompt, "Question: What colour is the sky?")
	assert.Contains(t, prompt, "Justification:")
	assert.Contains(t, prompt, skyDoc)
}

func TestEvaluateAnswer_PromptCarriesBothAnswers(t *testing.T) {
	a, mock := newTestAssistant(llm.MockResponse{Text: "Correct! The document says the sky is blue."})

	got := a.EvaluateAnswer(context.Background(), skyDoc, "What colour is the sky?", "blue", "Blue")
	assert.Contains(t, got, "Correct")

	req, _ := mock.LastCall()
	prompt := req.Messages[0].Content
	assert.Contains(t, prompt, "User's answer: blue")
	assert.Contains(t, prompt, "Reference answer: Blue")
	assert.Contains(t, prompt, "partially correct")
}

func TestGenerateQuiz(t *testing.T) {
	a, mock := newTestAssistant(llm.MockResponse{
		Text: `{"questions":[
			{"question":"Why might the grass look green?","answer":"The document states grass is green."},
			{"question":"Compare the sky and grass.","answer":"The sky is blue while grass is green."},
			{"question":"What colour is the sky?","answer":"Blue"}
		]}`,
	})

	items := a.GenerateQuiz(context.Background(), skyDoc)
	require.Len(t, items, 3)
	assert.Equal(t, "What colour is the sky?", items[2].Question)
	assert.Equal(t, "Blue", items[2].Answer)

	req, _ := mock.LastCall()
	assert.Equal(t, QuizSchema, req.Schema)
	assert.Equal(t, DefaultConfig().QuizMaxTokens, req.MaxTokens)
}

func TestGenerateQuiz_AcceptsBareArray(t *testing.T) {
	a, _ := newTestAssistant(llm.MockResponse{
		Text: `[{"question":"Q1","answer":"A1"},{"question":"Q2","answer":"A2"}]`,
	})

	items := a.GenerateQuiz(context.Background(), skyDoc)
	require.Len(t, items, 2)
	assert.Equal(t, "Q1", items[0].Question)
}

func TestGenerateQuiz_FailuresYieldEmpty(t *testing.T) {
	tests := []struct {
		name string
		resp llm.MockResponse
	}{
		{"provider error", llm.MockResponse{Err: &llm.ErrRateLimit{Err: errors.New("429")}}},
		{"not json", llm.MockResponse{Text: "Here are some questions: 1. Why?"}},
		{"wrong shape", llm.MockResponse{Text: `{"questions":"none"}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zap.ErrorLevel)
			a := New(llm.NewMockProvider(tt.resp), DefaultConfig(), zap.New(core))

			items := a.GenerateQuiz(context.Background(), skyDoc)
			assert.Empty(t, items)
			assert.Equal(t, 1, logs.Len())
		})
	}
}

func TestParseQuiz(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []QuizItem
		wantErr bool
	}{
		{
			name: "wrapped object",
			raw:  `{"questions":[{"question":"Q","answer":"A"}]}`,
			want: []QuizItem{{Question: "Q", Answer: "A"}},
		},
		{
			name: "bare array",
			raw:  `[{"question":"Q","answer":"A"}]`,
			want: []QuizItem{{Question: "Q", Answer: "A"}},
		},
		{
			name: "code fence",
			raw:  "```json\n[{\"question\":\"Q\",\"answer\":\"A\"}]\n```",
			want: []QuizItem{{Question: "Q", Answer: "A"}},
		},
		{
			name: "blank questions dropped",
			raw:  `[{"question":"  ","answer":"A"},{"question":"Q2","answer":""}]`,
			want: []QuizItem{{Question: "Q2", Answer: ""}},
		},
		{
			name: "empty list",
			raw:  `{"questions":[]}`,
			want: []QuizItem{},
		},
		{
			name:    "prose",
			raw:     "no quiz today",
			wantErr: true,
		},
		{
			name:    "truncated",
			raw:     `[{"question":"Q"`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseQuiz(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrQuizParse)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPurposesAreLabelled(t *testing.T) {
	var purposes []string
	p := purposeRecorder{record: func(p string) { purposes = append(purposes, p) }}
	a := New(p, DefaultConfig(), nil)
	ctx := context.Background()

	a.Summarize(ctx, skyDoc)
	a.AnswerQuestion(ctx, skyDoc, "q")
	a.GenerateQuiz(ctx, skyDoc)
	a.EvaluateAnswer(ctx, skyDoc, "q", "u", "r")

	assert.Equal(t, []string{
		llm.PurposeSummary, llm.PurposeAnswer, llm.PurposeQuizGen, llm.PurposeEvaluate,
	}, purposes)
}

type purposeRecorder struct {
	record func(string)
}

func (p purposeRecorder) Generate(ctx context.Context, _ llm.Request) (*llm.Response, error) {
	p.record(llm.PurposeFrom(ctx))
	return &llm.Response{Text: "ok"}, nil
}

func (p purposeRecorder) ModelID() string { return "recorder" }
