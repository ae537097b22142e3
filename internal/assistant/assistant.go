package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/abhisek/docchat/internal/llm"
)

// ErrQuizParse is returned when the model's quiz output cannot be read
// as a list of question/answer pairs.
var ErrQuizParse = errors.New("quiz response could not be parsed")

// Fallback texts returned when a call succeeds but the model says nothing.
const (
	emptySummary    = "Unable to generate summary"
	emptyAnswer     = "Unable to generate answer"
	emptyEvaluation = "Unable to evaluate answer"
)

// Assistant implements Gateway on top of an llm.Provider.
type Assistant struct {
	provider llm.Provider
	cfg      Config
	log      *zap.Logger
}

var _ Gateway = (*Assistant)(nil)

// New creates an Assistant. log may be nil.
func New(provider llm.Provider, cfg Config, log *zap.Logger) *Assistant {
	if log == nil {
		log = zap.NewNop()
	}
	return &Assistant{provider: provider, cfg: cfg, log: log.Named("assistant")}
}

// Summarize returns a roughly 150-word summary of text.
func (a *Assistant) Summarize(ctx context.Context, text string) string {
	out, err := a.prose(llm.WithPurpose(ctx, llm.PurposeSummary),
		summarySystemPrompt, buildSummaryUserMessage(text))
	if err != nil {
		return "Error generating summary: " + err.Error()
	}
	return orDefault(out, emptySummary)
}

// AnswerQuestion answers question from text alone, quoting the document as
// justification or replying with NotFoundAnswer.
func (a *Assistant) AnswerQuestion(ctx context.Context, text, question string) string {
	out, err := a.prose(llm.WithPurpose(ctx, llm.PurposeAnswer),
		answerSystemPrompt, buildAnswerUserMessage(text, question))
	if err != nil {
		return "Error answering question: " + err.Error()
	}
	return orDefault(out, emptyAnswer)
}

// EvaluateAnswer judges userAnswer against referenceAnswer and the document.
func (a *Assistant) EvaluateAnswer(ctx context.Context, text, question, userAnswer, referenceAnswer string) string {
	out, err := a.prose(llm.WithPurpose(ctx, llm.PurposeEvaluate),
		evaluateSystemPrompt, buildEvaluateUserMessage(text, question, userAnswer, referenceAnswer))
	if err != nil {
		return "Error evaluating answer: " + err.Error()
	}
	return orDefault(out, emptyEvaluation)
}

// GenerateQuiz asks for QuizSize questions. Any failure is logged and
// yields an empty list.
func (a *Assistant) GenerateQuiz(ctx context.Context, text string) []QuizItem {
	ctx = llm.WithPurpose(ctx, llm.PurposeQuizGen)

	req := llm.UserPrompt(quizSystemPrompt, buildQuizUserMessage(text))
	req.Schema = QuizSchema
	req.MaxTokens = a.cfg.QuizMaxTokens
	req.Temperature = a.cfg.Temperature

	resp, err := a.provider.Generate(ctx, req)
	if err != nil {
		// A bare JSON array fails the object schema but is still a quiz.
		var invErr *llm.ErrInvalidResponse
		if errors.As(err, &invErr) && invErr.Content != "" {
			if items, perr := ParseQuiz(invErr.Content); perr == nil {
				return items
			}
		}
		a.log.Error("generate quiz", zap.Error(err))
		return nil
	}

	items, err := ParseQuiz(resp.Text)
	if err != nil {
		a.log.Error("parse quiz", zap.Error(err), zap.String("raw", resp.Text))
		return nil
	}
	return items
}

func (a *Assistant) prose(ctx context.Context, system, prompt string) (string, error) {
	req := llm.UserPrompt(system, prompt)
	req.MaxTokens = a.cfg.MaxTokens
	req.Temperature = a.cfg.Temperature

	resp, err := a.provider.Generate(ctx, req)
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

// ParseQuiz reads quiz JSON in either the {"questions": [...]} form or as
// a bare array. Items with a blank question are dropped.
func ParseQuiz(raw string) ([]QuizItem, error) {
	raw = stripCodeFence(raw)

	var wrapped struct {
		Questions []QuizItem `json:"questions"`
	}
	var items []QuizItem

	switch {
	case strings.HasPrefix(raw, "["):
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrQuizParse, err)
		}
	case strings.HasPrefix(raw, "{"):
		if err := json.Unmarshal([]byte(raw), &wrapped); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrQuizParse, err)
		}
		items = wrapped.Questions
	default:
		return nil, fmt.Errorf("%w: not a JSON object or array", ErrQuizParse)
	}

	out := make([]QuizItem, 0, len(items))
	for _, it := range items {
		if strings.TrimSpace(it.Question) == "" {
			continue
		}
		out = append(out, QuizItem{
			Question: strings.TrimSpace(it.Question),
			Answer:   strings.TrimSpace(it.Answer),
		})
	}
	return out, nil
}

// stripCodeFence removes a surrounding ```json fence some models add.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
