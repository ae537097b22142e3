package assistant

import "context"

// QuizItem is a generated question with its reference answer.
type QuizItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Gateway is the language-model boundary the session layer talks to.
// Every method takes the full document text and keeps no memory between
// calls. Failures are reported as text (or an empty quiz), never as errors.
type Gateway interface {
	Summarize(ctx context.Context, text string) string
	AnswerQuestion(ctx context.Context, text, question string) string
	GenerateQuiz(ctx context.Context, text string) []QuizItem
	EvaluateAnswer(ctx context.Context, text, question, userAnswer, referenceAnswer string) string
}
