package assistant

// QuizSize is the number of questions requested per challenge.
const QuizSize = 3

// Config holds generation settings for the gateway calls.
type Config struct {
	// MaxTokens bounds prose responses (summary, answer, evaluation).
	MaxTokens int

	// QuizMaxTokens bounds the structured quiz response.
	QuizMaxTokens int

	Temperature float64
}

// DefaultConfig returns sensible defaults. The budgets leave room for
// models that spend output tokens on reasoning.
func DefaultConfig() Config {
	return Config{
		MaxTokens:     2048,
		QuizMaxTokens: 4096,
		Temperature:   0.3,
	}
}
