package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a lookup by id matches no row.
var ErrNotFound = errors.New("not found")

// Default result limits for history queries.
const (
	DefaultRecentLimit      = 10
	DefaultQAHistoryLimit   = 10
	DefaultQuizHistoryLimit = 5
)

// DocumentInput is what the caller knows about a freshly uploaded document.
type DocumentInput struct {
	Filename string
	Content  string
	Summary  string
}

// Document is a persisted document row.
type Document struct {
	ID             int       `sql:"id"`
	Filename       string    `sql:"filename"`
	Content        string    `sql:"content"`
	ContentHash    string    `sql:"content_hash"`
	Summary        string    `sql:"summary"`
	WordCount      int       `sql:"word_count"`
	CharacterCount int       `sql:"character_count"`
	CreatedAt      time.Time `sql:"created_at"`
	UpdatedAt      time.Time `sql:"updated_at"`
}

// DocumentRepo stores uploaded documents.
type DocumentRepo interface {
	// Save inserts the document unless one with identical content exists,
	// in which case the existing id is returned and nothing is written.
	Save(ctx context.Context, in DocumentInput) (int, error)

	// Get returns the document with the given id, or ErrNotFound.
	Get(ctx context.Context, id int) (*Document, error)

	// Recent returns the newest documents first. limit <= 0 means
	// DefaultRecentLimit.
	Recent(ctx context.Context, limit int) ([]Document, error)
}

// QAPair is one question and the answer given for it.
type QAPair struct {
	Question  string    `sql:"question"`
	Answer    string    `sql:"answer"`
	CreatedAt time.Time `sql:"created_at"`
}

// QuizAnswer is one answered quiz question.
type QuizAnswer struct {
	QuestionNumber int    `sql:"question_number"`
	Question       string `sql:"question"`
	UserAnswer     string `sql:"user_answer"`
	CorrectAnswer  string `sql:"correct_answer"`
	Feedback       string `sql:"ai_feedback"`
}

// QuizRecord is a quiz round as handed to SaveQuizSession. Answers are
// numbered from 1 in slice order.
type QuizRecord struct {
	TotalQuestions int
	Completed      bool
	Answers        []QuizAnswer
}

// QuizSession is a persisted quiz round with its answers in question order.
type QuizSession struct {
	ID             int
	SessionID      string
	TotalQuestions int
	Completed      bool
	CreatedAt      time.Time
	CompletedAt    *time.Time
	Answers        []QuizAnswer
}

// Stats holds aggregate row counts.
type Stats struct {
	Documents    int
	QASessions   int
	QuizSessions int
}

// HistoryRepo stores question/answer and quiz history per document.
type HistoryRepo interface {
	// SaveQASession writes a Q&A session and its pairs in one transaction.
	SaveQASession(ctx context.Context, docID int, sessionID string, pairs []QAPair) (int, error)

	// SaveQuizSession writes a quiz session and its answers in one
	// transaction.
	SaveQuizSession(ctx context.Context, docID int, sessionID string, rec QuizRecord) (int, error)

	// QAHistory returns the newest pairs asked about a document.
	QAHistory(ctx context.Context, docID int, limit int) ([]QAPair, error)

	// QuizHistory returns the newest quiz sessions for a document.
	QuizHistory(ctx context.Context, docID int, limit int) ([]QuizSession, error)

	// Stats returns aggregate counts across all documents.
	Stats(ctx context.Context) (Stats, error)
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a persisted LLM request event.
type LLMEvent struct {
	ID           int       `sql:"id"`
	Sequence     int64     `sql:"sequence"`
	Timestamp    time.Time `sql:"timestamp"`
	Provider     string    `sql:"provider"`
	Model        string    `sql:"model"`
	Purpose      string    `sql:"purpose"`
	InputTokens  int       `sql:"input_tokens"`
	OutputTokens int       `sql:"output_tokens"`
	LatencyMs    int64     `sql:"latency_ms"`
	Success      bool      `sql:"success"`
	ErrorMessage string    `sql:"error_message"`
	RequestBody  string    `sql:"request_body"`
	ResponseBody string    `sql:"response_body"`
}

// LLMEventFilter narrows QueryLLMEvents.
type LLMEventFilter struct {
	Purpose string
	Model   string
	Failed  bool // only unsuccessful requests
	Limit   int  // 0 = unlimited
}

// LLMUsage aggregates requests grouped by a key (purpose or model).
type LLMUsage struct {
	Key          string `sql:"key"`
	Requests     int    `sql:"requests"`
	Failures     int    `sql:"failures"`
	InputTokens  int    `sql:"input_tokens"`
	OutputTokens int    `sql:"output_tokens"`
	LatencyMs    int64  `sql:"latency_ms"`
}

// EventRepo records and reads the LLM audit log.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, f LLMEventFilter) ([]LLMEvent, error)

	// GetLLMEvent returns one event by id, or ErrNotFound.
	GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error)

	// LLMUsageByPurpose aggregates requests per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)

	// LLMUsageByModel aggregates requests per model.
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)
}
