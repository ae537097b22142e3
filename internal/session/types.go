package session

import "github.com/abhisek/docchat/internal/assistant"

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry in a chat's transcript.
type Message struct {
	Role    Role
	Content string
}

// QuizItem is a generated question with its reference answer.
type QuizItem = assistant.QuizItem

// Attempt records one submitted quiz answer and the feedback it received.
type Attempt struct {
	Question   string
	UserAnswer string
	Feedback   string
}

// Document is the chat's private copy of an uploaded document.
type Document struct {
	Name    string
	Text    string
	Summary string

	// StoreID is the persisted document id, or 0 when persistence failed.
	StoreID int
}

// State is the coarse lifecycle state of a chat.
type State int

const (
	StateNoDocument State = iota
	StateDocumentLoaded
)

func (s State) String() string {
	switch s {
	case StateNoDocument:
		return "no-document"
	case StateDocumentLoaded:
		return "document-loaded"
	default:
		return "unknown"
	}
}
