package session

import "time"

// ChatSession is one conversation thread. It owns its transcript and, in
// challenge mode, its quiz.
type ChatSession struct {
	ID        string
	Name      string
	CreatedAt time.Time

	seq         int
	messages    []Message
	document    *Document
	interaction Interaction
}

func newChatSession(id, name string, seq int) *ChatSession {
	return &ChatSession{
		ID:          id,
		Name:        name,
		CreatedAt:   time.Now(),
		seq:         seq,
		interaction: noMode{},
	}
}

// State reports whether a document has been attached.
func (c *ChatSession) State() State {
	if c.document == nil {
		return StateNoDocument
	}
	return StateDocumentLoaded
}

// Mode returns the current interaction mode.
func (c *ChatSession) Mode() Mode { return c.interaction.Mode() }

// Messages returns a copy of the transcript in append order.
func (c *ChatSession) Messages() []Message {
	return append([]Message(nil), c.messages...)
}

// Document returns the attached document, if any.
func (c *ChatSession) Document() (Document, bool) {
	if c.document == nil {
		return Document{}, false
	}
	return *c.document, true
}

// Quiz returns the quiz when the chat is in challenge mode.
func (c *ChatSession) Quiz() (*QuizState, bool) {
	ch, ok := c.interaction.(challengeMode)
	if !ok {
		return nil, false
	}
	return ch.quiz, true
}

func (c *ChatSession) appendMessage(role Role, content string) {
	c.messages = append(c.messages, Message{Role: role, Content: content})
}

// Snapshot is a read-only copy of a chat, safe to hold while the service
// keeps mutating the original.
type Snapshot struct {
	ID        string
	Name      string
	CreatedAt time.Time
	State     State
	Mode      Mode
	Messages  []Message
	Document  *Document
	Quiz      *QuizView
}

// QuizView is a copy of a quiz's progress.
type QuizView struct {
	Items    []QuizItem
	Cursor   int
	Attempts []Attempt
	Complete bool
}

// Current returns the question awaiting an answer.
func (v *QuizView) Current() (QuizItem, bool) {
	if v.Complete || v.Cursor >= len(v.Items) {
		return QuizItem{}, false
	}
	return v.Items[v.Cursor], true
}

// Snapshot copies the chat's current state.
func (c *ChatSession) Snapshot() Snapshot {
	s := Snapshot{
		ID:        c.ID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
		State:     c.State(),
		Mode:      c.Mode(),
		Messages:  c.Messages(),
	}
	if d, ok := c.Document(); ok {
		s.Document = &d
	}
	if q, ok := c.Quiz(); ok {
		s.Quiz = &QuizView{
			Items:    q.Items(),
			Cursor:   q.Cursor(),
			Attempts: q.Attempts(),
			Complete: q.Complete(),
		}
	}
	return s
}
