package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// QuizAnswer is the user's response to one quiz question with the
// evaluator's feedback.
type QuizAnswer struct {
	ent.Schema
}

func (QuizAnswer) Fields() []ent.Field {
	return []ent.Field{
		field.Int("quiz_session_id").
			Comment("References quiz_sessions.id"),
		field.Int("question_number").
			Positive().
			Comment("1-based position in the quiz"),
		field.Text("question"),
		field.Text("user_answer"),
		field.Text("correct_answer"),
		field.Text("ai_feedback").
			Default(""),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

func (QuizAnswer) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("quiz_session_id", "question_number").
			Unique(),
	}
}
