package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// QuizSession records one challenge round over a document.
type QuizSession struct {
	ent.Schema
}

func (QuizSession) Fields() []ent.Field {
	return []ent.Field{
		field.Int("document_id").
			Comment("References documents.id"),
		field.String("session_id"),
		field.Int("total_questions").
			NonNegative(),
		field.Bool("completed").
			Default(false),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
		field.Time("completed_at").
			Optional().
			Nillable().
			Comment("Set when every question was answered"),
	}
}

func (QuizSession) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("document_id"),
		index.Fields("created_at"),
	}
}
