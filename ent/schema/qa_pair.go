package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// QAPair is one grounded question and the assistant's answer.
type QAPair struct {
	ent.Schema
}

func (QAPair) Fields() []ent.Field {
	return []ent.Field{
		field.Int("qa_session_id").
			Comment("References qa_sessions.id"),
		field.Text("question"),
		field.Text("answer"),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

func (QAPair) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("qa_session_id"),
		index.Fields("created_at"),
	}
}
