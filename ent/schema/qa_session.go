package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// QASession groups the question/answer pairs asked about one document in
// one chat.
type QASession struct {
	ent.Schema
}

func (QASession) Fields() []ent.Field {
	return []ent.Field{
		field.Int("document_id").
			Comment("References documents.id"),
		field.String("session_id").
			Comment("Chat session that asked the questions"),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

func (QASession) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("document_id"),
		index.Fields("session_id"),
	}
}
