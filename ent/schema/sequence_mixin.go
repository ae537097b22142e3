package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
	"entgo.io/ent/schema/mixin"
)

// SequenceMixin orders append-only audit rows. The sequence is assigned by
// the store, not by SQLite, so rows keep their order across restarts even
// when timestamps collide.
type SequenceMixin struct {
	mixin.Schema
}

func (SequenceMixin) Fields() []ent.Field {
	return []ent.Field{
		field.Int64("sequence").
			Unique().
			Immutable().
			Comment("Store-assigned, strictly increasing"),
		field.Time("timestamp").
			Default(time.Now).
			Immutable().
			Comment("UTC time the row was appended"),
	}
}

func (SequenceMixin) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("timestamp"),
	}
}
