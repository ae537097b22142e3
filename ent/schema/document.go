package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Document is an uploaded file's extracted text, deduplicated by content hash.
type Document struct {
	ent.Schema
}

func (Document) Fields() []ent.Field {
	return []ent.Field{
		field.String("filename").
			NotEmpty().
			Comment("Original upload name"),
		field.Text("content").
			Comment("Full extracted text"),
		field.String("content_hash").
			Unique().
			Immutable().
			Comment("Hex MD5 of content"),
		field.Text("summary").
			Default("").
			Comment("Summary produced at upload time"),
		field.Int("word_count").
			Default(0),
		field.Int("character_count").
			Default(0),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now),
	}
}

func (Document) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("created_at"),
	}
}
