package store

import (
	"fmt"
	"strings"

	"entgo.io/ent"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	entschema "github.com/abhisek/docchat/ent/schema"
)

// Table names.
const (
	TableDocuments    = "documents"
	TableQASessions   = "qa_sessions"
	TableQAPairs      = "qa_pairs"
	TableQuizSessions = "quiz_sessions"
	TableQuizAnswers  = "quiz_answers"
	TableLLMEvents    = "llm_request_events"
)

// reference is a foreign key from column to the parent table's id.
type reference struct {
	column string
	table  string
}

// entity binds an ent schema to its table name and parent references.
type entity struct {
	table  string
	schema ent.Interface
	refs   []reference
}

// entities lists tables in dependency order: parents before children.
var entities = []entity{
	{table: TableDocuments, schema: entschema.Document{}},
	{
		table:  TableQASessions,
		schema: entschema.QASession{},
		refs:   []reference{{column: "document_id", table: TableDocuments}},
	},
	{
		table:  TableQAPairs,
		schema: entschema.QAPair{},
		refs:   []reference{{column: "qa_session_id", table: TableQASessions}},
	},
	{
		table:  TableQuizSessions,
		schema: entschema.QuizSession{},
		refs:   []reference{{column: "document_id", table: TableDocuments}},
	},
	{
		table:  TableQuizAnswers,
		schema: entschema.QuizAnswer{},
		refs:   []reference{{column: "quiz_session_id", table: TableQuizSessions}},
	},
	{table: TableLLMEvents, schema: entschema.LLMRequestEvent{}},
}

// Tables builds the migration tables from the ent schema descriptors.
// Every table gets an auto-increment integer id.
func Tables() []*schema.Table {
	byName := make(map[string]*schema.Table, len(entities))
	tables := make([]*schema.Table, 0, len(entities))

	for _, e := range entities {
		t := schema.NewTable(e.table)
		t.AddPrimary(&schema.Column{Name: "id", Type: field.TypeInt, Increment: true})

		var fields []ent.Field
		var indexes []ent.Index
		for _, m := range e.schema.Mixin() {
			fields = append(fields, m.Fields()...)
			indexes = append(indexes, m.Indexes()...)
		}
		fields = append(fields, e.schema.Fields()...)
		indexes = append(indexes, e.schema.Indexes()...)

		for _, f := range fields {
			t.AddColumn(columnFor(f.Descriptor()))
		}

		for _, idx := range indexes {
			d := idx.Descriptor()
			name := e.table + "_" + strings.Join(d.Fields, "_")
			t.AddIndex(name, d.Unique, d.Fields)
		}

		for _, ref := range e.refs {
			parent, ok := byName[ref.table]
			if !ok {
				panic(fmt.Sprintf("store: %s references %s before it is declared", e.table, ref.table))
			}
			col, _ := t.Column(ref.column)
			pk, _ := parent.Column("id")
			t.AddForeignKey(&schema.ForeignKey{
				Symbol:     fmt.Sprintf("%s_%s_%s", e.table, ref.table, ref.column),
				Columns:    []*schema.Column{col},
				RefTable:   parent,
				RefColumns: []*schema.Column{pk},
				OnDelete:   schema.Cascade,
			})
		}

		byName[e.table] = t
		tables = append(tables, t)
	}
	return tables
}

// columnFor maps an ent field descriptor to a migration column.
func columnFor(d *field.Descriptor) *schema.Column {
	col := &schema.Column{
		Name:     d.Name,
		Type:     d.Info.Type,
		Unique:   d.Unique,
		Nullable: d.Optional,
		Size:     int64(d.Size),
		Comment:  d.Comment,
	}
	if d.StorageKey != "" {
		col.Name = d.StorageKey
	}
	// Function defaults such as time.Now are applied by the repositories.
	switch v := d.Default.(type) {
	case string, bool, int, int64, float64:
		col.Default = v
	}
	return col
}
