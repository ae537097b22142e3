package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/docchat/internal/extract"
)

var documentColumns = []string{
	"id", "filename", "content", "content_hash", "summary",
	"word_count", "character_count", "created_at", "updated_at",
}

// documentRepo implements DocumentRepo with ent's SQL builder.
type documentRepo struct {
	drv dialect.Driver
}

func (r *documentRepo) Save(ctx context.Context, in DocumentInput) (int, error) {
	hash := extract.Fingerprint(in.Content)

	id, err := r.idByHash(ctx, hash)
	if err != nil {
		return 0, err
	}
	if id > 0 {
		return id, nil
	}

	stats := extract.ComputeStats(in.Content)
	now := time.Now().UTC()
	id, err = insertReturningID(ctx, r.drv, entsql.Dialect(dialect.SQLite).
		Insert(TableDocuments).
		Columns("filename", "content", "content_hash", "summary",
			"word_count", "character_count", "created_at", "updated_at").
		Values(in.Filename, in.Content, hash, in.Summary,
			stats.Words, stats.Characters, now, now))
	if err != nil {
		return 0, fmt.Errorf("insert document: %w", err)
	}
	return id, nil
}

// idByHash returns the id of the document with the given hash, or 0.
func (r *documentRepo) idByHash(ctx context.Context, hash string) (int, error) {
	b := entsql.Dialect(dialect.SQLite)
	query, args := b.Select("id").
		From(b.Table(TableDocuments)).
		Where(entsql.EQ("content_hash", hash)).
		Limit(1).
		Query()

	var ids []int
	if err := scanAll(ctx, r.drv, query, args, &ids); err != nil {
		return 0, fmt.Errorf("lookup document hash: %w", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}
	return ids[0], nil
}

func (r *documentRepo) Get(ctx context.Context, id int) (*Document, error) {
	b := entsql.Dialect(dialect.SQLite)
	query, args := b.Select(documentColumns...).
		From(b.Table(TableDocuments)).
		Where(entsql.EQ("id", id)).
		Query()

	docs, err := r.query(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("get document %d: %w", id, err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("document %d: %w", id, ErrNotFound)
	}
	return &docs[0], nil
}

func (r *documentRepo) Recent(ctx context.Context, limit int) ([]Document, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	b := entsql.Dialect(dialect.SQLite)
	query, args := b.Select(documentColumns...).
		From(b.Table(TableDocuments)).
		OrderBy(entsql.Desc("created_at"), entsql.Desc("id")).
		Limit(limit).
		Query()

	docs, err := r.query(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("recent documents: %w", err)
	}
	return docs, nil
}

func (r *documentRepo) query(ctx context.Context, query string, args []any) ([]Document, error) {
	var docs []Document
	if err := scanAll(ctx, r.drv, query, args, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}
