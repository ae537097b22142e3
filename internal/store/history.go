package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// historyRepo implements HistoryRepo with ent's SQL builder.
type historyRepo struct {
	drv dialect.Driver
}

func (r *historyRepo) SaveQASession(ctx context.Context, docID int, sessionID string, pairs []QAPair) (int, error) {
	var qaID int
	err := withTx(ctx, r.drv, func(tx dialect.Tx) error {
		now := time.Now().UTC()
		id, err := insertReturningID(ctx, tx, entsql.Dialect(dialect.SQLite).
			Insert(TableQASessions).
			Columns("document_id", "session_id", "created_at").
			Values(docID, sessionID, now))
		if err != nil {
			return fmt.Errorf("insert qa session: %w", err)
		}
		qaID = id

		for i, p := range pairs {
			createdAt := p.CreatedAt
			if createdAt.IsZero() {
				createdAt = now
			}
			query, args := entsql.Dialect(dialect.SQLite).
				Insert(TableQAPairs).
				Columns("qa_session_id", "question", "answer", "created_at").
				Values(qaID, p.Question, p.Answer, createdAt.UTC()).
				Query()
			if err := tx.Exec(ctx, query, args, nil); err != nil {
				return fmt.Errorf("insert qa pair %d: %w", i+1, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("save qa session: %w", err)
	}
	return qaID, nil
}

func (r *historyRepo) SaveQuizSession(ctx context.Context, docID int, sessionID string, rec QuizRecord) (int, error) {
	var quizID int
	err := withTx(ctx, r.drv, func(tx dialect.Tx) error {
		now := time.Now().UTC()
		var completedAt *time.Time
		if rec.Completed {
			completedAt = &now
		}

		id, err := insertReturningID(ctx, tx, entsql.Dialect(dialect.SQLite).
			Insert(TableQuizSessions).
			Columns("document_id", "session_id", "total_questions", "completed", "created_at", "completed_at").
			Values(docID, sessionID, rec.TotalQuestions, rec.Completed, now, completedAt))
		if err != nil {
			return fmt.Errorf("insert quiz session: %w", err)
		}
		quizID = id

		for i, a := range rec.Answers {
			query, args := entsql.Dialect(dialect.SQLite).
				Insert(TableQuizAnswers).
				Columns("quiz_session_id", "question_number", "question",
					"user_answer", "correct_answer", "ai_feedback", "created_at").
				Values(quizID, i+1, a.Question, a.UserAnswer, a.CorrectAnswer, a.Feedback, now).
				Query()
			if err := tx.Exec(ctx, query, args, nil); err != nil {
				return fmt.Errorf("insert quiz answer %d: %w", i+1, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("save quiz session: %w", err)
	}
	return quizID, nil
}

func (r *historyRepo) QAHistory(ctx context.Context, docID int, limit int) ([]QAPair, error) {
	if limit <= 0 {
		limit = DefaultQAHistoryLimit
	}

	b := entsql.Dialect(dialect.SQLite)
	pairs := b.Table(TableQAPairs)
	sessions := b.Table(TableQASessions)
	query, args := b.Select(
		entsql.As(pairs.C("question"), "question"),
		entsql.As(pairs.C("answer"), "answer"),
		entsql.As(pairs.C("created_at"), "created_at"),
	).
		From(pairs).
		Join(sessions).On(pairs.C("qa_session_id"), sessions.C("id")).
		Where(entsql.EQ(sessions.C("document_id"), docID)).
		OrderBy(entsql.Desc(pairs.C("created_at")), entsql.Desc(pairs.C("id"))).
		Limit(limit).
		Query()

	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("qa history: %w", err)
	}
	defer rows.Close()

	var out []QAPair
	if err := entsql.ScanSlice(rows, &out); err != nil {
		return nil, fmt.Errorf("qa history: %w", err)
	}
	return out, nil
}

// quizSessionRow is the scan target for quiz_sessions.
type quizSessionRow struct {
	ID             int        `sql:"id"`
	SessionID      string     `sql:"session_id"`
	TotalQuestions int        `sql:"total_questions"`
	Completed      bool       `sql:"completed"`
	CreatedAt      time.Time  `sql:"created_at"`
	CompletedAt    *time.Time `sql:"completed_at"`
}

func (r *historyRepo) QuizHistory(ctx context.Context, docID int, limit int) ([]QuizSession, error) {
	if limit <= 0 {
		limit = DefaultQuizHistoryLimit
	}

	b := entsql.Dialect(dialect.SQLite)
	query, args := b.Select("id", "session_id", "total_questions", "completed", "created_at", "completed_at").
		From(b.Table(TableQuizSessions)).
		Where(entsql.EQ("document_id", docID)).
		OrderBy(entsql.Desc("created_at"), entsql.Desc("id")).
		Limit(limit).
		Query()

	var sessions []quizSessionRow
	if err := scanAll(ctx, r.drv, query, args, &sessions); err != nil {
		return nil, fmt.Errorf("quiz history: %w", err)
	}

	out := make([]QuizSession, 0, len(sessions))
	for _, s := range sessions {
		answers, err := r.quizAnswers(ctx, s.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, QuizSession{
			ID:             s.ID,
			SessionID:      s.SessionID,
			TotalQuestions: s.TotalQuestions,
			Completed:      s.Completed,
			CreatedAt:      s.CreatedAt,
			CompletedAt:    s.CompletedAt,
			Answers:        answers,
		})
	}
	return out, nil
}

func (r *historyRepo) quizAnswers(ctx context.Context, quizID int) ([]QuizAnswer, error) {
	b := entsql.Dialect(dialect.SQLite)
	query, args := b.Select("question_number", "question", "user_answer", "correct_answer", "ai_feedback").
		From(b.Table(TableQuizAnswers)).
		Where(entsql.EQ("quiz_session_id", quizID)).
		OrderBy("question_number").
		Query()

	var answers []QuizAnswer
	if err := scanAll(ctx, r.drv, query, args, &answers); err != nil {
		return nil, fmt.Errorf("quiz answers for %d: %w", quizID, err)
	}
	return answers, nil
}

func (r *historyRepo) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	counts := []struct {
		table string
		dst   *int
	}{
		{TableDocuments, &st.Documents},
		{TableQASessions, &st.QASessions},
		{TableQuizSessions, &st.QuizSessions},
	}
	for _, c := range counts {
		n, err := countRows(ctx, r.drv, c.table)
		if err != nil {
			return Stats{}, fmt.Errorf("stats: %w", err)
		}
		*c.dst = n
	}
	return st, nil
}

func countRows(ctx context.Context, q dialect.ExecQuerier, table string) (int, error) {
	b := entsql.Dialect(dialect.SQLite)
	query, args := b.Select(entsql.Count("*")).From(b.Table(table)).Query()

	rows := &entsql.Rows{}
	if err := q.Query(ctx, query, args, rows); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	defer rows.Close()
	return entsql.ScanInt(rows)
}

// scanAll runs query and scans every row into dst, a pointer to a slice.
func scanAll(ctx context.Context, q dialect.ExecQuerier, query string, args []any, dst any) error {
	rows := &entsql.Rows{}
	if err := q.Query(ctx, query, args, rows); err != nil {
		return err
	}
	defer rows.Close()
	return entsql.ScanSlice(rows, dst)
}

// insertReturningID executes an insert and returns the new row id.
func insertReturningID(ctx context.Context, q dialect.ExecQuerier, ins *entsql.InsertBuilder) (int, error) {
	query, args := ins.Returning("id").Query()

	rows := &entsql.Rows{}
	if err := q.Query(ctx, query, args, rows); err != nil {
		return 0, err
	}
	defer rows.Close()
	return entsql.ScanInt(rows)
}

// withTx runs fn in a transaction, rolling back on any error.
func withTx(ctx context.Context, drv dialect.Driver, fn func(tx dialect.Tx) error) error {
	tx, err := drv.Tx(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rerr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
