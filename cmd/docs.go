package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/docchat/internal/store"
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "List recently uploaded documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		d, err := loadDeps(cmd, false)
		if err != nil {
			return err
		}
		defer d.Close()

		docs, err := d.store.DocumentRepo().Recent(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("list documents: %w", err)
		}
		if len(docs) == 0 {
			fmt.Println("No documents uploaded yet.")
			return nil
		}

		fmt.Printf("%-5s  %-19s  %-36s  %7s  %8s\n", "ID", "Uploaded", "Filename", "Words", "Chars")
		fmt.Println(strings.Repeat("─", 84))
		for _, doc := range docs {
			fmt.Printf("%-5d  %-19s  %-36s  %7d  %8d\n",
				doc.ID,
				doc.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				truncate(doc.Filename, 36),
				doc.WordCount,
				doc.CharacterCount,
			)
		}
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history <doc-id>",
	Short: "Show the questions asked and quizzes taken for a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid document ID %q: %w", args[0], err)
		}
		limit, _ := cmd.Flags().GetInt("limit")

		d, err := loadDeps(cmd, false)
		if err != nil {
			return err
		}
		defer d.Close()

		ctx := cmd.Context()
		doc, err := d.store.DocumentRepo().Get(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("document %d not found", id)
		}
		if err != nil {
			return fmt.Errorf("get document: %w", err)
		}

		repo := d.store.HistoryRepo()
		pairs, err := repo.QAHistory(ctx, id, limit)
		if err != nil {
			return fmt.Errorf("query Q&A history: %w", err)
		}
		quizzes, err := repo.QuizHistory(ctx, id, limit)
		if err != nil {
			return fmt.Errorf("query quiz history: %w", err)
		}

		sep := strings.Repeat("─", 60)
		fmt.Printf("Document:  %s (#%d)\n", doc.Filename, doc.ID)
		fmt.Printf("Uploaded:  %s\n", doc.CreatedAt.Local().Format("2006-01-02 15:04:05"))
		fmt.Printf("Size:      %d words / %d characters\n", doc.WordCount, doc.CharacterCount)
		fmt.Println()
		fmt.Println(doc.Summary)

		fmt.Println()
		fmt.Println(sep)
		heading.Println("QUESTIONS")
		fmt.Println(sep)
		if len(pairs) == 0 {
			faint.Println("(none)")
		}
		for _, p := range pairs {
			fmt.Printf("[%s] Q: %s\n", p.CreatedAt.Local().Format("2006-01-02 15:04"), p.Question)
			fmt.Printf("A: %s\n\n", p.Answer)
		}

		fmt.Println(sep)
		heading.Println("QUIZZES")
		fmt.Println(sep)
		if len(quizzes) == 0 {
			faint.Println("(none)")
		}
		for _, q := range quizzes {
			status := "in progress"
			if q.Completed {
				status = "completed"
			}
			fmt.Printf("Quiz #%d  %s  %d questions, %s\n",
				q.ID, q.CreatedAt.Local().Format("2006-01-02 15:04"), q.TotalQuestions, status)
			for _, a := range q.Answers {
				fmt.Printf("  %d. %s\n", a.QuestionNumber, a.Question)
				fmt.Printf("     Your answer: %s\n", a.UserAnswer)
				fmt.Printf("     Reference:   %s\n", a.CorrectAnswer)
				fmt.Printf("     Feedback:    %s\n", faint.Sprint(a.Feedback))
			}
			fmt.Println()
		}
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show how many documents, Q&A sessions and quizzes are stored",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := loadDeps(cmd, false)
		if err != nil {
			return err
		}
		defer d.Close()

		st, err := d.store.HistoryRepo().Stats(cmd.Context())
		if err != nil {
			return fmt.Errorf("query stats: %w", err)
		}
		fmt.Printf("Documents:      %d\n", st.Documents)
		fmt.Printf("Q&A sessions:   %d\n", st.QASessions)
		fmt.Printf("Quiz sessions:  %d\n", st.QuizSessions)
		return nil
	},
}

func init() {
	docsCmd.Flags().IntP("limit", "n", store.DefaultRecentLimit, "Number of documents to show")
	historyCmd.Flags().IntP("limit", "n", store.DefaultQAHistoryLimit, "Number of questions and quizzes to show")
}
