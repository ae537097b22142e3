package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abhisek/docchat/internal/extract"
	"github.com/abhisek/docchat/internal/session"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize <file>",
	Short: "Print a short summary of a PDF or text file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, id, closeFn, err := loadDocument(cmd, args[0])
		if err != nil {
			return err
		}
		defer closeFn()

		snap, err := svc.Get(id)
		if err != nil {
			return err
		}
		stats := extract.ComputeStats(snap.Document.Text)
		heading.Print(snap.Document.Name)
		faint.Printf("  (%d words, %d paragraphs)\n\n", stats.Words, stats.Paragraphs)
		fmt.Println(snap.Document.Summary)
		return nil
	},
}

var askCmd = &cobra.Command{
	Use:   "ask <file> <question>",
	Short: "Answer one question about a PDF or text file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, id, closeFn, err := loadDocument(cmd, args[0])
		if err != nil {
			return err
		}
		defer closeFn()

		if _, err := svc.EnterAsk(id); err != nil {
			return err
		}
		snap, err := svc.Ask(cmd.Context(), id, args[1])
		if err != nil {
			return err
		}
		fmt.Println(snap.Messages[len(snap.Messages)-1].Content)
		return nil
	},
}

// loadDocument reads path into a fresh chat the same way the TUI does, so
// one-shot commands share validation, extraction and persistence.
func loadDocument(cmd *cobra.Command, path string) (*session.Service, string, func(), error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", nil, fmt.Errorf("read %s: %w", path, err)
	}

	d, err := loadDeps(cmd, false)
	if err != nil {
		return nil, "", nil, err
	}
	gw, err := d.gateway(cmd)
	if err != nil {
		d.Close()
		return nil, "", nil, err
	}

	svc := session.NewService(session.NewRepository(), gw, session.Options{
		MaxUploadMB: d.cfg.Upload.MaxSizeMB,
		Documents:   d.store.DocumentRepo(),
		History:     d.store.HistoryRepo(),
		Logger:      d.log,
	})
	chat := svc.NewChat()
	if _, err := svc.Upload(cmd.Context(), chat.ID, filepath.Base(path), data); err != nil {
		d.Close()
		return nil, "", nil, err
	}
	return svc, chat.ID, d.Close, nil
}
