package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/docchat/internal/app"
	"github.com/abhisek/docchat/internal/session"
)

var chatCmd = &cobra.Command{
	Use:   "chat [file]",
	Short: "Open the interactive chat, optionally loading a document",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runChat,
}

// runChat opens the store, builds dependencies, and launches the TUI.
func runChat(cmd *cobra.Command, args []string) error {
	d, err := loadDeps(cmd, true)
	if err != nil {
		return err
	}
	defer d.Close()

	gw, err := d.gateway(cmd)
	if err != nil {
		return err
	}

	docs := d.store.DocumentRepo()
	history := d.store.HistoryRepo()
	svc := session.NewService(session.NewRepository(), gw, session.Options{
		MaxUploadMB: d.cfg.Upload.MaxSizeMB,
		Documents:   docs,
		History:     history,
		Logger:      d.log,
	})

	opts := app.Options{
		Sessions:  svc,
		Documents: docs,
		History:   history,
	}
	if len(args) == 1 {
		opts.Preload = args[0]
	}
	return app.Run(opts)
}
