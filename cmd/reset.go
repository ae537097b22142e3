package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/docchat/internal/config"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all stored documents, history and LLM events",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfgPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		dbPath, err := resolveDBPath(cmd, cfg)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}

		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			warnText.Printf("This deletes %s.\n", dbPath)
			fmt.Println("Re-run with --yes to confirm.")
			return nil
		}

		removed, err := removeDatabase(dbPath)
		if err != nil {
			return err
		}
		if !removed {
			fmt.Println("Nothing to reset.")
			return nil
		}
		fmt.Printf("Deleted %s\n", dbPath)
		return nil
	},
}

// removeDatabase deletes the SQLite file along with its WAL and shared
// memory siblings. It reports whether the main file existed.
func removeDatabase(path string) (bool, error) {
	removed := false
	for _, p := range []string{path, path + "-wal", path + "-shm"} {
		err := os.Remove(p)
		switch {
		case err == nil:
			if p == path {
				removed = true
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return removed, fmt.Errorf("remove %s: %w", p, err)
		}
	}
	return removed, nil
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm deletion")
}
