package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"reviewdash/config"
	"reviewdash/storage"

	"github.com/spf13/cobra"
)

var (
	deleteDBPath string
	deleteYes    bool
)

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete every work entry stored in the SQLite snapshot",
	Long: `Destructive snapshot cleanup command.

Removes all stored work entries but keeps the database file and its schema,
so a later "reviewdash import" starts from an empty snapshot.
Before deletion, an interactive prompt requires typing exactly "Y" unless --yes is set.`,
	Example: `
  # Clear the snapshot (requires interactive confirmation)
  reviewdash delete --db ./reviewdash.db

  # Non-interactive, e.g. in scripts
  reviewdash delete --yes
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}
		path := cfg.Storage.DBPath
		if strings.TrimSpace(deleteDBPath) != "" {
			path = strings.TrimSpace(deleteDBPath)
		}

		if !deleteYes {
			confirmed, err := confirmDeletePrompt(cmd.InOrStdin(), cmd.OutOrStdout(), path)
			if err != nil {
				return err
			}
			if !confirmed {
				return fmt.Errorf("delete aborted: confirmation was not 'Y'")
			}
		}
		return runDelete(cmd.OutOrStdout(), path)
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)

	deleteCmd.Flags().StringVar(&deleteDBPath, "db", "", "Path to local SQLite snapshot (default from config: reviewdash.db)")
	deleteCmd.Flags().BoolVar(&deleteYes, "yes", false, "Skip the confirmation prompt")
}

func confirmDeletePrompt(input io.Reader, output io.Writer, path string) (bool, error) {
	if input == nil {
		return false, fmt.Errorf("delete confirmation input is not available")
	}
	if output == nil {
		output = io.Discard
	}

	if _, err := fmt.Fprintf(output, "Delete all entries stored in %q? Type Y to confirm: ", path); err != nil {
		return false, fmt.Errorf("write delete confirmation prompt: %w", err)
	}

	line, err := bufio.NewReader(input).ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			return strings.TrimSpace(line) == "Y", nil
		}
		return false, fmt.Errorf("read delete confirmation: %w", err)
	}
	return strings.TrimSpace(line) == "Y", nil
}

// runDelete clears the snapshot. A missing database is an error rather than
// a silently created empty file.
func runDelete(out io.Writer, dbPath string) error {
	info, err := os.Stat(dbPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("sqlite snapshot not found: %s", dbPath)
		}
		return fmt.Errorf("check sqlite snapshot: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("sqlite snapshot path is a directory: %s", dbPath)
	}

	store, err := storage.OpenSQLite(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	deleted, err := store.DeleteAllEntries()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Deleted %d entries from %s\n", deleted, dbPath)
	return nil
}
