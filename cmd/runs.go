package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"groupstatus/storage"

	"github.com/spf13/cobra"
)

var (
	runsDBPath string
)

var (
	deletePromptInput  io.Reader = os.Stdin
	deletePromptOutput io.Writer = os.Stdout
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect and delete fetch runs stored in SQLite",
	Long: `List and delete the fetch runs stored by "fetch --db".

Destructive subcommands ask for confirmation; type exactly "Y" to proceed.`,
	Example: `
  # List stored runs, newest first
  groupstatus runs list

  # Delete one run
  groupstatus runs delete 6f1c0c1e-7f55-4a6b-9e0b-0d9f4f8f4b11

  # Delete the complete SQLite file
  groupstatus runs purge --db ./groupstatus.db
`,
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored runs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := storage.OpenSQLite(resolveDBPath(runsDBPath))
		if err != nil {
			return err
		}
		defer store.Close()

		runs, err := store.ListRuns()
		if err != nil {
			return err
		}
		return printRuns(os.Stdout, runs)
	},
}

var runsDeleteCmd = &cobra.Command{
	Use:   "delete RUN_ID",
	Short: "Delete one stored run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runID := strings.TrimSpace(args[0])
		confirmed, err := confirmDeletePrompt(deletePromptInput, deletePromptOutput, fmt.Sprintf("run %q", runID))
		if err != nil {
			return err
		}
		if !confirmed {
			return fmt.Errorf("delete aborted: confirmation was not 'Y'")
		}

		store, err := storage.OpenSQLite(resolveDBPath(runsDBPath))
		if err != nil {
			return err
		}
		defer store.Close()

		deleted, err := store.DeleteRun(runID)
		if err != nil {
			return err
		}
		if !deleted {
			return fmt.Errorf("%w: %s", storage.ErrRunNotFound, runID)
		}
		fmt.Printf("Deleted run: %s\n", runID)
		return nil
	},
}

var runsPurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete the complete SQLite database file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := resolveDBPath(runsDBPath)
		confirmed, err := confirmDeletePrompt(deletePromptInput, deletePromptOutput, fmt.Sprintf("database file %q", path))
		if err != nil {
			return err
		}
		if !confirmed {
			return fmt.Errorf("delete aborted: confirmation was not 'Y'")
		}

		if err := removeDatabaseFile(path); err != nil {
			return err
		}
		fmt.Printf("Deleted database file: %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(runsListCmd, runsDeleteCmd, runsPurgeCmd)

	runsCmd.PersistentFlags().StringVar(&runsDBPath, "db", "", "Path to local SQLite database (default: storage.db_path from config)")
}

func printRuns(out io.Writer, runs []storage.Run) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(out, "No stored runs.")
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tFetchedAt\tSince\tRows")
	for _, run := range runs {
		since := run.StartDate
		if since == "" {
			since = "(today)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", run.ID, run.FetchedAt.Local().Format(time.DateTime), since, run.RowCount)
	}
	return tw.Flush()
}

func confirmDeletePrompt(input io.Reader, output io.Writer, subject string) (bool, error) {
	if input == nil {
		return false, fmt.Errorf("delete confirmation input is not available")
	}

	if output == nil {
		output = io.Discard
	}

	if _, err := fmt.Fprintf(output, "Delete %s? Type Y to confirm: ", subject); err != nil {
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

func removeDatabaseFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("database file not found: %s", path)
		}
		return fmt.Errorf("stat database file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("database path is a directory: %s", path)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("delete database file: %w", err)
	}
	return nil
}
