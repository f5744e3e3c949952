package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"groupstatus/config"
	"groupstatus/fetcher"
	"groupstatus/notion"
	"groupstatus/output"
	"groupstatus/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	fetchGroups []string
	fetchSince  string
	fetchFormat string
	fetchOutput string
	fetchDBPath string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch work-log status of the configured groups from Notion",
	Long: `Query the Notion work-log database of each selected group and print the result.

Without --since only entries dated today are selected. With --since YYYY-MM-DD
entries on or after that date are selected. Entries of the excluded project type
are skipped.

Each entry yields one row per assignee. Members without an entry get an empty row.
Rows are sorted by group number, then by person.

Output format can be selected explicitly via --format or inferred from --output extension.`,
	Example: `
  # Today's status of all groups as a table
  groupstatus fetch

  # Since a date, selected groups only
  groupstatus fetch --since 2025-07-28 --group 1 --group 2

  # Chat message to stdout
  groupstatus fetch --format message

  # Write Excel and store the run in SQLite
  groupstatus fetch --output ./status.xlsx --db ./groupstatus.db
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		apiKey, err := config.APIKey()
		if err != nil {
			return err
		}
		client, err := notion.NewClient(notion.ClientConfig{
			BaseURL:   cfg.Notion.BaseURL,
			Token:     apiKey,
			Version:   cfg.Notion.Version,
			Timeout:   time.Duration(cfg.Notion.TimeoutSeconds) * time.Second,
			UserAgent: "groupstatus",
		})
		if err != nil {
			return err
		}

		opts := fetchOptions{
			Groups: fetchGroups,
			Format: fetchFormat,
			Output: fetchOutput,
			DBPath: fetchDBPath,
		}
		if cmd.Flags().Changed("since") {
			since := fetchSince
			opts.Since = &since
		}
		return runFetch(cmd.Context(), client, *cfg, opts, os.Stdout)
	},
}

type fetchOptions struct {
	Groups []string
	Since  *string
	Format string
	Output string
	DBPath string
	Now    func() time.Time
}

func runFetch(ctx context.Context, client notion.Client, cfg config.Config, opts fetchOptions, stdout io.Writer) error {
	groups, err := cfg.GroupsByName(opts.Groups)
	if err != nil {
		return err
	}

	f, err := fetcher.New(client, fetcher.Options{
		Schema:      schemaFromConfig(cfg.Schema),
		Now:         opts.Now,
		Logger:      logger,
		Concurrency: cfg.Fetch.Concurrency,
	})
	if err != nil {
		return err
	}

	rows, err := f.FetchAll(ctx, groups, opts.Since)
	if err != nil {
		return err
	}

	format := resolveOutputFormat(opts.Format, opts.Output)
	writer, err := output.WriterForFormat(format, stdout)
	if err != nil {
		return err
	}
	if err := writer.Write(opts.Output, rows); err != nil {
		return err
	}
	if strings.TrimSpace(opts.Output) != "" {
		fmt.Fprintf(stdout, "Fetch completed. Groups: %d, Rows: %d, Format: %s, File: %s\n", len(groups), len(rows), format, opts.Output)
	}

	if strings.TrimSpace(opts.DBPath) == "" {
		return nil
	}
	store, err := storage.OpenSQLite(opts.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	run := storage.Run{}
	if opts.Since != nil {
		run.StartDate = *opts.Since
	}
	if opts.Now != nil {
		run.FetchedAt = opts.Now()
	}
	run, err = store.InsertRun(run, rows)
	if err != nil {
		return err
	}
	logger.Info("stored fetch run", zap.String("run_id", run.ID), zap.Int("rows", run.RowCount))
	fmt.Fprintf(stdout, "Run stored. ID: %s, Rows: %d, Database: %s\n", run.ID, run.RowCount, opts.DBPath)
	return nil
}

func schemaFromConfig(s config.SchemaConfig) fetcher.Schema {
	return fetcher.Schema{
		DateProperty:        strings.TrimSpace(s.DateProperty),
		ProjectTypeProperty: strings.TrimSpace(s.ProjectTypeProperty),
		ExcludedProjectType: strings.TrimSpace(s.ExcludedProjectType),
		AssigneeProperty:    strings.TrimSpace(s.AssigneeProperty),
		StatusProperty:      strings.TrimSpace(s.StatusProperty),
		ResultProperty:      strings.TrimSpace(s.ResultProperty),
		SolutionProperty:    strings.TrimSpace(s.SolutionProperty),
		IssueProperty:       strings.TrimSpace(s.IssueProperty),
		TitleProperty:       strings.TrimSpace(s.TitleProperty),
		UnassignedName:      strings.TrimSpace(s.UnassignedName),
	}.WithDefaults()
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringArrayVarP(&fetchGroups, "group", "g", nil, "Group name to fetch (repeatable, default: all configured groups)")
	fetchCmd.Flags().StringVarP(&fetchSince, "since", "s", "", "Select entries on or after this date (YYYY-MM-DD); default is today only")
	fetchCmd.Flags().StringVarP(&fetchFormat, "format", "f", "", "Output format: text|message|csv|excel (optional, inferred from output extension)")
	fetchCmd.Flags().StringVarP(&fetchOutput, "output", "o", "", "Output file path (default: stdout for text/message)")
	fetchCmd.Flags().StringVar(&fetchDBPath, "db", "", "Store the fetched rows as a run in this SQLite database")
}
