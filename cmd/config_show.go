package cmd

import (
	"fmt"
	"github.com/spf13/viper"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"groupstatus/config"
)

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show active configuration values.",
	Long: `Display the currently loaded configuration and the resolved config file path.

This command validates the configuration before printing values.
The Notion API key is shown masked.`,
	Example: `
  # Show active configuration
  groupstatus config show
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			fmt.Println("Invalid config:", err)
			return
		}

		if configPath := viper.ConfigFileUsed(); configPath != "" {
			fmt.Println("Config file loaded from:", configPath)
			printConfig(os.Stdout, cfg, os.Getenv(config.EnvAPIKey))
		}
	},
}

func printConfig(out io.Writer, cfg *config.Config, apiKey string) {
	schema := schemaFromConfig(cfg.Schema)

	fmt.Fprintln(out, "Configuration:")
	fmt.Fprintf(out, "notion.base_url: %s\n", cfg.Notion.BaseURL)
	fmt.Fprintf(out, "notion.version: %s\n", cfg.Notion.Version)
	fmt.Fprintf(out, "notion.timeout_seconds: %d\n", cfg.Notion.TimeoutSeconds)
	fmt.Fprintf(out, "notion.api_key: %s\n", maskSecret(apiKey))
	fmt.Fprintf(out, "schema.date_property: %s\n", schema.DateProperty)
	fmt.Fprintf(out, "schema.project_type_property: %s\n", schema.ProjectTypeProperty)
	fmt.Fprintf(out, "schema.excluded_project_type: %s\n", schema.ExcludedProjectType)
	fmt.Fprintf(out, "schema.assignee_property: %s\n", schema.AssigneeProperty)
	fmt.Fprintf(out, "schema.status_property: %s\n", schema.StatusProperty)
	fmt.Fprintf(out, "schema.result_property: %s\n", schema.ResultProperty)
	fmt.Fprintf(out, "schema.solution_property: %s\n", schema.SolutionProperty)
	fmt.Fprintf(out, "schema.issue_property: %s\n", schema.IssueProperty)
	fmt.Fprintf(out, "schema.title_property: %s\n", schema.TitleProperty)
	fmt.Fprintf(out, "schema.unassigned_name: %s\n", schema.UnassignedName)
	fmt.Fprintf(out, "fetch.concurrency: %d\n", cfg.Fetch.Concurrency)
	fmt.Fprintf(out, "storage.db_path: %s\n", cfg.Storage.DBPath)
	fmt.Fprintf(out, "groups: %d\n", len(cfg.Groups))
	for i, group := range cfg.Groups {
		fmt.Fprintf(out, "groups[%d].name: %s\n", i, group.Name)
		fmt.Fprintf(out, "groups[%d].id: %s\n", i, group.ID)
		fmt.Fprintf(out, "groups[%d].members: %s\n", i, strings.Join(group.Members, ", "))
	}
}

func maskSecret(value string) string {
	value = strings.TrimSpace(value)
	switch {
	case value == "":
		return "(not set)"
	case len(value) > 8:
		return value[:4] + "..." + value[len(value)-4:]
	default:
		return "****"
	}
}

func init() {
	configCmd.AddCommand(configShowCmd)
}
