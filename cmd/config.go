package cmd

import "github.com/spf13/cobra"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage groupstatus configuration file values.",
	Long: `Create, edit, display, and delete the groupstatus configuration file.

The configuration stores application-wide values and the group roster:
- notion.base_url / notion.version / notion.timeout_seconds
- schema.* Notion property names (empty values use the built-in names)
- fetch.concurrency / storage.db_path
- groups[].id (Notion database ID) / name (group number) / members[]

The Notion API key is never stored here; set NOTION_API_KEY in the environment or .env file.`,
	Example: `
  # Create default config in $HOME/.groupstatus.yaml
  groupstatus config create

  # Show active config and source file
  groupstatus config show

  # Open active config in editor (creates example if missing)
  groupstatus config edit

  # Delete active config file
  groupstatus config delete
`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
