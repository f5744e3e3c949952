package cmd

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"groupstatus/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the active config in an editor.",
	Long: `Open the active groupstatus config file in your editor.

Editor selection order:
1) $VISUAL
2) $EDITOR
3) vi

If no config file exists yet, the example template is written first.
After the editor exits the file is validated, including the group roster
(numeric, unique group names), and the resulting roster and schema
overrides are printed.`,
	Example: `
  # Edit active config
  groupstatus config edit

  # Edit with a specific editor
  EDITOR="code --wait" groupstatus config edit
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, err := resolveConfigEditPath(cfgFile, viper.ConfigFileUsed())
		if err != nil {
			return err
		}
		editor := resolveEditorValue(os.Getenv("VISUAL"), os.Getenv("EDITOR"))
		return runConfigEdit(configPath, editor, editorIO{in: os.Stdin, out: os.Stdout, err: os.Stderr})
	},
}

type editorIO struct {
	in  io.Reader
	out io.Writer
	err io.Writer
}

// runConfigEdit opens configPath in editor and reports the validated roster.
// The file is left as edited when validation fails.
func runConfigEdit(configPath, editor string, stdio editorIO) error {
	created, err := ensureConfigFileWithTemplate(configPath)
	if err != nil {
		return err
	}
	if created {
		fmt.Fprintf(stdio.out, "No config file found. Created example config at: %s\n", configPath)
	}

	editorCommand, err := buildEditorCommand(editor, configPath)
	if err != nil {
		return err
	}
	editorCommand.Stdin = stdio.in
	editorCommand.Stdout = stdio.out
	editorCommand.Stderr = stdio.err
	if err := editorCommand.Run(); err != nil {
		return fmt.Errorf("opening editor failed: %w", err)
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("reading edited config failed: %w", err)
	}
	cfg, err := config.ValidateYAMLContent(content)
	if err != nil {
		return fmt.Errorf("config validation failed in %s: %w", configPath, err)
	}

	fmt.Fprintf(stdio.out, "Configuration saved and validated: %s\n", configPath)
	writeConfigSummary(stdio.out, cfg)
	return nil
}

func resolveConfigEditPath(configFileFlag, configFileUsed string) (string, error) {
	if strings.TrimSpace(configFileFlag) != "" {
		return configFileFlag, nil
	}
	if strings.TrimSpace(configFileUsed) != "" {
		return configFileUsed, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".groupstatus.yaml"), nil
}

// ensureConfigFileWithTemplate writes ExampleYAML to path unless a file exists.
func ensureConfigFileWithTemplate(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("checking config file failed: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("creating config directory failed: %w", err)
	}
	if err := os.WriteFile(path, []byte(config.ExampleYAML()), 0o600); err != nil {
		return false, fmt.Errorf("creating example config failed: %w", err)
	}
	return true, nil
}

func resolveEditorValue(visual, editor string) string {
	for _, candidate := range []string{visual, editor} {
		if strings.TrimSpace(candidate) != "" {
			return candidate
		}
	}
	return "vi"
}

func buildEditorCommand(editorValue, configPath string) (*exec.Cmd, error) {
	fields := strings.Fields(editorValue)
	if len(fields) == 0 {
		return nil, fmt.Errorf("editor command is empty")
	}
	return exec.Command(fields[0], append(fields[1:], configPath)...), nil
}

// writeConfigSummary prints one line per group with its database and
// members, followed by the schema names that differ from the defaults.
func writeConfigSummary(out io.Writer, cfg *config.Config) {
	fmt.Fprintf(out, "Groups: %d\n", len(cfg.Groups))
	for _, group := range cfg.Groups {
		g := group.Group()
		members := "(no members)"
		if len(g.Members) > 0 {
			members = strings.Join(g.Members, ", ")
		}
		fmt.Fprintf(out, "  %s [%s]: %s\n", g.Name, g.ID, members)
	}

	overrides := schemaOverrides(cfg.Schema)
	if len(overrides) == 0 {
		fmt.Fprintln(out, "Schema: defaults")
		return
	}
	fmt.Fprintln(out, "Schema overrides:")
	for _, line := range overrides {
		fmt.Fprintf(out, "  %s\n", line)
	}
}

func schemaOverrides(s config.SchemaConfig) []string {
	d := schemaFromConfig(config.SchemaConfig{})
	fields := []struct {
		key, value, fallback string
	}{
		{"date_property", s.DateProperty, d.DateProperty},
		{"project_type_property", s.ProjectTypeProperty, d.ProjectTypeProperty},
		{"excluded_project_type", s.ExcludedProjectType, d.ExcludedProjectType},
		{"assignee_property", s.AssigneeProperty, d.AssigneeProperty},
		{"status_property", s.StatusProperty, d.StatusProperty},
		{"result_property", s.ResultProperty, d.ResultProperty},
		{"solution_property", s.SolutionProperty, d.SolutionProperty},
		{"issue_property", s.IssueProperty, d.IssueProperty},
		{"title_property", s.TitleProperty, d.TitleProperty},
		{"unassigned_name", s.UnassignedName, d.UnassignedName},
	}

	var lines []string
	for _, field := range fields {
		value := strings.TrimSpace(field.value)
		if value == "" || value == field.fallback {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s", field.key, value))
	}
	return lines
}

func init() {
	configCmd.AddCommand(configEditCmd)
}
