package config

import (
	"bytes"
	"fmt"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"groupstatus/worklog"
	"strings"
)

const (
	KeyNotionBaseURL        = "notion.base_url"
	KeyNotionVersion        = "notion.version"
	KeyNotionTimeoutSeconds = "notion.timeout_seconds"
	KeyFetchConcurrency     = "fetch.concurrency"
	KeyStorageDBPath        = "storage.db_path"
	KeyGroups               = "groups"
)

type Config struct {
	Notion  NotionConfig  `mapstructure:"notion" validate:"required"`
	Schema  SchemaConfig  `mapstructure:"schema"`
	Fetch   FetchConfig   `mapstructure:"fetch"`
	Storage StorageConfig `mapstructure:"storage"`
	Groups  []GroupConfig `mapstructure:"groups" validate:"required,min=1,dive"`
}

type NotionConfig struct {
	BaseURL        string `mapstructure:"base_url" validate:"required,url"`
	Version        string `mapstructure:"version" validate:"required"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"gte=1,lte=300"`
}

// SchemaConfig overrides Notion property names. Empty values fall back to the
// built-in names of the team work-log template.
type SchemaConfig struct {
	DateProperty        string `mapstructure:"date_property"`
	ProjectTypeProperty string `mapstructure:"project_type_property"`
	ExcludedProjectType string `mapstructure:"excluded_project_type"`
	AssigneeProperty    string `mapstructure:"assignee_property"`
	StatusProperty      string `mapstructure:"status_property"`
	ResultProperty      string `mapstructure:"result_property"`
	SolutionProperty    string `mapstructure:"solution_property"`
	IssueProperty       string `mapstructure:"issue_property"`
	TitleProperty       string `mapstructure:"title_property"`
	UnassignedName      string `mapstructure:"unassigned_name"`
}

type FetchConfig struct {
	Concurrency int `mapstructure:"concurrency" validate:"gte=1,lte=32"`
}

type StorageConfig struct {
	DBPath string `mapstructure:"db_path"`
}

type GroupConfig struct {
	ID      string   `mapstructure:"id" validate:"required"`
	Name    string   `mapstructure:"name" validate:"required"`
	Members []string `mapstructure:"members" validate:"dive,required"`
}

func (g GroupConfig) Group() worklog.Group {
	members := make([]string, 0, len(g.Members))
	for _, member := range g.Members {
		members = append(members, strings.TrimSpace(member))
	}
	return worklog.Group{
		ID:      strings.TrimSpace(g.ID),
		Name:    strings.TrimSpace(g.Name),
		Members: members,
	}
}

// GroupsByName returns the configured groups in file order, limited to names
// when any are given. Unknown names are an error.
func (c Config) GroupsByName(names []string) ([]worklog.Group, error) {
	if len(names) == 0 {
		groups := make([]worklog.Group, 0, len(c.Groups))
		for _, group := range c.Groups {
			groups = append(groups, group.Group())
		}
		return groups, nil
	}

	byName := make(map[string]worklog.Group, len(c.Groups))
	for _, group := range c.Groups {
		g := group.Group()
		byName[g.Name] = g
	}
	groups := make([]worklog.Group, 0, len(names))
	for _, name := range names {
		g, ok := byName[strings.TrimSpace(name)]
		if !ok {
			return nil, fmt.Errorf("group %q is not configured", name)
		}
		groups = append(groups, g)
	}
	return groups, nil
}

// SetDefaults sets default values if not provided
func SetDefaults() {
	setDefaults(viper.GetViper())
}

// LoadAndValidate loads config from Viper and validates it
func LoadAndValidate() (*Config, error) {
	return loadAndValidateFromViper(viper.GetViper())
}

// ValidateYAMLContent validates configuration from raw YAML content.
func ValidateYAMLContent(content []byte) (*Config, error) {
	local := viper.New()
	setDefaults(local)
	local.SetConfigType("yaml")
	if err := local.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("read config content: %w", err)
	}
	return loadAndValidateFromViper(local)
}

// ExampleYAML returns the default configuration template.
func ExampleYAML() string {
	return `# groupstatus configuration
# The Notion API key is read from NOTION_API_KEY (environment or .env file).
notion:
  base_url: "https://api.notion.com"
  version: "2022-06-28"
  timeout_seconds: 30

# Property names of the work-log databases. Leave empty to use the defaults.
schema:
  date_property: ""
  project_type_property: ""
  excluded_project_type: ""
  assignee_property: ""
  status_property: ""
  result_property: ""
  solution_property: ""
  issue_property: ""
  title_property: ""
  unassigned_name: "(담당자 없음)"

fetch:
  concurrency: 4

storage:
  db_path: "./groupstatus.db"

groups:
  - id: "00000000000000000000000000000000"
    name: "1"
    members: []
`
}

func loadAndValidateFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := validateGroups(cfg.Groups); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyNotionBaseURL, "https://api.notion.com")
	v.SetDefault(KeyNotionVersion, "2022-06-28")
	v.SetDefault(KeyNotionTimeoutSeconds, 30)
	v.SetDefault(KeyFetchConcurrency, 4)
	v.SetDefault(KeyStorageDBPath, "./groupstatus.db")
	v.SetDefault(KeyGroups, []map[string]any{})
}

func validateGroups(groups []GroupConfig) error {
	seen := make(map[string]struct{}, len(groups))
	for i, group := range groups {
		name := strings.TrimSpace(group.Name)
		if _, err := worklog.GroupNumber(name); err != nil {
			return fmt.Errorf("validation failed: groups[%d].name %q must be an integer label", i, group.Name)
		}
		if _, exists := seen[name]; exists {
			return fmt.Errorf("validation failed: duplicate group name %q", name)
		}
		seen[name] = struct{}{}
		if strings.TrimSpace(group.ID) == "" {
			return fmt.Errorf("validation failed: groups[%d].id is required", i)
		}
		for j, member := range group.Members {
			if strings.TrimSpace(member) == "" {
				return fmt.Errorf("validation failed: groups[%d].members[%d] is empty", i, j)
			}
		}
	}
	return nil
}
