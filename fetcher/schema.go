package fetcher

// Schema names the Notion database properties read by the fetcher. Names
// must match the remote database verbatim.
type Schema struct {
	DateProperty        string
	ProjectTypeProperty string
	ExcludedProjectType string
	AssigneeProperty    string
	StatusProperty      string
	ResultProperty      string
	SolutionProperty    string
	IssueProperty       string
	TitleProperty       string
	// UnassignedName stands in for the person of a page without assignees
	// and for assignees whose name is empty.
	UnassignedName string
}

// DefaultSchema returns the property names of the team work-log databases.
func DefaultSchema() Schema {
	return Schema{
		DateProperty:        "작업날짜",
		ProjectTypeProperty: "프로젝트 유형",
		ExcludedProjectType: "미니플젝",
		AssigneeProperty:    "담당자",
		StatusProperty:      "작업상태",
		ResultProperty:      "결과",
		SolutionProperty:    "해결방법",
		IssueProperty:       "문제/이슈",
		TitleProperty:       "작업명",
		UnassignedName:      "(unassigned)",
	}
}

// WithDefaults fills every empty field from DefaultSchema.
func (s Schema) WithDefaults() Schema {
	d := DefaultSchema()
	fill := func(value *string, fallback string) {
		if *value == "" {
			*value = fallback
		}
	}
	fill(&s.DateProperty, d.DateProperty)
	fill(&s.ProjectTypeProperty, d.ProjectTypeProperty)
	fill(&s.ExcludedProjectType, d.ExcludedProjectType)
	fill(&s.AssigneeProperty, d.AssigneeProperty)
	fill(&s.StatusProperty, d.StatusProperty)
	fill(&s.ResultProperty, d.ResultProperty)
	fill(&s.SolutionProperty, d.SolutionProperty)
	fill(&s.IssueProperty, d.IssueProperty)
	fill(&s.TitleProperty, d.TitleProperty)
	fill(&s.UnassignedName, d.UnassignedName)
	return s
}
