package notion

import "strings"

// DatabaseQuery selects pages of one database. Filter nil queries all pages.
type DatabaseQuery struct {
	DatabaseID  string
	Filter      *Filter
	StartCursor string
	PageSize    int
}

type QueryResult struct {
	Results    []Page
	HasMore    bool
	NextCursor string
}

type Page struct {
	ID         string
	URL        string
	Properties map[string]Property
}

// Property holds one page property value. Only the field matching Type is
// set; Date, Status and Select stay nil when the property is empty.
type Property struct {
	Type     string
	People   []User
	Status   *Option
	Select   *Option
	Date     *DateValue
	RichText []RichText
	Title    []RichText
}

type User struct {
	ID   string
	Name string
}

type Option struct {
	Name string
}

// DateValue keeps a date property as text: YYYY-MM-DD for all-day values,
// RFC 3339 otherwise. End is empty for single dates.
type DateValue struct {
	Start string
	End   string
}

type RichText struct {
	PlainText string
	Href      string
}

// PlainText joins the plain text of all segments with newlines.
func PlainText(segments []RichText) string {
	parts := make([]string, 0, len(segments))
	for _, segment := range segments {
		parts = append(parts, segment.PlainText)
	}
	return strings.Join(parts, "\n")
}
