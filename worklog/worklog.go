package worklog

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrNonNumericGroup is returned when rows are sorted by a group label that
// is not an integer.
var ErrNonNumericGroup = errors.New("group label is not numeric")

// Group is a work team backed by one Notion database and a roster of
// expected member names.
type Group struct {
	ID      string
	Name    string
	Members []string
}

// Row is the normalized per-person work-log record handed to report writers.
type Row struct {
	Group    string
	Person   string
	WorkDate string
	Title    string
	Issue    string
	Solution string
	Result   string
}

// Headers lists the column names in the order returned by Row.Fields.
var Headers = []string{"Group", "Person", "WorkDate", "Title", "Issue", "Solution", "Result"}

func (r Row) Fields() []string {
	return []string{r.Group, r.Person, r.WorkDate, r.Title, r.Issue, r.Solution, r.Result}
}

// Keys lists the dictionary keys used by Row.Map, in column order.
var Keys = []string{"group", "person", "work_date", "title", "issue", "solution", "result_text"}

// Map returns the row keyed by Keys.
func (r Row) Map() map[string]string {
	fields := r.Fields()
	out := make(map[string]string, len(Keys))
	for i, key := range Keys {
		out[key] = fields[i]
	}
	return out
}

// IsPlaceholder reports whether the row carries nothing but group and person.
func (r Row) IsPlaceholder() bool {
	return r.WorkDate == "" && r.Title == "" && r.Issue == "" && r.Solution == "" && r.Result == ""
}

// Backfill appends one placeholder row for every member of group that has no
// row yet. The set of present names is taken before appending, so a roster
// listing a name twice yields two placeholders.
func Backfill(group Group, rows []Row) []Row {
	present := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		present[row.Person] = struct{}{}
	}
	for _, member := range group.Members {
		if _, ok := present[member]; ok {
			continue
		}
		rows = append(rows, Row{Group: group.Name, Person: member})
	}
	return rows
}

// SortRows orders rows by numeric group label, then person name. The sort is
// stable so rows of one person keep their query order.
func SortRows(rows []Row) error {
	keys := make(map[string]int, 4)
	for _, row := range rows {
		if _, ok := keys[row.Group]; ok {
			continue
		}
		value, err := GroupNumber(row.Group)
		if err != nil {
			return err
		}
		keys[row.Group] = value
	}

	sort.SliceStable(rows, func(i, j int) bool {
		gi, gj := keys[rows[i].Group], keys[rows[j].Group]
		if gi != gj {
			return gi < gj
		}
		return rows[i].Person < rows[j].Person
	})
	return nil
}

// GroupNumber parses a group label as used for ordering.
func GroupNumber(label string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(label))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNonNumericGroup, label)
	}
	return value, nil
}
