package worklog

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBackfill_AddsPlaceholderForSilentMembers(t *testing.T) {
	t.Parallel()

	group := Group{ID: "db", Name: "3", Members: []string{"Alice", "Bob", "Carol"}}
	rows := []Row{{Group: "3", Person: "Bob", Title: "deploy"}}

	got := Backfill(group, rows)
	want := []Row{
		{Group: "3", Person: "Bob", Title: "deploy"},
		{Group: "3", Person: "Alice"},
		{Group: "3", Person: "Carol"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected rows (-want +got):\n%s", diff)
	}
}

func TestBackfill_IgnoresNonMembersAlreadyPresent(t *testing.T) {
	t.Parallel()

	group := Group{Name: "1", Members: []string{"Alice"}}
	rows := []Row{{Group: "1", Person: "(unassigned)", Title: "triage"}}

	got := Backfill(group, rows)
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	if got[1].Person != "Alice" || !got[1].IsPlaceholder() {
		t.Fatalf("expected Alice placeholder, got %+v", got[1])
	}
}

func TestSortRows_ComparesGroupsNumerically(t *testing.T) {
	t.Parallel()

	rows := []Row{
		{Group: "10", Person: "Alice"},
		{Group: "2", Person: "Bob"},
		{Group: "2", Person: "Alice"},
	}
	if err := SortRows(rows); err != nil {
		t.Fatalf("sort rows: %v", err)
	}

	want := []Row{
		{Group: "2", Person: "Alice"},
		{Group: "2", Person: "Bob"},
		{Group: "10", Person: "Alice"},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Fatalf("unexpected order (-want +got):\n%s", diff)
	}
}

func TestSortRows_IsStableForSamePerson(t *testing.T) {
	t.Parallel()

	rows := []Row{
		{Group: "1", Person: "Bob", Title: "first"},
		{Group: "1", Person: "Alice", Title: "only"},
		{Group: "1", Person: "Bob", Title: "second"},
	}
	if err := SortRows(rows); err != nil {
		t.Fatalf("sort rows: %v", err)
	}
	if rows[1].Title != "first" || rows[2].Title != "second" {
		t.Fatalf("expected query order to be kept, got %+v", rows)
	}
}

func TestSortRows_RejectsNonNumericGroup(t *testing.T) {
	t.Parallel()

	rows := []Row{{Group: "alpha", Person: "Alice"}}
	err := SortRows(rows)
	if !errors.Is(err, ErrNonNumericGroup) {
		t.Fatalf("expected ErrNonNumericGroup, got %v", err)
	}
}

func TestRowMap_UsesRecordKeys(t *testing.T) {
	t.Parallel()

	row := Row{Group: "1", Person: "Alice", WorkDate: "2025-07-28", Title: "Fix", Issue: "i", Solution: "s", Result: "done"}
	got := row.Map()
	want := map[string]string{
		"group":       "1",
		"person":      "Alice",
		"work_date":   "2025-07-28",
		"title":       "Fix",
		"issue":       "i",
		"solution":    "s",
		"result_text": "done",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected map (-want +got):\n%s", diff)
	}
	if _, ok := got["Result"]; ok {
		t.Fatalf("display headers must not be used as keys: %v", got)
	}
}
