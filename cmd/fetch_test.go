package cmd

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"groupstatus/config"
	"groupstatus/fetcher"
	"groupstatus/notion"
	"groupstatus/storage"
	"groupstatus/worklog"
)

type fakeNotionClient struct {
	mu      sync.Mutex
	queries []notion.DatabaseQuery
	pages   map[string][]notion.Page
}

func (c *fakeNotionClient) QueryDatabase(ctx context.Context, query notion.DatabaseQuery) (notion.QueryResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queries = append(c.queries, query)
	return notion.QueryResult{Results: c.pages[query.DatabaseID]}, nil
}

func testFetchConfig() config.Config {
	return config.Config{
		Schema: config.SchemaConfig{
			DateProperty:        "Date",
			ProjectTypeProperty: "Type",
			ExcludedProjectType: "Mini",
			AssigneeProperty:    "Owner",
			StatusProperty:      "Status",
			ResultProperty:      "Result",
			SolutionProperty:    "Solution",
			IssueProperty:       "Issue",
			TitleProperty:       "Task",
			UnassignedName:      "(unassigned)",
		},
		Fetch: config.FetchConfig{Concurrency: 2},
		Groups: []config.GroupConfig{
			{ID: "db-10", Name: "10", Members: []string{"Yoon"}},
			{ID: "db-2", Name: "2", Members: []string{"Kim", "Lee"}},
		},
	}
}

func testWorkPage(id, owner, task string) notion.Page {
	return notion.Page{
		ID: id,
		Properties: map[string]notion.Property{
			"Owner":    {Type: "people", People: []notion.User{{Name: owner}}},
			"Status":   {Type: "status", Status: &notion.Option{Name: "Done"}},
			"Date":     {Type: "date", Date: &notion.DateValue{Start: "2025-07-30"}},
			"Result":   {Type: "rich_text", RichText: []notion.RichText{{PlainText: "merged"}}},
			"Solution": {Type: "rich_text"},
			"Issue":    {Type: "rich_text"},
			"Task":     {Type: "title", Title: []notion.RichText{{PlainText: task}}},
		},
	}
}

func testClock() func() time.Time {
	return func() time.Time { return time.Date(2025, 7, 30, 18, 0, 0, 0, time.Local) }
}

func TestRunFetchPrintsTableInGroupOrder(t *testing.T) {
	client := &fakeNotionClient{pages: map[string][]notion.Page{
		"db-2":  {testWorkPage("p1", "Lee", "Write parser")},
		"db-10": {testWorkPage("p2", "Yoon", "Fix login")},
	}}

	var stdout bytes.Buffer
	err := runFetch(context.Background(), client, testFetchConfig(), fetchOptions{Now: testClock()}, &stdout)
	if err != nil {
		t.Fatalf("runFetch returned error: %v", err)
	}

	if len(client.queries) != 2 {
		t.Fatalf("expected one query per group, got %d", len(client.queries))
	}

	lines := strings.Split(strings.TrimRight(stdout.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header and 3 rows, got %d lines:\n%s", len(lines), stdout.String())
	}
	if !strings.HasPrefix(lines[0], "Group") {
		t.Fatalf("expected header line first, got %q", lines[0])
	}

	want := []struct {
		prefix string
		person string
	}{
		{prefix: "2 ", person: "Kim"},
		{prefix: "2 ", person: "Lee"},
		{prefix: "10 ", person: "Yoon"},
	}
	for i, w := range want {
		line := lines[i+1]
		if !strings.HasPrefix(line, w.prefix) || !strings.Contains(line, w.person) {
			t.Fatalf("line %d: expected group %q and person %q, got %q", i+1, strings.TrimSpace(w.prefix), w.person, line)
		}
	}
	if !strings.Contains(lines[2], "Write parser") {
		t.Fatalf("expected fetched task in Lee's row, got %q", lines[2])
	}
}

func TestRunFetchUsesTodayFilterWithoutSince(t *testing.T) {
	client := &fakeNotionClient{}
	cfg := testFetchConfig()

	var stdout bytes.Buffer
	err := runFetch(context.Background(), client, cfg, fetchOptions{Groups: []string{"2"}, Now: testClock()}, &stdout)
	if err != nil {
		t.Fatalf("runFetch returned error: %v", err)
	}

	if len(client.queries) != 1 {
		t.Fatalf("expected one query for the selected group, got %d", len(client.queries))
	}
	query := client.queries[0]
	if query.DatabaseID != "db-2" {
		t.Fatalf("expected query for db-2, got %q", query.DatabaseID)
	}
	if query.Filter == nil || len(query.Filter.And) != 2 {
		t.Fatalf("expected and-filter with two conditions, got %#v", query.Filter)
	}
	date := query.Filter.And[0]
	if date.Property != "Date" || date.Date == nil || date.Date.Equals != "2025-07-30" {
		t.Fatalf("expected equals filter on today's date, got %#v", date)
	}
}

func TestRunFetchRejectsInvalidSinceBeforeQuerying(t *testing.T) {
	client := &fakeNotionClient{}
	since := "2025/07/28"

	var stdout bytes.Buffer
	err := runFetch(context.Background(), client, testFetchConfig(), fetchOptions{Since: &since, Now: testClock()}, &stdout)
	if !errors.Is(err, fetcher.ErrInvalidDateFormat) {
		t.Fatalf("expected invalid date format error, got %v", err)
	}
	if !strings.Contains(err.Error(), since) {
		t.Fatalf("expected error to mention %q, got %q", since, err.Error())
	}
	if len(client.queries) != 0 {
		t.Fatalf("expected no queries, got %d", len(client.queries))
	}
}

func TestRunFetchUnknownGroup(t *testing.T) {
	client := &fakeNotionClient{}

	var stdout bytes.Buffer
	err := runFetch(context.Background(), client, testFetchConfig(), fetchOptions{Groups: []string{"7"}}, &stdout)
	if err == nil || !strings.Contains(err.Error(), `group "7" is not configured`) {
		t.Fatalf("expected unknown group error, got %v", err)
	}
}

func TestRunFetchStoresRunAndExportReadsIt(t *testing.T) {
	client := &fakeNotionClient{pages: map[string][]notion.Page{
		"db-2": {testWorkPage("p1", "Kim", "Write parser")},
	}}
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	since := "2025-07-28"

	var stdout bytes.Buffer
	err := runFetch(context.Background(), client, testFetchConfig(), fetchOptions{
		Since:  &since,
		Format: "message",
		DBPath: dbPath,
		Now:    testClock(),
	}, &stdout)
	if err != nil {
		t.Fatalf("runFetch returned error: %v", err)
	}
	if !strings.Contains(stdout.String(), "Run stored.") {
		t.Fatalf("expected run stored notice, got:\n%s", stdout.String())
	}

	store, err := storage.OpenSQLite(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	run, err := store.GetRun("")
	if err != nil {
		store.Close()
		t.Fatalf("get latest run: %v", err)
	}
	rows, err := store.ListRows(run.ID)
	store.Close()
	if err != nil {
		t.Fatalf("list rows: %v", err)
	}
	if run.StartDate != since {
		t.Fatalf("expected stored start date %q, got %q", since, run.StartDate)
	}
	if run.RowCount != 3 || len(rows) != 3 {
		t.Fatalf("expected 3 stored rows, got count=%d rows=%d", run.RowCount, len(rows))
	}
	if rows[0] != (worklog.Row{Group: "2", Person: "Kim", WorkDate: "2025-07-30", Title: "Write parser", Result: "merged"}) {
		t.Fatalf("unexpected first stored row: %#v", rows[0])
	}

	csvPath := filepath.Join(t.TempDir(), "export.csv")
	var exportOut bytes.Buffer
	if err := runExport(dbPath, run.ID, "", csvPath, &exportOut); err != nil {
		t.Fatalf("runExport returned error: %v", err)
	}
	if !strings.Contains(exportOut.String(), "Format: csv") {
		t.Fatalf("expected csv export notice, got %q", exportOut.String())
	}
}
