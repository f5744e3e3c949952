package output

import (
	"bytes"
	"encoding/csv"
	"groupstatus/worklog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"
)

func sampleRows() []worklog.Row {
	return []worklog.Row{
		{Group: "2", Person: "Alice", WorkDate: "2025-07-28", Title: "Release", Issue: "flaky\ntest", Solution: "retry", Result: "shipped"},
		{Group: "2", Person: "Bob"},
		{Group: "10", Person: "Carol", Title: "Docs"},
	}
}

func TestCSVWriter_WritesHeaderAndRows(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "status.csv")
	if err := (&CSVWriter{}).Write(path, sampleRows()); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open csv: %v", err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("expected header + 3 rows, got %d", len(records))
	}
	if diff := cmp.Diff(worklog.Headers, records[0]); diff != "" {
		t.Fatalf("unexpected header (-want +got):\n%s", diff)
	}
	if records[1][4] != "flaky\ntest" {
		t.Fatalf("expected multi-line issue to survive, got %q", records[1][4])
	}
}

func TestCSVWriter_RequiresPath(t *testing.T) {
	t.Parallel()

	if err := (&CSVWriter{}).Write("", sampleRows()); err == nil {
		t.Fatalf("expected error without output path")
	}
}

func TestExcelWriter_WritesSheet(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "status.xlsx")
	if err := (&ExcelWriter{}).Write(path, sampleRows()); err != nil {
		t.Fatalf("write excel: %v", err)
	}

	file, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open excel: %v", err)
	}
	defer file.Close()

	rows, err := file.GetRows(excelSheetName)
	if err != nil {
		t.Fatalf("read excel rows: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected header + 3 rows, got %d", len(rows))
	}
	if rows[0][1] != "Person" || rows[3][1] != "Carol" {
		t.Fatalf("unexpected sheet content: %v", rows)
	}
}

func TestTextWriter_PrintsAlignedTable(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	writer, err := WriterForFormat("text", &out)
	if err != nil {
		t.Fatalf("writer for format: %v", err)
	}
	if err := writer.Write("", sampleRows()); err != nil {
		t.Fatalf("write text: %v", err)
	}

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d:\n%s", len(lines), out.String())
	}
	if !strings.HasPrefix(lines[0], "Group") || !strings.Contains(lines[1], "flaky / test") {
		t.Fatalf("unexpected table:\n%s", out.String())
	}
}

func TestFormatMessage_GroupsAndMarksPlaceholders(t *testing.T) {
	t.Parallel()

	got := FormatMessage(sampleRows())
	want := `[Group 2]
- Alice: Release (2025-07-28)
  issue: flaky / test
  solution: retry
  result: shipped
- Bob: (no entry)

[Group 10]
- Carol: Docs
`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected message (-want +got):\n%s", diff)
	}
}

func TestWriterForFormat(t *testing.T) {
	t.Parallel()

	for _, format := range []string{"csv", "Excel", "xlsx", "", "text", "message"} {
		if _, err := WriterForFormat(format, nil); err != nil {
			t.Fatalf("expected writer for %q: %v", format, err)
		}
	}
	if _, err := WriterForFormat("pdf", nil); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}
