package output

import (
	"fmt"
	"groupstatus/worklog"
	"io"
	"strings"
	"text/tabwriter"
)

// TextWriter renders rows as an aligned table. Multi-line cells are joined
// with " / " so every row stays on one line.
type TextWriter struct {
	Stdout io.Writer
}

func (w *TextWriter) Write(path string, rows []worklog.Row) error {
	return withOutput(path, w.Stdout, func(out io.Writer) error {
		return writeTable(out, rows)
	})
}

func writeTable(out io.Writer, rows []worklog.Row) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, strings.Join(worklog.Headers, "\t")); err != nil {
		return fmt.Errorf("write table header: %w", err)
	}
	for _, row := range rows {
		fields := row.Fields()
		for i, field := range fields {
			fields[i] = flatten(field)
		}
		if _, err := fmt.Fprintln(tw, strings.Join(fields, "\t")); err != nil {
			return fmt.Errorf("write table row: %w", err)
		}
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flush table: %w", err)
	}
	return nil
}

func flatten(value string) string {
	lines := strings.Split(value, "\n")
	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(strings.ReplaceAll(line, "\t", " "))
		if line != "" {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, " / ")
}
