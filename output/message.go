package output

import (
	"fmt"
	"groupstatus/worklog"
	"io"
	"strings"
)

const noEntryMarker = "(no entry)"

// MessageWriter renders rows as a plain-text status message suitable for
// pasting into chat.
type MessageWriter struct {
	Stdout io.Writer
}

func (w *MessageWriter) Write(path string, rows []worklog.Row) error {
	return withOutput(path, w.Stdout, func(out io.Writer) error {
		if _, err := io.WriteString(out, FormatMessage(rows)); err != nil {
			return fmt.Errorf("write message: %w", err)
		}
		return nil
	})
}

// FormatMessage groups rows by group label in their given order and writes
// one bullet per row. Placeholder rows are marked as having no entry.
func FormatMessage(rows []worklog.Row) string {
	var b strings.Builder
	current := ""
	started := false
	for _, row := range rows {
		if !started || row.Group != current {
			if started {
				b.WriteString("\n")
			}
			fmt.Fprintf(&b, "[Group %s]\n", row.Group)
			current = row.Group
			started = true
		}

		if row.IsPlaceholder() {
			fmt.Fprintf(&b, "- %s: %s\n", row.Person, noEntryMarker)
			continue
		}

		line := fmt.Sprintf("- %s: %s", row.Person, flatten(row.Title))
		if row.WorkDate != "" {
			line += fmt.Sprintf(" (%s)", row.WorkDate)
		}
		b.WriteString(line + "\n")
		for _, detail := range []struct{ label, value string }{
			{"issue", row.Issue},
			{"solution", row.Solution},
			{"result", row.Result},
		} {
			if text := flatten(detail.value); text != "" {
				fmt.Fprintf(&b, "  %s: %s\n", detail.label, text)
			}
		}
	}
	return b.String()
}
