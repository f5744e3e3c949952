package output

import (
	"fmt"
	"groupstatus/worklog"
	"io"
	"os"
	"strings"
)

type Writer interface {
	Write(path string, rows []worklog.Row) error
}

// WriterForFormat returns the writer for format. Text and message writers
// print to stdout when called with an empty path.
func WriterForFormat(format string, stdout io.Writer) (Writer, error) {
	switch normalizeFormat(format) {
	case "csv":
		return &CSVWriter{}, nil
	case "excel", "xlsx":
		return &ExcelWriter{}, nil
	case "", "text", "table":
		return &TextWriter{Stdout: stdout}, nil
	case "message", "msg":
		return &MessageWriter{Stdout: stdout}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

func normalizeFormat(value string) string {
	return strings.TrimSpace(strings.ToLower(value))
}

func requirePath(path, format string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("output path is required for %s format", format)
	}
	return nil
}

// withOutput calls fn with stdout for an empty path, otherwise with a newly
// created file at path.
func withOutput(path string, stdout io.Writer, fn func(io.Writer) error) error {
	if strings.TrimSpace(path) == "" || path == "-" {
		if stdout == nil {
			stdout = os.Stdout
		}
		return fn(stdout)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output %s: %w", path, err)
	}
	if err := fn(file); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close output %s: %w", path, err)
	}
	return nil
}
