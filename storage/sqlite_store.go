package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"groupstatus/worklog"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	db *sql.DB
}

var ErrRunNotFound = errors.New("run not found")

// timestampLayout is fixed-width so fetched_at sorts chronologically as text.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Run is one stored fetch: the rows of all queried groups at FetchedAt.
type Run struct {
	ID        string
	FetchedAt time.Time
	// StartDate is the on-or-after filter used, empty for a "today" fetch.
	StartDate string
	RowCount  int
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ensureSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	fetched_at TEXT NOT NULL,
	start_date TEXT NOT NULL DEFAULT '',
	row_count INTEGER NOT NULL CHECK(row_count >= 0)
);
CREATE TABLE IF NOT EXISTS status_rows (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL REFERENCES runs(id),
	position INTEGER NOT NULL,
	group_name TEXT NOT NULL,
	person TEXT NOT NULL,
	work_date TEXT NOT NULL,
	title TEXT NOT NULL,
	issue TEXT NOT NULL,
	solution TEXT NOT NULL,
	result TEXT NOT NULL,
	UNIQUE(run_id, position)
);
CREATE INDEX IF NOT EXISTS idx_status_rows_run ON status_rows(run_id, position);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// InsertRun stores rows as one run in their given order. An empty run ID is
// replaced by a random UUID; a zero FetchedAt by the current time.
func (s *SQLiteStore) InsertRun(run Run, rows []worklog.Row) (Run, error) {
	run.ID = strings.TrimSpace(run.ID)
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.FetchedAt.IsZero() {
		run.FetchedAt = time.Now()
	}
	run.RowCount = len(rows)

	tx, err := s.db.Begin()
	if err != nil {
		return Run{}, fmt.Errorf("begin transaction: %w", err)
	}

	if _, err := tx.Exec(
		`INSERT INTO runs (id, fetched_at, start_date, row_count) VALUES (?, ?, ?, ?);`,
		run.ID,
		run.FetchedAt.UTC().Format(timestampLayout),
		run.StartDate,
		run.RowCount,
	); err != nil {
		_ = tx.Rollback()
		return Run{}, fmt.Errorf("insert run %s: %w", run.ID, err)
	}

	const insertStmt = `
INSERT INTO status_rows (
	run_id,
	position,
	group_name,
	person,
	work_date,
	title,
	issue,
	solution,
	result
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);`

	stmt, err := tx.Prepare(insertStmt)
	if err != nil {
		_ = tx.Rollback()
		return Run{}, fmt.Errorf("prepare insert statement: %w", err)
	}
	defer stmt.Close()

	for i, row := range rows {
		if _, err := stmt.Exec(
			run.ID,
			i,
			row.Group,
			row.Person,
			row.WorkDate,
			row.Title,
			row.Issue,
			row.Solution,
			row.Result,
		); err != nil {
			_ = tx.Rollback()
			return Run{}, fmt.Errorf("insert status row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("commit transaction: %w", err)
	}

	return run, nil
}

// ListRuns returns all runs, newest first.
func (s *SQLiteStore) ListRuns() ([]Run, error) {
	rows, err := s.db.Query(`SELECT id, fetched_at, start_date, row_count FROM runs ORDER BY fetched_at DESC, id;`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := make([]Run, 0, 16)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// GetRun returns the run with id, or the newest run when id is empty.
func (s *SQLiteStore) GetRun(id string) (Run, error) {
	var row *sql.Row
	if strings.TrimSpace(id) == "" {
		row = s.db.QueryRow(`SELECT id, fetched_at, start_date, row_count FROM runs ORDER BY fetched_at DESC, id LIMIT 1;`)
	} else {
		row = s.db.QueryRow(`SELECT id, fetched_at, start_date, row_count FROM runs WHERE id = ?;`, strings.TrimSpace(id))
	}

	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, ErrRunNotFound
		}
		return Run{}, err
	}
	return run, nil
}

// ListRows returns the rows of one run in stored order.
func (s *SQLiteStore) ListRows(runID string) ([]worklog.Row, error) {
	const query = `
SELECT
	group_name,
	person,
	work_date,
	title,
	issue,
	solution,
	result
FROM status_rows
WHERE run_id = ?
ORDER BY position;
`

	rows, err := s.db.Query(query, runID)
	if err != nil {
		return nil, fmt.Errorf("query status rows: %w", err)
	}
	defer rows.Close()

	out := make([]worklog.Row, 0, 64)
	for rows.Next() {
		var row worklog.Row
		if err := rows.Scan(
			&row.Group,
			&row.Person,
			&row.WorkDate,
			&row.Title,
			&row.Issue,
			&row.Solution,
			&row.Result,
		); err != nil {
			return nil, fmt.Errorf("scan status row: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status rows: %w", err)
	}
	return out, nil
}

// DeleteRun removes a run and its rows.
func (s *SQLiteStore) DeleteRun(id string) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM status_rows WHERE run_id = ?;`, id); err != nil {
		_ = tx.Rollback()
		return false, fmt.Errorf("delete rows of run %s: %w", id, err)
	}
	res, err := tx.Exec(`DELETE FROM runs WHERE id = ?;`, id)
	if err != nil {
		_ = tx.Rollback()
		return false, fmt.Errorf("delete run %s: %w", id, err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return false, fmt.Errorf("read deleted row count: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit delete transaction: %w", err)
	}
	return rowsAffected > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(scanner rowScanner) (Run, error) {
	var (
		run        Run
		fetchedRaw string
	)
	if err := scanner.Scan(&run.ID, &fetchedRaw, &run.StartDate, &run.RowCount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	fetchedAt, err := time.Parse(timestampLayout, fetchedRaw)
	if err != nil {
		return Run{}, fmt.Errorf("parse fetched_at %q: %w", fetchedRaw, err)
	}
	run.FetchedAt = fetchedAt
	return run, nil
}
