// Package storage keeps a SQLite snapshot of imported work entries so the
// dashboard can start without re-reading the source spreadsheets. Only
// source rows are stored; aggregates are always computed in memory.
package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"reviewdash/worklog"

	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	if err := runMigrations(path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const insertStmt = `
INSERT OR IGNORE INTO entries (
	source_file,
	row_number,
	work_date,
	period,
	hours,
	documents_coded,
	billable,
	case_type,
	job_code,
	notes,
	jurisdictions
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`

// InsertEntries stores entries, ignoring rows already imported from the same
// file and row number. It returns the number of rows actually inserted.
func (s *SQLiteStore) InsertEntries(entries []worklog.Entry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}

	inserted, err := insertEntriesTx(tx, entries)
	if err != nil {
		_ = tx.Rollback()
		return inserted, err
	}

	if err := tx.Commit(); err != nil {
		return inserted, fmt.Errorf("commit transaction: %w", err)
	}
	return inserted, nil
}

// ReplaceEntries swaps the whole snapshot for entries in one transaction.
func (s *SQLiteStore) ReplaceEntries(entries []worklog.Entry) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM entries;`); err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("clear entries: %w", err)
	}

	inserted, err := insertEntriesTx(tx, entries)
	if err != nil {
		_ = tx.Rollback()
		return inserted, err
	}

	if err := tx.Commit(); err != nil {
		return inserted, fmt.Errorf("commit transaction: %w", err)
	}
	return inserted, nil
}

func insertEntriesTx(tx *sql.Tx, entries []worklog.Entry) (int, error) {
	stmt, err := tx.Prepare(insertStmt)
	if err != nil {
		return 0, fmt.Errorf("prepare insert statement: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, entry := range entries {
		workDate := ""
		if entry.HasPeriod() {
			workDate = entry.Date.Format(dateLayout)
		}

		res, err := stmt.Exec(
			entry.SourceFile,
			entry.RowNumber,
			workDate,
			entry.Period,
			entry.Hours,
			entry.DocumentsCoded,
			boolToInt(entry.Billable),
			entry.CaseType,
			entry.JobCode,
			entry.Notes,
			strings.Join(entry.Jurisdictions, " "),
		)
		if err != nil {
			return inserted, fmt.Errorf("insert entry %s:%d: %w", entry.SourceFile, entry.RowNumber, err)
		}

		rows, err := res.RowsAffected()
		if err == nil && rows > 0 {
			inserted++
		}
	}
	return inserted, nil
}

func (s *SQLiteStore) ListEntries() ([]worklog.Entry, error) {
	const query = `
SELECT
	id,
	source_file,
	row_number,
	work_date,
	period,
	hours,
	documents_coded,
	billable,
	case_type,
	job_code,
	notes,
	jurisdictions
FROM entries
ORDER BY source_file, row_number, id;
`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	entries := make([]worklog.Entry, 0, 256)
	for rows.Next() {
		var (
			entry         worklog.Entry
			workDate      string
			billable      int
			jurisdictions string
		)

		if err := rows.Scan(
			&entry.ID,
			&entry.SourceFile,
			&entry.RowNumber,
			&workDate,
			&entry.Period,
			&entry.Hours,
			&entry.DocumentsCoded,
			&billable,
			&entry.CaseType,
			&entry.JobCode,
			&entry.Notes,
			&jurisdictions,
		); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}

		if workDate != "" {
			entry.Date, err = time.ParseInLocation(dateLayout, workDate, time.Local)
			if err != nil {
				return nil, fmt.Errorf("parse work date %q: %w", workDate, err)
			}
		}
		entry.Billable = billable == 1
		entry.Jurisdictions = strings.Fields(jurisdictions)

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}

	return entries, nil
}

func (s *SQLiteStore) CountEntries() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM entries;`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return count, nil
}

func (s *SQLiteStore) DeleteAllEntries() (int64, error) {
	res, err := s.db.Exec(`DELETE FROM entries;`)
	if err != nil {
		return 0, fmt.Errorf("delete entries: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("read deleted row count: %w", err)
	}
	return rows, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
