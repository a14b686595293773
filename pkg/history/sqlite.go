package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"tessera-hq/tessera/pkg/compat"
)

// SQLiteStore persists reports in a SQLite database. It uses WAL mode for
// concurrent read performance and a single writer connection, which is all
// SQLite supports anyway.
type SQLiteStore struct {
	db *sql.DB

	saveStmt  *sql.Stmt
	getStmt   *sql.Stmt
	countStmt *sql.Stmt
}

// NewSQLiteStore opens (creating if needed) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("db path cannot be empty")
	}

	// modernc applies pragmas through the _pragma DSN parameter, one per
	// pragma; the mattn-style _journal_mode form is silently ignored.
	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if err := store.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS validation_reports (
		id TEXT PRIMARY KEY,
		component TEXT NOT NULL,
		space TEXT NOT NULL,
		valid INTEGER NOT NULL,
		errors TEXT,
		warnings TEXT,
		fixes TEXT,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_reports_created_at
		ON validation_reports(created_at);
	CREATE INDEX IF NOT EXISTS idx_reports_valid
		ON validation_reports(valid, created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.saveStmt, err = s.db.Prepare(`
		INSERT INTO validation_reports
			(id, component, space, valid, errors, warnings, fixes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}

	s.getStmt, err = s.db.Prepare(`
		SELECT id, component, space, valid, errors, warnings, fixes, created_at
		FROM validation_reports WHERE id = ?`)
	if err != nil {
		return err
	}

	s.countStmt, err = s.db.Prepare(`SELECT COUNT(*) FROM validation_reports`)
	return err
}

// Save records a report.
func (s *SQLiteStore) Save(ctx context.Context, report *Report) error {
	errorsJSON, err := json.Marshal(report.Errors)
	if err != nil {
		return fmt.Errorf("failed to encode errors: %w", err)
	}
	warningsJSON, err := json.Marshal(report.Warnings)
	if err != nil {
		return fmt.Errorf("failed to encode warnings: %w", err)
	}

	var fixesJSON []byte
	if report.Fixes != nil {
		fixesJSON, err = json.Marshal(report.Fixes)
		if err != nil {
			return fmt.Errorf("failed to encode fixes: %w", err)
		}
	}

	valid := 0
	if report.Valid {
		valid = 1
	}

	_, err = s.saveStmt.ExecContext(ctx,
		report.ID,
		string(report.Component),
		string(report.Space),
		valid,
		string(errorsJSON),
		string(warningsJSON),
		nullableString(fixesJSON),
		report.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

// Get retrieves a report by ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Report, error) {
	row := s.getStmt.QueryRowContext(ctx, id)
	report, err := scanReport(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load report: %w", err)
	}
	return report, nil
}

// List returns reports newest first.
func (s *SQLiteStore) List(ctx context.Context, opts ListOptions) ([]*Report, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	query := `
		SELECT id, component, space, valid, errors, warnings, fixes, created_at
		FROM validation_reports`
	args := []any{}
	if opts.OnlyInvalid {
		query += ` WHERE valid = 0`
	}
	query += ` ORDER BY created_at DESC, id LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []*Report
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}

// Count returns the number of stored reports.
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.countStmt.QueryRowContext(ctx).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count reports: %w", err)
	}
	return count, nil
}

// Prune deletes reports older than cutoff, then trims to maxRecords.
func (s *SQLiteStore) Prune(ctx context.Context, cutoff time.Time, maxRecords int) (int64, error) {
	var deleted int64

	if !cutoff.IsZero() {
		res, err := s.db.ExecContext(ctx,
			`DELETE FROM validation_reports WHERE created_at < ?`, cutoff.UnixMilli())
		if err != nil {
			return deleted, fmt.Errorf("failed to prune by age: %w", err)
		}
		n, _ := res.RowsAffected()
		deleted += n
	}

	if maxRecords > 0 {
		res, err := s.db.ExecContext(ctx, `
			DELETE FROM validation_reports WHERE id NOT IN (
				SELECT id FROM validation_reports
				ORDER BY created_at DESC, id LIMIT ?
			)`, maxRecords)
		if err != nil {
			return deleted, fmt.Errorf("failed to trim to max records: %w", err)
		}
		n, _ := res.RowsAffected()
		deleted += n
	}

	return deleted, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	for _, stmt := range []*sql.Stmt{s.saveStmt, s.getStmt, s.countStmt} {
		if stmt != nil {
			stmt.Close()
		}
	}
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (*Report, error) {
	var (
		report       Report
		component    string
		space        string
		valid        int
		errorsJSON   string
		warningsJSON string
		fixesJSON    sql.NullString
		createdAt    int64
	)

	err := row.Scan(&report.ID, &component, &space, &valid,
		&errorsJSON, &warningsJSON, &fixesJSON, &createdAt)
	if err != nil {
		return nil, err
	}

	report.Component = compat.ComponentType(component)
	report.Space = compat.SpaceType(space)
	report.Valid = valid != 0
	report.CreatedAt = time.UnixMilli(createdAt).UTC()

	if err := json.Unmarshal([]byte(errorsJSON), &report.Errors); err != nil {
		return nil, fmt.Errorf("corrupt errors column: %w", err)
	}
	if err := json.Unmarshal([]byte(warningsJSON), &report.Warnings); err != nil {
		return nil, fmt.Errorf("corrupt warnings column: %w", err)
	}
	if fixesJSON.Valid && fixesJSON.String != "" {
		if err := json.Unmarshal([]byte(fixesJSON.String), &report.Fixes); err != nil {
			return nil, fmt.Errorf("corrupt fixes column: %w", err)
		}
	}

	return &report, nil
}

func nullableString(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
