package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/casefetch/court-api/internal/models"
)

// ErrNotFound is returned when a looked-up row does not exist.
var ErrNotFound = errors.New("store: not found")

const schema = `
CREATE TABLE IF NOT EXISTS cases (
	id          TEXT PRIMARY KEY,
	case_type   TEXT NOT NULL,
	case_number TEXT NOT NULL,
	filing_year INTEGER NOT NULL,
	status      TEXT NOT NULL DEFAULT 'pending',
	raw_html    TEXT,
	error_kind  TEXT,
	error_text  TEXT,
	searched_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS case_details (
	case_id           TEXT PRIMARY KEY REFERENCES cases(id) ON DELETE CASCADE,
	plaintiff         TEXT NOT NULL,
	defendant         TEXT NOT NULL,
	filing_date       TEXT,
	next_hearing_date TEXT,
	case_status       TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS orders (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	case_id    TEXT NOT NULL REFERENCES cases(id) ON DELETE CASCADE,
	order_date TEXT,
	order_type TEXT NOT NULL,
	pdf_url    TEXT NOT NULL,
	local_path TEXT
);

CREATE INDEX IF NOT EXISTS idx_cases_number ON cases(case_type, case_number, filing_year);
CREATE INDEX IF NOT EXISTS idx_orders_case ON orders(case_id);
`

// Store persists case searches, their parsed details and discovered orders in
// SQLite. Every search attempt is recorded, including failed ones.
type Store struct {
	db     *sql.DB
	logger *logrus.Logger
}

// Open opens (and migrates) the database at path. ":memory:" works for tests.
func Open(path string, busyTimeout time.Duration, logger *logrus.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	// A single writer keeps lock contention off the WAL.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA foreign_keys=ON",
		"PRAGMA journal_mode=WAL",
		fmt.Sprintf("PRAGMA busy_timeout=%d", busyTimeout.Milliseconds()),
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	logger.WithField("path", path).Info("Database ready")
	return &Store{db: db, logger: logger}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateCase inserts a pending case row for a new search and returns its ID.
func (s *Store) CreateCase(ctx context.Context, query models.SearchQuery) (string, error) {
	id := uuid.New().String()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO cases (id, case_type, case_number, filing_year, status, searched_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, query.CaseType, query.CaseNumber, query.FilingYear,
		models.CaseStatusPending, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("insert case: %w", err)
	}
	return id, nil
}

// MarkSuccess records the parsed result for a case: status, raw response,
// detail row and order links, all in one transaction.
func (s *Store) MarkSuccess(ctx context.Context, caseID string, rec *models.CaseRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE cases SET status = ?, raw_html = ? WHERE id = ?`,
		models.CaseStatusSuccess, rec.RawHTML, caseID); err != nil {
		return fmt.Errorf("update case: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO case_details (case_id, plaintiff, defendant, filing_date, next_hearing_date, case_status)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		caseID, rec.Parties.Plaintiff, rec.Parties.Defendant,
		rec.FilingDate, rec.NextHearingDate, rec.Status); err != nil {
		return fmt.Errorf("insert details: %w", err)
	}
	for _, o := range rec.Orders {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO orders (case_id, order_date, order_type, pdf_url) VALUES (?, ?, ?, ?)`,
			caseID, o.Date, o.Label, o.URL); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
	}
	return tx.Commit()
}

// MarkFailed records a failed search together with its typed failure.
func (s *Store) MarkFailed(ctx context.Context, caseID string, failure *models.Failure) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE cases SET status = ?, error_kind = ?, error_text = ? WHERE id = ?`,
		models.CaseStatusFailed, string(failure.Kind), failure.Message, caseID)
	if err != nil {
		return fmt.Errorf("mark failed: %w", err)
	}
	return nil
}

// GetCase loads one case with its details and orders.
func (s *Store) GetCase(ctx context.Context, id string) (*models.CaseSummary, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, case_type, case_number, filing_year, status, searched_at
		 FROM cases WHERE id = ?`, id)
	summary, err := scanSummary(row)
	if err != nil {
		return nil, err
	}
	if err := s.attachDetails(ctx, summary); err != nil {
		return nil, err
	}
	return summary, nil
}

// LatestByNumber returns the most recent search for a case identity,
// regardless of outcome.
func (s *Store) LatestByNumber(ctx context.Context, query models.SearchQuery) (*models.CaseSummary, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, case_type, case_number, filing_year, status, searched_at
		 FROM cases
		 WHERE case_type = ? AND case_number = ? AND filing_year = ?
		 ORDER BY searched_at DESC LIMIT 1`,
		query.CaseType, query.CaseNumber, query.FilingYear)
	summary, err := scanSummary(row)
	if err != nil {
		return nil, err
	}
	if err := s.attachDetails(ctx, summary); err != nil {
		return nil, err
	}
	return summary, nil
}

// FindSuccessful returns the latest successful search for a case identity.
func (s *Store) FindSuccessful(ctx context.Context, query models.SearchQuery) (*models.CaseSummary, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, case_type, case_number, filing_year, status, searched_at
		 FROM cases
		 WHERE case_type = ? AND case_number = ? AND filing_year = ? AND status = ?
		 ORDER BY searched_at DESC LIMIT 1`,
		query.CaseType, query.CaseNumber, query.FilingYear, models.CaseStatusSuccess)
	summary, err := scanSummary(row)
	if err != nil {
		return nil, err
	}
	if err := s.attachDetails(ctx, summary); err != nil {
		return nil, err
	}
	return summary, nil
}

// ListCases returns a page of past searches, newest first.
func (s *Store) ListCases(ctx context.Context, page, perPage int) ([]models.CaseSummary, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cases`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count cases: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, case_type, case_number, filing_year, status, searched_at
		 FROM cases ORDER BY searched_at DESC LIMIT ? OFFSET ?`,
		perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("list cases: %w", err)
	}
	defer rows.Close()

	var cases []models.CaseSummary
	for rows.Next() {
		var c models.CaseSummary
		if err := rows.Scan(&c.ID, &c.CaseType, &c.CaseNumber, &c.FilingYear, &c.Status, &c.SearchedAt); err != nil {
			return nil, 0, fmt.Errorf("scan case: %w", err)
		}
		cases = append(cases, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	for i := range cases {
		if err := s.attachDetails(ctx, &cases[i]); err != nil {
			return nil, 0, err
		}
	}
	return cases, total, nil
}

// Stats returns per-status counts of recorded searches.
func (s *Store) Stats(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM cases GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	defer rows.Close()

	stats := map[string]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		stats[status] = n
	}
	return stats, rows.Err()
}

// Order loads one order row by its numeric ID.
func (s *Store) Order(ctx context.Context, id int64) (*models.OrderRow, error) {
	var o models.OrderRow
	var date, local sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id, case_id, order_date, order_type, pdf_url, local_path FROM orders WHERE id = ?`, id).
		Scan(&o.ID, &o.CaseID, &date, &o.OrderType, &o.PDFURL, &local)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	o.OrderDate = date.String
	o.LocalPath = local.String
	return &o, nil
}

// SetOrderLocalPath records where an order PDF was saved on disk.
func (s *Store) SetOrderLocalPath(ctx context.Context, id int64, path string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE orders SET local_path = ? WHERE id = ?`, path, id)
	if err != nil {
		return fmt.Errorf("set local path: %w", err)
	}
	return nil
}

func scanSummary(row *sql.Row) (*models.CaseSummary, error) {
	var c models.CaseSummary
	err := row.Scan(&c.ID, &c.CaseType, &c.CaseNumber, &c.FilingYear, &c.Status, &c.SearchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan case: %w", err)
	}
	return &c, nil
}

// attachDetails fills in the detail row and orders for a successful case.
func (s *Store) attachDetails(ctx context.Context, c *models.CaseSummary) error {
	var d models.CaseDetails
	var filing, hearing sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT plaintiff, defendant, filing_date, next_hearing_date, case_status
		 FROM case_details WHERE case_id = ?`, c.ID).
		Scan(&d.Plaintiff, &d.Defendant, &filing, &hearing, &d.CaseStatus)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// Failed and pending searches have no detail row.
	case err != nil:
		return fmt.Errorf("get details: %w", err)
	default:
		d.FilingDate = filing.String
		d.NextHearingDate = hearing.String
		c.Details = &d
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, case_id, order_date, order_type, pdf_url, local_path
		 FROM orders WHERE case_id = ? ORDER BY id`, c.ID)
	if err != nil {
		return fmt.Errorf("get orders: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var o models.OrderRow
		var date, local sql.NullString
		if err := rows.Scan(&o.ID, &o.CaseID, &date, &o.OrderType, &o.PDFURL, &local); err != nil {
			return fmt.Errorf("scan order: %w", err)
		}
		o.OrderDate = date.String
		o.LocalPath = local.String
		c.Orders = append(c.Orders, o)
	}
	return rows.Err()
}
