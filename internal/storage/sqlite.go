package storage

import (
	"context"
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shinsei/entregas/internal/models"
)

const defaultListLimit = 50

type SQLiteStorage struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return &SQLiteStorage{db: db}, nil
}

func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS reports (
			id TEXT PRIMARY KEY,
			total_entregas INTEGER NOT NULL DEFAULT 0,
			entregues INTEGER NOT NULL DEFAULT 0,
			pendentes INTEGER NOT NULL DEFAULT 0,
			canceladas INTEGER NOT NULL DEFAULT 0,
			valor_total REAL NOT NULL DEFAULT 0,
			valor_entregue REAL NOT NULL DEFAULT 0,
			taxa_sucesso REAL NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reports_created ON reports(created_at)`,
	}

	for _, q := range queries {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func (s *SQLiteStorage) SaveReport(ctx context.Context, r *models.Report) error {
	st := r.Statistics
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reports (id, total_entregas, entregues, pendentes, canceladas, valor_total, valor_entregue, taxa_sucesso, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, st.TotalCount, st.DeliveredCount, st.PendingCount, st.CanceledCount,
		st.TotalValue, st.DeliveredValue, st.SuccessRate, r.CreatedAt,
	)
	return err
}

func (s *SQLiteStorage) scanReport(row interface{ Scan(...interface{}) error }) (*models.Report, error) {
	var r models.Report
	st := &r.Statistics
	err := row.Scan(&r.ID, &st.TotalCount, &st.DeliveredCount, &st.PendingCount, &st.CanceledCount,
		&st.TotalValue, &st.DeliveredValue, &st.SuccessRate, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *SQLiteStorage) GetReport(ctx context.Context, id string) (*models.Report, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, total_entregas, entregues, pendentes, canceladas, valor_total, valor_entregue, taxa_sucesso, created_at
		 FROM reports WHERE id = ?`, id)
	r, err := s.scanReport(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return r, err
}

// ListReports returns the newest summaries first. Ids are ULIDs, so they break
// ties between reports created in the same instant.
func (s *SQLiteStorage) ListReports(ctx context.Context, limit int) ([]models.Report, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, total_entregas, entregues, pendentes, canceladas, valor_total, valor_entregue, taxa_sucesso, created_at
		 FROM reports ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []models.Report
	for rows.Next() {
		r, err := s.scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *r)
	}
	return reports, rows.Err()
}
