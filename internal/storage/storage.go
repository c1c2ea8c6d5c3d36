package storage

import (
	"context"

	"github.com/shinsei/entregas/internal/models"
)

// Storage keeps summaries of generated reports.
type Storage interface {
	SaveReport(ctx context.Context, r *models.Report) error
	GetReport(ctx context.Context, id string) (*models.Report, error)
	ListReports(ctx context.Context, limit int) ([]models.Report, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
