package models

import "time"

type ReportStatistics struct {
	TotalCount     int     `json:"total_entregas"`
	DeliveredCount int     `json:"entregues"`
	PendingCount   int     `json:"pendentes"`
	CanceledCount  int     `json:"canceladas"`
	TotalValue     float64 `json:"valor_total"`
	DeliveredValue float64 `json:"valor_entregue"`
	SuccessRate    float64 `json:"taxa_sucesso"`
}

// Report is a stored summary of a generated report. Only the statistics are
// kept, never the submitted records.
type Report struct {
	ID         string           `json:"id"`
	Statistics ReportStatistics `json:"estatisticas"`
	CreatedAt  time.Time        `json:"criado_em"`
}
