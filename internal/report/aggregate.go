package report

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/shinsei/entregas/internal/models"
)

const (
	MsgReportGenerated = "Relatorio gerado com sucesso"
	MsgValueOutOfRange = "Soma dos valores fora do intervalo suportado."
)

var hundred = decimal.NewFromInt(100)

// Generate summarises records in a single pass. Values are accumulated as
// decimals and the monetary totals and the success rate are rounded to two
// places. Records with an unknown status only count towards the totals.
// Totals too large to be represented as a JSON number are a ValidationError.
func Generate(records []models.DeliveryRecord) (models.ReportStatistics, error) {
	var stats models.ReportStatistics
	total := decimal.Zero
	delivered := decimal.Zero

	for _, r := range records {
		v := decimal.NewFromFloat(r.Value)
		stats.TotalCount++
		total = total.Add(v)

		switch r.Status {
		case models.DeliveryDelivered:
			stats.DeliveredCount++
			delivered = delivered.Add(v)
		case models.DeliveryPending:
			stats.PendingCount++
		case models.DeliveryCanceled:
			stats.CanceledCount++
		}
	}

	stats.TotalValue = total.Round(2).InexactFloat64()
	stats.DeliveredValue = delivered.Round(2).InexactFloat64()
	if !finite(stats.TotalValue) || !finite(stats.DeliveredValue) {
		return models.ReportStatistics{}, models.NewValidationError(nil, MsgValueOutOfRange)
	}
	stats.SuccessRate = SuccessRate(stats.DeliveredCount, stats.TotalCount)
	return stats, nil
}

func finite(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}

// SuccessRate returns delivered/total as a percentage rounded to two places,
// or 0 when there is nothing to rate.
func SuccessRate(delivered, total int) float64 {
	if total <= 0 {
		return 0
	}
	rate := decimal.NewFromInt(int64(delivered)).
		Div(decimal.NewFromInt(int64(total))).
		Mul(hundred)
	return rate.Round(2).InexactFloat64()
}
