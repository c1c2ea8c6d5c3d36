// Package anomaly flags freight loads whose values look out of place before
// they are invoiced.
package anomaly

import (
	"fmt"
	"math"
	"math/rand"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/shinsei/entregas/internal/coerce"
	"github.com/shinsei/entregas/internal/models"
)

type Kind string

const (
	KindVeryHigh     Kind = "MUITO_ALTO"
	KindHigh         Kind = "ALTO"
	KindVeryLow      Kind = "MUITO_BAIXO"
	KindLow          Kind = "BAIXO"
	KindOutlier      Kind = "OUTLIER"
	KindAboveHistory Kind = "FORA_DO_HISTORICO"
)

const (
	historySeverity   = 90
	flatScoreSeverity = 50
)

const MsgValuesOutOfRange = "Valores das cargas fora do intervalo suportado."

type Options struct {
	Contamination float64
	Trees         int
	Seed          int64
	MinLoads      int
	MinHistory    int
}

func DefaultOptions() Options {
	return Options{
		Contamination: 0.1,
		Trees:         100,
		Seed:          42,
		MinLoads:      3,
		MinHistory:    10,
	}
}

type Anomaly struct {
	ID         any      `json:"id"`
	Vehicle    any      `json:"veiculo"`
	Chassis    any      `json:"chassis,omitempty"`
	Value      float64  `json:"valor"`
	Kind       Kind     `json:"tipo"`
	Severity   int      `json:"severidade"`
	Score      *float64 `json:"score_anomalia,omitempty"`
	Suggestion string   `json:"sugestao"`
	Expected   float64  `json:"valor_esperado"`
}

type HistoryComparison struct {
	Mean   float64 `json:"media_historica"`
	Median float64 `json:"mediana_historica"`
	Max    float64 `json:"max_historico"`
	Min    float64 `json:"min_historico"`
}

type Result struct {
	Anomalies      []Anomaly          `json:"anomalias"`
	Statistics     *Statistics        `json:"estatisticas"`
	Warning        string             `json:"aviso,omitempty"`
	TotalLoads     int                `json:"total_cargas"`
	TotalAnomalies int                `json:"total_anomalias"`
	AnomalyRate    float64            `json:"percentual_anomalias"`
	History        *HistoryComparison `json:"comparacao_historico,omitempty"`
}

type Detector struct {
	opts    Options
	printer *message.Printer
}

func NewDetector(opts Options) *Detector {
	def := DefaultOptions()
	if opts.Contamination <= 0 || opts.Contamination > 0.5 {
		opts.Contamination = def.Contamination
	}
	if opts.Trees <= 0 {
		opts.Trees = def.Trees
	}
	if opts.MinLoads < 1 {
		opts.MinLoads = def.MinLoads
	}
	if opts.MinHistory < 1 {
		opts.MinHistory = def.MinHistory
	}
	return &Detector{
		opts:    opts,
		printer: message.NewPrinter(language.English),
	}
}

// Analyze scores loads and, when enough history is given, also flags loads far
// above anything seen before. Each call seeds its own generator, so results
// are reproducible and calls share no state.
func (d *Detector) Analyze(loads, history []models.Load) (*Result, error) {
	values, err := loadValues(loads, "carga")
	if err != nil {
		return nil, err
	}
	historic, err := loadValues(history, "historico")
	if err != nil {
		return nil, err
	}

	result := &Result{
		Anomalies:  []Anomaly{},
		TotalLoads: len(loads),
	}

	if len(loads) < d.opts.MinLoads {
		result.Warning = fmt.Sprintf("Numero insuficiente de cargas para analise (minimo %d)", d.opts.MinLoads)
	} else {
		stats := Describe(values)
		if !stats.finite() {
			return nil, models.NewValidationError(nil, MsgValuesOutOfRange)
		}
		result.Statistics = &stats
		result.Anomalies = d.isolate(loads, values, stats)
	}

	if len(history) >= d.opts.MinHistory {
		hs := Describe(historic)
		if !hs.finite() {
			return nil, models.NewValidationError(nil, MsgValuesOutOfRange)
		}
		result.History = d.compareHistory(result, loads, values, hs)
	}

	result.TotalAnomalies = len(result.Anomalies)
	if result.TotalLoads > 0 {
		rate := float64(result.TotalAnomalies) / float64(result.TotalLoads) * 100
		result.AnomalyRate = math.Round(rate*100) / 100
	}
	return result, nil
}

func (d *Detector) isolate(loads []models.Load, values []float64, stats Statistics) []Anomaly {
	rng := rand.New(rand.NewSource(d.opts.Seed))
	forest := NewForest(values, d.opts.Trees, rng)

	scores := make([]float64, len(values))
	for i, v := range values {
		scores[i] = forest.Score(v)
	}
	sorted := sortedCopy(scores)
	threshold := Percentile(sorted, d.opts.Contamination*100)
	lowest, highest := sorted[0], sorted[len(sorted)-1]

	anomalies := []Anomaly{}
	for i, score := range scores {
		if score >= threshold {
			continue
		}
		kind := classify(values[i], stats)
		s := score
		anomalies = append(anomalies, Anomaly{
			ID:         loads[i].ID,
			Vehicle:    loads[i].Vehicle,
			Chassis:    loads[i].Chassis,
			Value:      values[i],
			Kind:       kind,
			Severity:   severity(score, lowest, highest),
			Score:      &s,
			Suggestion: d.suggest(values[i], stats, kind),
			Expected:   stats.Median,
		})
	}
	return anomalies
}

func (d *Detector) compareHistory(result *Result, loads []models.Load, values []float64, hs Statistics) *HistoryComparison {
	cmp := &HistoryComparison{
		Mean:   hs.Mean,
		Median: hs.Median,
		Max:    hs.Max,
		Min:    hs.Min,
	}

	for i, v := range values {
		if v <= cmp.Max*2 || alreadyFlagged(result.Anomalies, loads[i].ID) {
			continue
		}
		result.Anomalies = append(result.Anomalies, Anomaly{
			ID:         loads[i].ID,
			Vehicle:    loads[i].Vehicle,
			Value:      v,
			Kind:       KindAboveHistory,
			Severity:   historySeverity,
			Suggestion: d.printer.Sprintf("Valor ¥%.0f e 2x maior que maximo historico (¥%.0f)", v, cmp.Max),
			Expected:   cmp.Mean,
		})
	}
	return cmp
}

func classify(v float64, s Statistics) Kind {
	switch {
	case v > s.Q3+1.5*s.IQR:
		if v > s.Mean*2 {
			return KindVeryHigh
		}
		return KindHigh
	case v < s.Q1-1.5*s.IQR:
		if v < s.Mean*0.5 {
			return KindVeryLow
		}
		return KindLow
	}
	return KindOutlier
}

// severity maps a score onto 0..100 relative to the batch, 100 being the most
// isolated load.
func severity(score, lowest, highest float64) int {
	if highest == lowest {
		return flatScoreSeverity
	}
	return int(100 - (score-lowest)/(highest-lowest)*100)
}

func (d *Detector) suggest(v float64, s Statistics, kind Kind) string {
	p := d.printer
	switch kind {
	case KindVeryHigh:
		return p.Sprintf("Valor %.0f esta muito acima da media (%.0f). Verifique se nao ha zeros extras.", v, s.Mean)
	case KindHigh:
		return p.Sprintf("Valor %.0f esta acima do esperado (%.0f). Confirme se esta correto.", v, s.Median)
	case KindVeryLow:
		return p.Sprintf("Valor %.0f esta muito abaixo da media (%.0f). Verifique se nao faltam digitos.", v, s.Mean)
	case KindLow:
		return p.Sprintf("Valor %.0f esta abaixo do esperado (%.0f). Confirme se esta correto.", v, s.Median)
	case KindOutlier:
		return p.Sprintf("Valor %.0f e incomum. Valor tipico e ¥%.0f.", v, s.Median)
	}
	return "Verifique este valor."
}

func alreadyFlagged(anomalies []Anomaly, id any) bool {
	key := fmt.Sprint(id)
	for _, a := range anomalies {
		if fmt.Sprint(a.ID) == key {
			return true
		}
	}
	return false
}

func loadValues(loads []models.Load, label string) ([]float64, error) {
	values := make([]float64, len(loads))
	for i, l := range loads {
		v, err := coerce.Number(l.Value)
		if err != nil {
			return nil, models.NewValidationError(err, "%s %d: valor invalido", label, i)
		}
		values[i] = v
	}
	return values, nil
}

