package anomaly

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinsei/entregas/internal/models"
)

func loadsFrom(values ...any) []models.Load {
	loads := make([]models.Load, len(values))
	for i, v := range values {
		loads[i] = models.Load{
			ID:      float64(i + 1),
			Vehicle: "CAMINHAO",
			Chassis: "CH-" + strings.Repeat("X", i+1),
			Value:   v,
		}
	}
	return loads
}

func TestAnalyzeFlagsOutlier(t *testing.T) {
	d := NewDetector(DefaultOptions())
	loads := loadsFrom(100.0, 105.0, 98.0, 102.0, 101.0, 99.0, 103.0, 5000.0)

	result, err := d.Analyze(loads, nil)
	require.NoError(t, err)

	require.Len(t, result.Anomalies, 1)
	a := result.Anomalies[0]
	assert.Equal(t, float64(8), a.ID)
	assert.Equal(t, 5000.0, a.Value)
	assert.Equal(t, KindVeryHigh, a.Kind)
	assert.Equal(t, 100, a.Severity)
	assert.Equal(t, 101.5, a.Expected)
	require.NotNil(t, a.Score)
	assert.Contains(t, a.Suggestion, "muito acima da media")

	require.NotNil(t, result.Statistics)
	assert.Equal(t, 98.0, result.Statistics.Min)
	assert.Equal(t, 5000.0, result.Statistics.Max)
	assert.Equal(t, 8, result.TotalLoads)
	assert.Equal(t, 1, result.TotalAnomalies)
	assert.Equal(t, 12.5, result.AnomalyRate)
	assert.Empty(t, result.Warning)
	assert.Nil(t, result.History)
}

func TestAnalyzeInsufficientLoads(t *testing.T) {
	d := NewDetector(DefaultOptions())

	result, err := d.Analyze(loadsFrom(10.0, 20.0), nil)
	require.NoError(t, err)

	assert.NotNil(t, result.Anomalies)
	assert.Empty(t, result.Anomalies)
	assert.Nil(t, result.Statistics)
	assert.Equal(t, "Numero insuficiente de cargas para analise (minimo 3)", result.Warning)
	assert.Equal(t, 2, result.TotalLoads)
}

func TestAnalyzeConstantValues(t *testing.T) {
	d := NewDetector(DefaultOptions())

	result, err := d.Analyze(loadsFrom(50.0, 50.0, 50.0, 50.0), nil)
	require.NoError(t, err)

	assert.Empty(t, result.Anomalies)
	assert.Equal(t, 0.0, result.AnomalyRate)
}

func TestAnalyzeWithHistory(t *testing.T) {
	d := NewDetector(DefaultOptions())
	history := make([]models.Load, 10)
	for i := range history {
		history[i] = models.Load{ID: i, Value: 100.0}
	}

	result, err := d.Analyze(loadsFrom(300.0, 300.0, 300.0), history)
	require.NoError(t, err)

	require.NotNil(t, result.History)
	assert.Equal(t, 100.0, result.History.Max)
	assert.Equal(t, 100.0, result.History.Mean)

	require.Len(t, result.Anomalies, 3)
	for _, a := range result.Anomalies {
		assert.Equal(t, KindAboveHistory, a.Kind)
		assert.Equal(t, 90, a.Severity)
		assert.Equal(t, 100.0, a.Expected)
		assert.Nil(t, a.Score)
		assert.Nil(t, a.Chassis)
	}
	assert.Equal(t, 3, result.TotalAnomalies)
	assert.Equal(t, 100.0, result.AnomalyRate)
}

func TestAnalyzeShortHistoryIsIgnored(t *testing.T) {
	d := NewDetector(DefaultOptions())
	history := []models.Load{{Value: 1.0}, {Value: 2.0}}

	result, err := d.Analyze(loadsFrom(300.0, 300.0, 300.0), history)
	require.NoError(t, err)

	assert.Nil(t, result.History)
	assert.Empty(t, result.Anomalies)
}

func TestAnalyzeInvalidValue(t *testing.T) {
	d := NewDetector(DefaultOptions())

	_, err := d.Analyze(loadsFrom(1.0, "dez", 3.0), nil)

	var verr *models.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "carga 1: valor invalido", verr.Message)
}

func TestAnalyzeEmptyStringValue(t *testing.T) {
	d := NewDetector(DefaultOptions())

	_, err := d.Analyze(loadsFrom(1.0, 2.0, ""), nil)

	var verr *models.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "carga 2: valor invalido", verr.Message)
}

func TestAnalyzeValuesOutOfRange(t *testing.T) {
	d := NewDetector(DefaultOptions())

	result, err := d.Analyze(loadsFrom(-1e308, 1e308, 5.0), nil)

	var verr *models.ValidationError
	require.True(t, errors.As(err, &verr), "expected a validation error, got %v", err)
	assert.Equal(t, MsgValuesOutOfRange, verr.Message)
	assert.Nil(t, result)
}

func TestAnalyzeHistoryOutOfRange(t *testing.T) {
	d := NewDetector(DefaultOptions())
	history := make([]models.Load, 10)
	for i := range history {
		history[i] = models.Load{ID: i, Value: 1e308}
		if i%2 == 1 {
			history[i].Value = -1e308
		}
	}

	_, err := d.Analyze(loadsFrom(1.0, 2.0, 3.0), history)

	var verr *models.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, MsgValuesOutOfRange, verr.Message)
}

func TestClassify(t *testing.T) {
	s := Statistics{Mean: 100, Q1: 90, Q3: 110, IQR: 20}

	testCases := []struct {
		value    float64
		expected Kind
	}{
		{250, KindVeryHigh},
		{150, KindHigh},
		{40, KindVeryLow},
		{55, KindLow},
		{100, KindOutlier},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, classify(tc.value, s), "value %v", tc.value)
	}
}

func TestSeverity(t *testing.T) {
	assert.Equal(t, 50, severity(-0.5, -0.5, -0.5))
	assert.Equal(t, 100, severity(-1, -1, -0.5))
	assert.Equal(t, 0, severity(-0.5, -1, -0.5))
	assert.Equal(t, 50, severity(-0.75, -1, -0.5))
}

func TestNewDetectorFillsDefaults(t *testing.T) {
	d := NewDetector(Options{Contamination: 2})
	assert.Equal(t, DefaultOptions().Contamination, d.opts.Contamination)
	assert.Equal(t, 100, d.opts.Trees)
	assert.Equal(t, 3, d.opts.MinLoads)
	assert.Equal(t, 10, d.opts.MinHistory)
}
