package report

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinsei/entregas/internal/models"
)

func TestParseRequest(t *testing.T) {
	body := `{"entregas": [
		{"id": 1, "valor": 100.0, "status": "entregue"},
		{"valor": "50.5", "status": "pendente"},
		{"id": 3, "status": "cancelado"},
		{"id": 4, "valor": null, "status": 7}
	]}`

	records, err := ParseRequest([]byte(body))
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, models.DeliveryRecord{ID: 1, Value: 100, Status: models.DeliveryDelivered}, records[0])
	assert.Equal(t, models.DeliveryRecord{ID: 0, Value: 50.5, Status: models.DeliveryPending}, records[1])
	assert.Equal(t, models.DeliveryRecord{ID: 3, Value: 0, Status: models.DeliveryCanceled}, records[2])
	assert.Equal(t, models.DeliveryStatus(""), records[3].Status)
}

func TestParseRequestEmptyList(t *testing.T) {
	records, err := ParseRequest([]byte(`{"entregas": []}`))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestParseRequestValidation(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{"malformed json", `{"entregas": [`},
		{"empty body", ``},
		{"not an object", `[{"valor": 1}]`},
		{"missing entregas", `{"outra": []}`},
		{"empty object", `{}`},
		{"null body", `null`},
		{"entregas null", `{"entregas": null}`},
		{"entregas object", `{"entregas": {"valor": 1}}`},
		{"entregas string", `{"entregas": "abc"}`},
		{"record not an object", `{"entregas": [1, 2]}`},
		{"value not numeric", `{"entregas": [{"valor": "abc", "status": "entregue"}]}`},
		{"value is an object", `{"entregas": [{"valor": {"x": 1}, "status": "entregue"}]}`},
		{"value not finite", `{"entregas": [{"valor": "NaN", "status": "entregue"}]}`},
		{"value empty string", `{"entregas": [{"valor": "", "status": "entregue"}]}`},
		{"value blank string", `{"entregas": [{"valor": "   ", "status": "entregue"}]}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			records, err := ParseRequest([]byte(tc.body))
			require.Error(t, err)
			assert.Nil(t, records)

			var verr *models.ValidationError
			assert.True(t, errors.As(err, &verr), "expected a validation error, got %T", err)
		})
	}
}

func TestParseRequestDropsFractionalID(t *testing.T) {
	records, err := ParseRequest([]byte(`{"entregas": [{"id": 1.9, "valor": 1, "status": "entregue"}, {"id": 2.0, "valor": 1}]}`))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, int64(0), records[0].ID)
	assert.Equal(t, int64(2), records[1].ID)
}

func TestParseRequestReportsRecordIndex(t *testing.T) {
	_, err := ParseRequest([]byte(`{"entregas": [{"valor": 1}, {"valor": "x"}]}`))

	var verr *models.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "entrega 1 invalida", verr.Message)
}
