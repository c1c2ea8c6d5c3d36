package report

import (
	"encoding/json"
	"fmt"

	"github.com/shinsei/entregas/internal/coerce"
	"github.com/shinsei/entregas/internal/models"
)

const MsgInvalidRequest = "Dados invalidos. Envie uma lista de entregas."

// wireRecord keeps every field loosely typed so coercion happens here and not
// inside encoding/json.
type wireRecord struct {
	ID     any `json:"id"`
	Value  any `json:"valor"`
	Status any `json:"status"`
}

// ParseRequest decodes a {"entregas": [...]} body into delivery records.
func ParseRequest(body []byte) ([]models.DeliveryRecord, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, models.NewValidationError(err, MsgInvalidRequest)
	}

	raw, ok := fields["entregas"]
	if !ok {
		return nil, models.NewValidationError(nil, MsgInvalidRequest)
	}
	return ParseRecords(raw)
}

// ParseRecords decodes a JSON array of delivery records.
func ParseRecords(raw json.RawMessage) ([]models.DeliveryRecord, error) {
	if !coerce.IsArray(raw) {
		return nil, models.NewValidationError(nil, MsgInvalidRequest)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, models.NewValidationError(err, MsgInvalidRequest)
	}

	records := make([]models.DeliveryRecord, 0, len(items))
	for i, item := range items {
		rec, err := parseRecord(item)
		if err != nil {
			return nil, models.NewValidationError(err, "entrega %d invalida", i)
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseRecord(item json.RawMessage) (models.DeliveryRecord, error) {
	if !coerce.IsObject(item) {
		return models.DeliveryRecord{}, fmt.Errorf("esperado objeto, recebido %s", item)
	}

	var w wireRecord
	if err := json.Unmarshal(item, &w); err != nil {
		return models.DeliveryRecord{}, err
	}

	value, err := coerce.Number(w.Value)
	if err != nil {
		return models.DeliveryRecord{}, fmt.Errorf("valor: %w", err)
	}

	// id is informational only, so an id that is not an integer is dropped.
	id, _ := coerce.Int64(w.ID)
	status, _ := w.Status.(string)

	return models.DeliveryRecord{
		ID:     id,
		Value:  value,
		Status: models.DeliveryStatus(status),
	}, nil
}
