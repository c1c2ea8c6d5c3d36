package anomaly

import (
	"encoding/json"

	"github.com/shinsei/entregas/internal/coerce"
	"github.com/shinsei/entregas/internal/models"
)

const MsgInvalidRequest = "Dados invalidos. Envie uma lista de cargas."

// ParseRequest decodes a {"cargas": [...], "historico": [...]} body. The
// history list is optional.
func ParseRequest(body []byte) (loads, history []models.Load, err error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, nil, models.NewValidationError(err, MsgInvalidRequest)
	}

	raw, ok := fields["cargas"]
	if !ok || !coerce.IsArray(raw) {
		return nil, nil, models.NewValidationError(nil, MsgInvalidRequest)
	}
	if err := json.Unmarshal(raw, &loads); err != nil {
		return nil, nil, models.NewValidationError(err, MsgInvalidRequest)
	}

	raw, ok = fields["historico"]
	if !ok || string(raw) == "null" {
		return loads, nil, nil
	}
	if !coerce.IsArray(raw) {
		return nil, nil, models.NewValidationError(nil, "historico deve ser uma lista de cargas")
	}
	if err := json.Unmarshal(raw, &history); err != nil {
		return nil, nil, models.NewValidationError(err, "historico deve ser uma lista de cargas")
	}
	return loads, history, nil
}
