package models

// Load is a freight load submitted for anomaly analysis. Identifiers are
// passed through untouched, so they keep whatever JSON type the caller used.
type Load struct {
	ID      any `json:"ID_CARGAS"`
	Vehicle any `json:"CARGAS_VEICULO"`
	Chassis any `json:"CARGAS_CHASSIS"`
	Value   any `json:"CARGAS_VALOR"`
}
