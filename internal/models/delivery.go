package models

type DeliveryStatus string

const (
	DeliveryDelivered DeliveryStatus = "entregue"
	DeliveryPending   DeliveryStatus = "pendente"
	DeliveryCanceled  DeliveryStatus = "cancelado"
)

// DeliveryRecord is one submitted delivery. Status is kept as received, so it
// may hold values outside the three known ones.
type DeliveryRecord struct {
	ID     int64          `json:"id"`
	Value  float64        `json:"valor"`
	Status DeliveryStatus `json:"status"`
}
