package messages

import "time"

// OrderPlaced is what the storefront publishes when a customer submits a
// purchase. The fulfillment service consumes it and creates a PENDING order.
type OrderPlaced struct {
	CustomerName    string    `json:"customer_name"`
	Phone           string    `json:"phone"`
	Address         string    `json:"address"`
	WilayaID        int       `json:"wilaya_id"`
	Commune         string    `json:"commune"`
	ProductName     string    `json:"product_name"`
	ProductWeightKg float64   `json:"product_weight_kg,omitempty"`
	WeightKg        float64   `json:"weight_kg,omitempty"`
	Amount          string    `json:"amount"`
	DeliveryMode    string    `json:"delivery_mode"`
	StationCode     *string   `json:"station_code,omitempty"`
	Items           []Item    `json:"items,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	PlacedAt        time.Time `json:"placed_at"`
}

type Item struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Color    string `json:"color,omitempty"`
	Size     string `json:"size,omitempty"`
}

// OrderStatusChanged is published on every lifecycle transition so the
// storefront and back-office dashboards can follow fulfillment progress.
type OrderStatusChanged struct {
	OrderID        uint64    `json:"order_id"`
	Reference      string    `json:"reference"`
	Status         string    `json:"status"`
	TrackingNumber string    `json:"tracking_number,omitempty"`
	Reason         string    `json:"reason,omitempty"`
	ChangedAt      time.Time `json:"changed_at"`
}
