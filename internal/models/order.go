package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order lifecycle statuses. A tracking number exists if and only if the
// order is SUBMITTED or CONFIRMED.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusSubmitted Status = "SUBMITTED"
	StatusConfirmed Status = "CONFIRMED"
	StatusRejected  Status = "REJECTED"
)

// Delivery modes supported by the carrier.
const (
	DeliveryHome     = "home"
	DeliveryStopdesk = "stopdesk"
)

type Order struct {
	ID           uint64
	CustomerName string
	Phone        string
	Address      string
	WilayaID     int
	// Commune as entered by the customer; validated/corrected only at
	// shipment build time, the original input is kept.
	Commune string

	ProductName     string
	ProductWeightKg float64
	WeightKg        float64
	Amount          decimal.Decimal
	DeliveryMode    string
	StationCode     *string
	Items           []OrderItem
	Notes           string

	Status          Status
	TrackingNumber  *string
	ResolvedStation *string
	FailureReason   *string

	// Reference is the stable carrier-facing idempotency key, assigned at
	// creation and reused across submit attempts.
	Reference      string
	SubmitInFlight bool

	Version   int32
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderItem is one line of the order with its per-unit variant.
type OrderItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Color    string `json:"color,omitempty"`
	Size     string `json:"size,omitempty"`
}

func (o *Order) HasTracking() bool {
	return o.TrackingNumber != nil && *o.TrackingNumber != ""
}

func (o *Order) TotalQuantity() int {
	if len(o.Items) == 0 {
		return 1
	}
	n := 0
	for _, it := range o.Items {
		if it.Quantity > 0 {
			n += it.Quantity
		}
	}
	if n == 0 {
		return 1
	}
	return n
}

type OrderCreateInput struct {
	CustomerName    string
	Phone           string
	Address         string
	WilayaID        int
	Commune         string
	ProductName     string
	ProductWeightKg float64
	WeightKg        float64
	Amount          decimal.Decimal
	DeliveryMode    string
	StationCode     *string
	Items           []OrderItem
	Notes           string
}

// OrderEdits carries operator corrections. Nil fields are left untouched.
// Applying any edit resets the order to PENDING and clears the failure
// reason.
type OrderEdits struct {
	CustomerName *string
	Phone        *string
	Address      *string
	WilayaID     *int
	Commune      *string
	ProductName  *string
	WeightKg     *float64
	Amount       *decimal.Decimal
	DeliveryMode *string
	StationCode  *string
	Items        []OrderItem
	Notes        *string
}
