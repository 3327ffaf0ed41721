package shipment

// Request is the carrier-conformant projection of an order, in the exact
// field names the create endpoint expects. Credentials are not part of it;
// the HTTP client injects them per call. A Request is never persisted.
type Request struct {
	Reference   string  `json:"reference"`
	Client      string  `json:"client"`
	Phone       string  `json:"phone"`
	Phone2      string  `json:"phone_2,omitempty"`
	Address     string  `json:"adresse"`
	WilayaID    int     `json:"wilaya_id"`
	Commune     string  `json:"commune"`
	Amount      float64 `json:"montant"`
	Remark      string  `json:"remarque"`
	Product     string  `json:"produit"`
	TypeID      int     `json:"type_id"`
	WeightKg    int     `json:"poids"`
	StopDesk    int     `json:"stop_desk"`
	StationCode string  `json:"station_code,omitempty"`
	Stock       int     `json:"stock"`
	Quantity    string  `json:"quantite"`
	CanOpen     int     `json:"can_open"`
}

// Carrier-imposed limits. Strings are truncated to these, not rejected.
const (
	maxStringLen = 255
	maxRemarkLen = 500
)

// TypeDelivery is the only shipment type this storefront creates.
const TypeDelivery = 1

// FieldError is one field-level validation failure. The set of failures is
// surfaced to the operator as-is; nothing is retried automatically because
// the defect is in the data, not the transport.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Reason
}
