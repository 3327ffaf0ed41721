package shipment

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/rjewls/white-site-sub000/internal/geo"
	"github.com/rjewls/white-site-sub000/internal/models"
)

const defaultWeightKg = 1.0

// Builder turns a locally captured order into a carrier-acceptable Request.
// Order data comes from untrusted customer input, so Build never returns a
// transport error: either a Request (possibly with warnings about corrected
// address data) or a non-empty field-error list.
type Builder struct {
	regions *geo.Dataset
	// canOpen lets the recipient inspect the parcel before paying; the shop
	// ships with inspection allowed.
	canOpen bool
}

func NewBuilder(regions *geo.Dataset) *Builder {
	return &Builder{regions: regions, canOpen: true}
}

// Build validates and sanitizes the order into a Request. Warnings report
// address corrections and defaulted station codes; they never block
// submission.
func (b *Builder) Build(o *models.Order) (*Request, []string, []FieldError) {
	var errs []FieldError

	if o.Reference == "" {
		errs = append(errs, FieldError{Field: "reference", Reason: "missing carrier reference"})
	}

	name := strings.TrimSpace(o.CustomerName)
	if len([]rune(name)) < 2 {
		errs = append(errs, FieldError{Field: "client", Reason: "customer name must be at least 2 characters"})
	}

	phone := digitsOnly(o.Phone)
	if len(phone) < 9 || len(phone) > 10 {
		errs = append(errs, FieldError{Field: "phone", Reason: fmt.Sprintf("phone must contain 9 to 10 digits, got %d", len(phone))})
	}

	address := strings.TrimSpace(o.Address)
	if len([]rune(address)) < 5 {
		errs = append(errs, FieldError{Field: "adresse", Reason: "street address must be at least 5 characters"})
	}

	product := strings.TrimSpace(o.ProductName)
	if product == "" {
		errs = append(errs, FieldError{Field: "produit", Reason: "product name is required"})
	}

	if !o.Amount.IsPositive() {
		errs = append(errs, FieldError{Field: "montant", Reason: "amount must be greater than zero"})
	}

	loc := b.regions.Validate(o.WilayaID, o.Commune)
	warnings := append([]string(nil), loc.Warnings...)

	stopDesk := 0
	station := ""
	if o.DeliveryMode == models.DeliveryStopdesk {
		stopDesk = 1
		if o.StationCode != nil && strings.TrimSpace(*o.StationCode) != "" {
			station = strings.TrimSpace(*o.StationCode)
		} else if code, ok := b.regions.DefaultStation(loc.WilayaID); ok {
			station = code
			warnings = append(warnings, fmt.Sprintf("no station code on order, defaulted to %s for %s", code, loc.WilayaName))
		} else {
			errs = append(errs, FieldError{Field: "station_code", Reason: "stopdesk delivery requires a station code"})
		}
	}

	if len(errs) > 0 {
		return nil, nil, errs
	}

	req := &Request{
		Reference:   truncate(o.Reference, maxStringLen),
		Client:      truncate(name, maxStringLen),
		Phone:       phone,
		Address:     truncate(address, maxStringLen),
		WilayaID:    loc.WilayaID,
		Commune:     loc.Commune,
		Amount:      o.Amount.InexactFloat64(),
		Remark:      truncate(buildRemark(o), maxRemarkLen),
		Product:     truncate(product, maxStringLen),
		TypeID:      TypeDelivery,
		WeightKg:    resolveWeight(o),
		StopDesk:    stopDesk,
		StationCode: station,
		Stock:       0,
		Quantity:    strconv.Itoa(o.TotalQuantity()),
		CanOpen:     boolToInt(b.canOpen),
	}
	return req, warnings, nil
}

// resolveWeight picks the order weight, then the linked product weight,
// then 1 kg, and rounds to a positive integer. Rounding (not truncating)
// keeps a sub-1kg declared weight from becoming a zero the carrier rejects.
func resolveWeight(o *models.Order) int {
	kg := defaultWeightKg
	switch {
	case o.WeightKg > 0:
		kg = o.WeightKg
	case o.ProductWeightKg > 0:
		kg = o.ProductWeightKg
	}
	w := int(math.Round(kg))
	if w < 1 {
		return 1
	}
	return w
}

// buildRemark concatenates everything the courier should read on the slip:
// product, quantities, per-item variants, delivery preference and customer
// notes.
func buildRemark(o *models.Order) string {
	var parts []string
	parts = append(parts, fmt.Sprintf("Produit: %s", strings.TrimSpace(o.ProductName)))
	parts = append(parts, fmt.Sprintf("Qte: %d", o.TotalQuantity()))
	for _, it := range o.Items {
		var attrs []string
		if it.Color != "" {
			attrs = append(attrs, "couleur "+it.Color)
		}
		if it.Size != "" {
			attrs = append(attrs, "taille "+it.Size)
		}
		if len(attrs) > 0 {
			parts = append(parts, fmt.Sprintf("%s x%d (%s)", it.Name, it.Quantity, strings.Join(attrs, ", ")))
		}
	}
	if o.DeliveryMode == models.DeliveryStopdesk {
		parts = append(parts, "Retrait au bureau")
	} else {
		parts = append(parts, "Livraison a domicile")
	}
	if n := strings.TrimSpace(o.Notes); n != "" {
		parts = append(parts, "Note: "+n)
	}
	return strings.Join(parts, " | ")
}

func digitsOnly(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
