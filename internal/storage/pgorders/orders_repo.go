package pgorders

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/rjewls/white-site-sub000/internal/models"
)

const orderColumns = `
  id, reference, customer_name, phone, address, wilaya_id, commune,
  product_name, product_weight_kg, weight_kg, amount::text, delivery_mode,
  station_code, items, notes, status, tracking_number, resolved_station,
  failure_reason, submit_in_flight, version, created_at, updated_at`

func (s *Storage) CreateOrder(ctx context.Context, o *models.Order) (*models.Order, error) {
	now := time.Now().UTC()

	items, err := json.Marshal(o.Items)
	if err != nil {
		return nil, errors.Wrap(err, "marshal items")
	}

	var id uint64
	err = s.db.QueryRow(ctx, `
INSERT INTO orders (
  reference, customer_name, phone, address, wilaya_id, commune,
  product_name, product_weight_kg, weight_kg, amount, delivery_mode,
  station_code, items, notes, status, created_at, updated_at
)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10::numeric,$11,$12,$13,$14,$15,$16,$16)
RETURNING id
`, o.Reference, o.CustomerName, o.Phone, o.Address, o.WilayaID, o.Commune,
		o.ProductName, o.ProductWeightKg, o.WeightKg, o.Amount.String(), o.DeliveryMode,
		o.StationCode, items, o.Notes, string(models.StatusPending), now).Scan(&id)
	if err != nil {
		return nil, errors.Wrap(err, "insert order")
	}

	return s.GetOrderByID(ctx, id)
}

func (s *Storage) GetOrderByID(ctx context.Context, id uint64) (*models.Order, error) {
	row := s.db.QueryRow(ctx, `SELECT`+orderColumns+` FROM orders WHERE id = $1`, id)
	o, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "select order")
	}
	return o, nil
}

func (s *Storage) ListOrders(ctx context.Context, status *models.Status, limit, offset int) ([]*models.Order, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	q := `SELECT` + orderColumns + ` FROM orders`
	args := []any{}
	if status != nil {
		q += ` WHERE status = $1`
		args = append(args, string(*status))
	}
	q += ` ORDER BY created_at DESC LIMIT ` + strconv.Itoa(limit) + ` OFFSET ` + strconv.Itoa(offset)

	rows, err := s.db.Query(ctx, q, args...)
	if err != nil {
		return nil, errors.Wrap(err, "select orders")
	}
	defer rows.Close()

	var out []*models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan order")
		}
		out = append(out, o)
	}
	if rows.Err() != nil {
		return nil, errors.Wrap(rows.Err(), "rows")
	}
	return out, nil
}

// UpdateOrder writes back every mutable field, guarded by the version the
// caller read. A concurrent writer bumps the version first and this update
// then matches zero rows, surfacing ErrVersionConflict instead of silently
// clobbering.
func (s *Storage) UpdateOrder(ctx context.Context, o *models.Order) (*models.Order, error) {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return nil, errors.Wrap(err, "marshal items")
	}

	tag, err := s.db.Exec(ctx, `
UPDATE orders
SET
  customer_name = $3,
  phone = $4,
  address = $5,
  wilaya_id = $6,
  commune = $7,
  product_name = $8,
  product_weight_kg = $9,
  weight_kg = $10,
  amount = $11::numeric,
  delivery_mode = $12,
  station_code = $13,
  items = $14,
  notes = $15,
  status = $16,
  tracking_number = $17,
  resolved_station = $18,
  failure_reason = $19,
  submit_in_flight = $20,
  version = version + 1,
  updated_at = now()
WHERE id = $1 AND version = $2
`, o.ID, o.Version,
		o.CustomerName, o.Phone, o.Address, o.WilayaID, o.Commune,
		o.ProductName, o.ProductWeightKg, o.WeightKg, o.Amount.String(), o.DeliveryMode,
		o.StationCode, items, o.Notes, string(o.Status), o.TrackingNumber,
		o.ResolvedStation, o.FailureReason, o.SubmitInFlight)
	if err != nil {
		return nil, errors.Wrap(err, "update order")
	}
	if tag.RowsAffected() == 0 {
		// Either the row is gone or someone else won the version race.
		if _, err := s.GetOrderByID(ctx, o.ID); err != nil {
			return nil, err
		}
		return nil, models.ErrVersionConflict
	}

	return s.GetOrderByID(ctx, o.ID)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*models.Order, error) {
	var o models.Order
	var amount string
	var items []byte
	var status string
	if err := row.Scan(
		&o.ID, &o.Reference, &o.CustomerName, &o.Phone, &o.Address, &o.WilayaID, &o.Commune,
		&o.ProductName, &o.ProductWeightKg, &o.WeightKg, &amount, &o.DeliveryMode,
		&o.StationCode, &items, &o.Notes, &status, &o.TrackingNumber, &o.ResolvedStation,
		&o.FailureReason, &o.SubmitInFlight, &o.Version, &o.CreatedAt, &o.UpdatedAt,
	); err != nil {
		return nil, err
	}

	amt, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, errors.Wrap(err, "parse amount")
	}
	o.Amount = amt
	o.Status = models.Status(status)

	if len(items) > 0 {
		if err := json.Unmarshal(items, &o.Items); err != nil {
			return nil, errors.Wrap(err, "unmarshal items")
		}
	}
	return &o, nil
}
