package fulfillment

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/rjewls/white-site-sub000/internal/broker/messages"
	"github.com/rjewls/white-site-sub000/internal/cache"
	"github.com/rjewls/white-site-sub000/internal/integrations/carrier"
	"github.com/rjewls/white-site-sub000/internal/models"
	"github.com/rjewls/white-site-sub000/internal/shipment"
)

type Repository interface {
	CreateOrder(ctx context.Context, o *models.Order) (*models.Order, error)
	GetOrderByID(ctx context.Context, id uint64) (*models.Order, error)
	ListOrders(ctx context.Context, status *models.Status, limit, offset int) ([]*models.Order, error)
	UpdateOrder(ctx context.Context, o *models.Order) (*models.Order, error)
}

type Producer interface {
	Publish(ctx context.Context, topic string, key, value []byte) error
}

type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int64, window time.Duration) (bool, int64, error)
}

type Notifier interface {
	OrderCreated(ctx context.Context, o *models.Order)
	OrderSubmitted(ctx context.Context, o *models.Order)
	OrderShipped(ctx context.Context, o *models.Order)
}

var ErrRateLimited = errors.New("carrier rate limit reached, retry shortly")

// BuildFailedError carries the builder's field-level failures up to the
// operator. The order data is defective; nothing is retried automatically.
type BuildFailedError struct {
	Fields []shipment.FieldError
}

func (e *BuildFailedError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Error())
	}
	return "order data failed validation: " + strings.Join(msgs, "; ")
}

// ValidationError marks order data that will never be accepted as-is.
// Intake consumers drop such messages instead of redelivering them.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

// Service drives an order through the fulfillment lifecycle. Every forward
// transition is operator-initiated; carrier submissions dispatch a real
// courier, so nothing here retries or schedules on its own.
type Service struct {
	repo    Repository
	builder *shipment.Builder
	carrier carrier.Client

	cache    cache.BytesCache
	trackTTL time.Duration

	producer Producer
	topic    string

	rl           RateLimiter
	createPerMin int64

	notifier Notifier
}

func New(repo Repository, builder *shipment.Builder, client carrier.Client) *Service {
	return &Service{repo: repo, builder: builder, carrier: client}
}

func (s *Service) WithCache(c cache.BytesCache, trackTTL time.Duration) *Service {
	s.cache = c
	s.trackTTL = trackTTL
	return s
}

func (s *Service) WithEvents(p Producer, topic string) *Service {
	s.producer = p
	s.topic = topic
	return s
}

func (s *Service) WithRateLimit(rl RateLimiter, createPerMin int64) *Service {
	s.rl = rl
	s.createPerMin = createPerMin
	return s
}

func (s *Service) WithNotifier(n Notifier) *Service {
	s.notifier = n
	return s
}

// CreateOrder registers a storefront purchase as a PENDING order and
// assigns its stable carrier reference. Full field validation is deferred
// to upload time; only what cannot be defaulted is checked here.
func (s *Service) CreateOrder(ctx context.Context, in models.OrderCreateInput) (*models.Order, error) {
	if strings.TrimSpace(in.CustomerName) == "" {
		return nil, &ValidationError{msg: "customerName is required"}
	}
	if strings.TrimSpace(in.Phone) == "" {
		return nil, &ValidationError{msg: "phone is required"}
	}
	if strings.TrimSpace(in.ProductName) == "" {
		return nil, &ValidationError{msg: "productName is required"}
	}
	mode := in.DeliveryMode
	if mode == "" {
		mode = models.DeliveryHome
	}
	if mode != models.DeliveryHome && mode != models.DeliveryStopdesk {
		return nil, &ValidationError{msg: fmt.Sprintf("unknown delivery mode %q", mode)}
	}

	o := &models.Order{
		Reference:       uuid.NewString(),
		CustomerName:    strings.TrimSpace(in.CustomerName),
		Phone:           strings.TrimSpace(in.Phone),
		Address:         strings.TrimSpace(in.Address),
		WilayaID:        in.WilayaID,
		Commune:         strings.TrimSpace(in.Commune),
		ProductName:     strings.TrimSpace(in.ProductName),
		ProductWeightKg: in.ProductWeightKg,
		WeightKg:        in.WeightKg,
		Amount:          in.Amount,
		DeliveryMode:    mode,
		StationCode:     in.StationCode,
		Items:           in.Items,
		Notes:           in.Notes,
		Status:          models.StatusPending,
	}

	created, err := s.repo.CreateOrder(ctx, o)
	if err != nil {
		return nil, errors.Wrap(err, "create order")
	}

	if s.notifier != nil {
		s.notifier.OrderCreated(ctx, created)
	}
	s.publishStatus(ctx, created, "")
	return created, nil
}

// HandleOrderPlaced is the kafka intake path: one storefront purchase
// message becomes one PENDING order.
func (s *Service) HandleOrderPlaced(ctx context.Context, msg messages.OrderPlaced) error {
	amount, err := decimal.NewFromString(msg.Amount)
	if err != nil {
		return &ValidationError{msg: fmt.Sprintf("bad amount %q: %v", msg.Amount, err)}
	}

	items := make([]models.OrderItem, 0, len(msg.Items))
	for _, it := range msg.Items {
		items = append(items, models.OrderItem{Name: it.Name, Quantity: it.Quantity, Color: it.Color, Size: it.Size})
	}

	_, err = s.CreateOrder(ctx, models.OrderCreateInput{
		CustomerName:    msg.CustomerName,
		Phone:           msg.Phone,
		Address:         msg.Address,
		WilayaID:        msg.WilayaID,
		Commune:         msg.Commune,
		ProductName:     msg.ProductName,
		ProductWeightKg: msg.ProductWeightKg,
		WeightKg:        msg.WeightKg,
		Amount:          amount,
		DeliveryMode:    msg.DeliveryMode,
		StationCode:     msg.StationCode,
		Items:           items,
		Notes:           msg.Notes,
	})
	return err
}

func (s *Service) GetOrder(ctx context.Context, id uint64) (*models.Order, error) {
	return s.repo.GetOrderByID(ctx, id)
}

func (s *Service) ListOrders(ctx context.Context, status *models.Status, limit, offset int) ([]*models.Order, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListOrders(ctx, status, limit, offset)
}

// Upload submits a PENDING order to the carrier. The in-flight flag is
// persisted before the Create call: if the process dies mid-call, the next
// attempt is refused until the operator confirms with force, because the
// carrier may already hold the order (Create is not idempotent).
func (s *Service) Upload(ctx context.Context, orderID uint64, force bool) (*models.Order, []string, error) {
	o, err := s.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	if o.Status != models.StatusPending {
		return o, nil, errors.Wrapf(models.ErrInvalidTransition, "cannot upload order in status %s", o.Status)
	}
	if o.SubmitInFlight && !force {
		return o, nil, models.ErrSubmissionInFlight
	}

	req, warnings, ferrs := s.builder.Build(o)
	if len(ferrs) > 0 {
		o.Status = models.StatusRejected
		reason := (&BuildFailedError{Fields: ferrs}).Error()
		o.FailureReason = &reason
		updated, uerr := s.repo.UpdateOrder(ctx, o)
		if uerr != nil {
			return nil, warnings, uerr
		}
		s.publishStatus(ctx, updated, reason)
		return updated, warnings, &BuildFailedError{Fields: ferrs}
	}

	if s.rl != nil && s.createPerMin > 0 {
		allowed, _, rlErr := s.rl.Allow(ctx, "carrier:create", s.createPerMin, time.Minute)
		if rlErr != nil {
			slog.Warn("rate limiter unavailable, letting the call through", "err", rlErr)
		} else if !allowed {
			return o, warnings, ErrRateLimited
		}
	}

	o.SubmitInFlight = true
	o, err = s.repo.UpdateOrder(ctx, o)
	if err != nil {
		return nil, warnings, err
	}

	tracking, err := s.carrier.Create(ctx, req)
	if err != nil {
		if carrier.IsTransient(err) {
			// Leave in-flight set: the carrier may have recorded the order.
			reason := err.Error()
			o.FailureReason = &reason
			if updated, uerr := s.repo.UpdateOrder(ctx, o); uerr == nil {
				o = updated
			}
			return o, warnings, err
		}
		// Definitive refusal: store the carrier's message verbatim, keep the
		// order PENDING for correction and a deliberate re-attempt.
		reason := err.Error()
		o.FailureReason = &reason
		o.SubmitInFlight = false
		updated, uerr := s.repo.UpdateOrder(ctx, o)
		if uerr != nil {
			return o, warnings, uerr
		}
		s.publishStatus(ctx, updated, reason)
		return updated, warnings, err
	}

	o.Status = models.StatusSubmitted
	o.TrackingNumber = &tracking
	o.SubmitInFlight = false
	o.FailureReason = nil
	if req.StopDesk == 1 {
		station := req.StationCode
		o.ResolvedStation = &station
	}
	updated, err := s.repo.UpdateOrder(ctx, o)
	if err != nil {
		return o, warnings, err
	}

	if s.notifier != nil {
		s.notifier.OrderSubmitted(ctx, updated)
	}
	s.publishStatus(ctx, updated, "")
	return updated, warnings, nil
}

// MarkShipped asks the carrier to confirm a SUBMITTED order for dispatch.
func (s *Service) MarkShipped(ctx context.Context, orderID uint64) (*models.Order, error) {
	o, err := s.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.Status != models.StatusSubmitted || !o.HasTracking() {
		return o, errors.Wrapf(models.ErrInvalidTransition, "cannot confirm order in status %s", o.Status)
	}

	if err := s.carrier.Confirm(ctx, *o.TrackingNumber); err != nil {
		if carrier.IsTransient(err) {
			return o, err
		}
		// The tracking number stays: Create succeeded, so the carrier still
		// holds the shipment until the operator withdraws it.
		o.Status = models.StatusRejected
		reason := err.Error()
		o.FailureReason = &reason
		updated, uerr := s.repo.UpdateOrder(ctx, o)
		if uerr != nil {
			return o, uerr
		}
		s.publishStatus(ctx, updated, reason)
		return updated, err
	}

	o.Status = models.StatusConfirmed
	o.FailureReason = nil
	updated, err := s.repo.UpdateOrder(ctx, o)
	if err != nil {
		return o, err
	}

	if s.notifier != nil {
		s.notifier.OrderShipped(ctx, updated)
	}
	s.publishStatus(ctx, updated, "")
	return updated, nil
}

// Withdraw deletes a shipment the carrier holds (SUBMITTED, or REJECTED
// after a refused Confirm) and returns the order to PENDING, clearing the
// tracking number. Required before editing an order the carrier already
// holds.
func (s *Service) Withdraw(ctx context.Context, orderID uint64) (*models.Order, error) {
	o, err := s.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	withdrawable := o.Status == models.StatusSubmitted || o.Status == models.StatusRejected
	if !withdrawable || !o.HasTracking() {
		return o, errors.Wrapf(models.ErrInvalidTransition, "cannot withdraw order in status %s", o.Status)
	}

	tracking := *o.TrackingNumber
	if err := s.carrier.Delete(ctx, tracking); err != nil {
		if !carrier.IsTransient(err) {
			reason := err.Error()
			o.FailureReason = &reason
			if updated, uerr := s.repo.UpdateOrder(ctx, o); uerr == nil {
				o = updated
			}
		}
		return o, err
	}

	o.Status = models.StatusPending
	o.TrackingNumber = nil
	o.ResolvedStation = nil
	o.SubmitInFlight = false
	o.FailureReason = nil
	updated, err := s.repo.UpdateOrder(ctx, o)
	if err != nil {
		return o, err
	}

	if s.cache != nil {
		_ = s.cache.Del(ctx, trackKey(tracking))
	}
	s.publishStatus(ctx, updated, "")
	return updated, nil
}

// UpdateOrder applies operator corrections and resets the order to PENDING,
// clearing any stored failure reason. The version is the one the operator
// read; a concurrent edit surfaces ErrVersionConflict. Any order the
// carrier still holds (SUBMITTED, or REJECTED with a tracking number after
// a refused Confirm) must be withdrawn first; a CONFIRMED one is closed.
// Resetting to PENDING while a tracking number exists would let a second
// Upload create a duplicate shipment.
func (s *Service) UpdateOrder(ctx context.Context, orderID uint64, version int32, edits models.OrderEdits) (*models.Order, error) {
	o, err := s.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.Status == models.StatusConfirmed || o.Status == models.StatusSubmitted {
		return o, errors.Wrapf(models.ErrInvalidTransition, "cannot edit order in status %s", o.Status)
	}
	if o.HasTracking() {
		return o, errors.Wrap(models.ErrInvalidTransition, "the carrier still holds this shipment, withdraw it before editing")
	}

	applyEdits(o, edits)
	o.Version = version
	o.Status = models.StatusPending
	o.FailureReason = nil

	updated, err := s.repo.UpdateOrder(ctx, o)
	if err != nil {
		return nil, err
	}
	s.publishStatus(ctx, updated, "")
	return updated, nil
}

// TrackStatus is a one-shot status query for the given orders. Results are
// cached briefly so an operator refreshing the order list does not hammer
// the carrier.
func (s *Service) TrackStatus(ctx context.Context, orderIDs []uint64) (map[uint64]carrier.TrackingInfo, error) {
	out := make(map[uint64]carrier.TrackingInfo, len(orderIDs))
	byTracking := make(map[string]uint64, len(orderIDs))
	var misses []string

	for _, id := range orderIDs {
		o, err := s.repo.GetOrderByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if !o.HasTracking() {
			continue
		}
		tr := *o.TrackingNumber
		byTracking[tr] = id

		if s.cache != nil && s.trackTTL > 0 {
			if b, ok, err := s.cache.Get(ctx, trackKey(tr)); err == nil && ok {
				var info carrier.TrackingInfo
				if json.Unmarshal(b, &info) == nil {
					out[id] = info
					continue
				}
			}
		}
		misses = append(misses, tr)
	}

	if len(misses) == 0 {
		return out, nil
	}

	infos, err := s.carrier.Track(ctx, misses)
	if err != nil {
		return nil, err
	}
	for tr, info := range infos {
		id, ok := byTracking[tr]
		if !ok {
			continue
		}
		out[id] = info
		if s.cache != nil && s.trackTTL > 0 {
			if b, err := json.Marshal(info); err == nil {
				_ = s.cache.Set(ctx, trackKey(tr), b, s.trackTTL)
			}
		}
	}
	return out, nil
}

func applyEdits(o *models.Order, e models.OrderEdits) {
	if e.CustomerName != nil {
		o.CustomerName = strings.TrimSpace(*e.CustomerName)
	}
	if e.Phone != nil {
		o.Phone = strings.TrimSpace(*e.Phone)
	}
	if e.Address != nil {
		o.Address = strings.TrimSpace(*e.Address)
	}
	if e.WilayaID != nil {
		o.WilayaID = *e.WilayaID
	}
	if e.Commune != nil {
		o.Commune = strings.TrimSpace(*e.Commune)
	}
	if e.ProductName != nil {
		o.ProductName = strings.TrimSpace(*e.ProductName)
	}
	if e.WeightKg != nil {
		o.WeightKg = *e.WeightKg
	}
	if e.Amount != nil {
		o.Amount = *e.Amount
	}
	if e.DeliveryMode != nil {
		o.DeliveryMode = *e.DeliveryMode
	}
	if e.StationCode != nil {
		o.StationCode = e.StationCode
	}
	if e.Items != nil {
		o.Items = e.Items
	}
	if e.Notes != nil {
		o.Notes = strings.TrimSpace(*e.Notes)
	}
}

// publishStatus emits a status-changed event. Events feed dashboards and
// are advisory; a broker outage must not fail an operator action.
func (s *Service) publishStatus(ctx context.Context, o *models.Order, reason string) {
	if s.producer == nil || s.topic == "" {
		return
	}

	tracking := ""
	if o.TrackingNumber != nil {
		tracking = *o.TrackingNumber
	}
	b, err := json.Marshal(messages.OrderStatusChanged{
		OrderID:        o.ID,
		Reference:      o.Reference,
		Status:         string(o.Status),
		TrackingNumber: tracking,
		Reason:         reason,
		ChangedAt:      time.Now().UTC(),
	})
	if err != nil {
		slog.Warn("marshal status event", "err", err)
		return
	}
	if err := s.producer.Publish(ctx, s.topic, []byte(o.Reference), b); err != nil {
		slog.Warn("publish status event", "orderId", o.ID, "err", err)
	}
}

func trackKey(tracking string) string {
	return fmt.Sprintf("track:%s:status", tracking)
}
