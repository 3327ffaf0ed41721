package orders_api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/rjewls/white-site-sub000/internal/integrations/carrier"
	"github.com/rjewls/white-site-sub000/internal/models"
	"github.com/rjewls/white-site-sub000/internal/services/fulfillment"
)

// OrdersAPI maps the fulfillment service onto JSON-over-HTTP for the
// back-office UI. It owns no business rules; every decision lives in the
// service, this layer only translates.
type OrdersAPI struct {
	svc      *fulfillment.Service
	validate *validator.Validate
}

func New(svc *fulfillment.Service) *OrdersAPI {
	return &OrdersAPI{svc: svc, validate: validator.New()}
}

func (a *OrdersAPI) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", a.createOrder)
	r.Get("/", a.listOrders)
	r.Post("/track", a.trackOrders)
	r.Route("/{orderID}", func(r chi.Router) {
		r.Get("/", a.getOrder)
		r.Patch("/", a.updateOrder)
		r.Post("/upload", a.uploadOrder)
		r.Post("/confirm", a.confirmOrder)
		r.Post("/withdraw", a.withdrawOrder)
	})
	return r
}

type orderItemDTO struct {
	Name     string `json:"name" validate:"required"`
	Quantity int    `json:"quantity" validate:"gte=1"`
	Color    string `json:"color,omitempty"`
	Size     string `json:"size,omitempty"`
}

type createOrderRequest struct {
	CustomerName    string         `json:"customerName" validate:"required"`
	Phone           string         `json:"phone" validate:"required"`
	Address         string         `json:"address"`
	WilayaID        int            `json:"wilayaId" validate:"required"`
	Commune         string         `json:"commune"`
	ProductName     string         `json:"productName" validate:"required"`
	ProductWeightKg float64        `json:"productWeightKg,omitempty"`
	WeightKg        float64        `json:"weightKg,omitempty"`
	Amount          string         `json:"amount" validate:"required"`
	DeliveryMode    string         `json:"deliveryMode" validate:"omitempty,oneof=home stopdesk"`
	StationCode     *string        `json:"stationCode,omitempty"`
	Items           []orderItemDTO `json:"items,omitempty" validate:"dive"`
	Notes           string         `json:"notes,omitempty"`
}

type updateOrderRequest struct {
	Version      int32          `json:"version" validate:"required,gte=1"`
	CustomerName *string        `json:"customerName,omitempty"`
	Phone        *string        `json:"phone,omitempty"`
	Address      *string        `json:"address,omitempty"`
	WilayaID     *int           `json:"wilayaId,omitempty"`
	Commune      *string        `json:"commune,omitempty"`
	ProductName  *string        `json:"productName,omitempty"`
	WeightKg     *float64       `json:"weightKg,omitempty"`
	Amount       *string        `json:"amount,omitempty"`
	DeliveryMode *string        `json:"deliveryMode,omitempty" validate:"omitempty,oneof=home stopdesk"`
	StationCode  *string        `json:"stationCode,omitempty"`
	Items        []orderItemDTO `json:"items,omitempty" validate:"omitempty,dive"`
	Notes        *string        `json:"notes,omitempty"`
}

type trackOrdersRequest struct {
	IDs []uint64 `json:"ids" validate:"required,min=1,max=50"`
}

type orderResponse struct {
	ID              uint64             `json:"id"`
	Reference       string             `json:"reference"`
	CustomerName    string             `json:"customerName"`
	Phone           string             `json:"phone"`
	Address         string             `json:"address"`
	WilayaID        int                `json:"wilayaId"`
	Commune         string             `json:"commune"`
	ProductName     string             `json:"productName"`
	WeightKg        float64            `json:"weightKg,omitempty"`
	Amount          string             `json:"amount"`
	DeliveryMode    string             `json:"deliveryMode"`
	StationCode     *string            `json:"stationCode,omitempty"`
	Items           []models.OrderItem `json:"items,omitempty"`
	Notes           string             `json:"notes,omitempty"`
	Status          string             `json:"status"`
	TrackingNumber  *string            `json:"trackingNumber,omitempty"`
	ResolvedStation *string            `json:"resolvedStation,omitempty"`
	FailureReason   *string            `json:"failureReason,omitempty"`
	SubmitInFlight  bool               `json:"submitInFlight"`
	Version         int32              `json:"version"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
}

type uploadResponse struct {
	Order    orderResponse `json:"order"`
	Warnings []string      `json:"warnings,omitempty"`
}

func (a *OrdersAPI) createOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := a.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "amount must be a decimal string")
		return
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, models.OrderItem{Name: it.Name, Quantity: it.Quantity, Color: it.Color, Size: it.Size})
	}

	o, err := a.svc.CreateOrder(r.Context(), models.OrderCreateInput{
		CustomerName:    req.CustomerName,
		Phone:           req.Phone,
		Address:         req.Address,
		WilayaID:        req.WilayaID,
		Commune:         req.Commune,
		ProductName:     req.ProductName,
		ProductWeightKg: req.ProductWeightKg,
		WeightKg:        req.WeightKg,
		Amount:          amount,
		DeliveryMode:    req.DeliveryMode,
		StationCode:     req.StationCode,
		Items:           items,
		Notes:           req.Notes,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderResponse(o))
}

func (a *OrdersAPI) listOrders(w http.ResponseWriter, r *http.Request) {
	var status *models.Status
	if s := r.URL.Query().Get("status"); s != "" {
		st := models.Status(s)
		switch st {
		case models.StatusPending, models.StatusSubmitted, models.StatusConfirmed, models.StatusRejected:
			status = &st
		default:
			writeError(w, http.StatusBadRequest, "unknown status filter")
			return
		}
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	orders, err := a.svc.ListOrders(r.Context(), status, limit, offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": out})
}

func (a *OrdersAPI) getOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}
	o, err := a.svc.GetOrder(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

func (a *OrdersAPI) uploadOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}
	force := r.URL.Query().Get("force") == "true"

	o, warnings, err := a.svc.Upload(r.Context(), id, force)
	if err != nil {
		// The failed attempt usually changed the order (REJECTED status,
		// stored failure reason, bumped version); return it so the UI does
		// not have to re-fetch blindly.
		var bf *fulfillment.BuildFailedError
		if errors.As(err, &bf) && o != nil {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error":    "order data failed validation",
				"fields":   bf.Fields,
				"order":    toOrderResponse(o),
				"warnings": warnings,
			})
			return
		}
		if kind, ok := carrier.ErrorKind(err); ok && o != nil {
			status := http.StatusBadGateway
			switch kind {
			case carrier.KindRejected:
				status = http.StatusUnprocessableEntity
			case carrier.KindTransient:
				status = http.StatusServiceUnavailable
			}
			writeJSON(w, status, map[string]any{
				"error":    err.Error(),
				"order":    toOrderResponse(o),
				"warnings": warnings,
			})
			return
		}
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, uploadResponse{Order: toOrderResponse(o), Warnings: warnings})
}

func (a *OrdersAPI) confirmOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}
	o, err := a.svc.MarkShipped(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

func (a *OrdersAPI) withdrawOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}
	o, err := a.svc.Withdraw(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

func (a *OrdersAPI) updateOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}
	var req updateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := a.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	edits := models.OrderEdits{
		CustomerName: req.CustomerName,
		Phone:        req.Phone,
		Address:      req.Address,
		WilayaID:     req.WilayaID,
		Commune:      req.Commune,
		ProductName:  req.ProductName,
		WeightKg:     req.WeightKg,
		DeliveryMode: req.DeliveryMode,
		StationCode:  req.StationCode,
		Notes:        req.Notes,
	}
	if req.Amount != nil {
		amount, err := decimal.NewFromString(*req.Amount)
		if err != nil {
			writeError(w, http.StatusBadRequest, "amount must be a decimal string")
			return
		}
		edits.Amount = &amount
	}
	if req.Items != nil {
		items := make([]models.OrderItem, 0, len(req.Items))
		for _, it := range req.Items {
			items = append(items, models.OrderItem{Name: it.Name, Quantity: it.Quantity, Color: it.Color, Size: it.Size})
		}
		edits.Items = items
	}

	o, err := a.svc.UpdateOrder(r.Context(), id, req.Version, edits)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

func (a *OrdersAPI) trackOrders(w http.ResponseWriter, r *http.Request) {
	var req trackOrdersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := a.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	infos, err := a.svc.TrackStatus(r.Context(), req.IDs)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	type trackDTO struct {
		Tracking  string     `json:"tracking"`
		Status    string     `json:"status"`
		UpdatedAt *time.Time `json:"updatedAt,omitempty"`
	}
	out := make(map[string]trackDTO, len(infos))
	for id, info := range infos {
		out[strconv.FormatUint(id, 10)] = trackDTO{Tracking: info.Tracking, Status: info.Status, UpdatedAt: info.UpdatedAt}
	}
	writeJSON(w, http.StatusOK, map[string]any{"statuses": out})
}

func toOrderResponse(o *models.Order) orderResponse {
	return orderResponse{
		ID:              o.ID,
		Reference:       o.Reference,
		CustomerName:    o.CustomerName,
		Phone:           o.Phone,
		Address:         o.Address,
		WilayaID:        o.WilayaID,
		Commune:         o.Commune,
		ProductName:     o.ProductName,
		WeightKg:        o.WeightKg,
		Amount:          o.Amount.String(),
		DeliveryMode:    o.DeliveryMode,
		StationCode:     o.StationCode,
		Items:           o.Items,
		Notes:           o.Notes,
		Status:          string(o.Status),
		TrackingNumber:  o.TrackingNumber,
		ResolvedStation: o.ResolvedStation,
		FailureReason:   o.FailureReason,
		SubmitInFlight:  o.SubmitInFlight,
		Version:         o.Version,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func orderID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "orderID must be a positive integer")
		return 0, false
	}
	return id, true
}

// writeServiceError translates service and carrier failures into HTTP
// statuses the back-office UI distinguishes: conflicts are retryable by
// re-reading, 422 means fix the data, 503 means try again later.
func writeServiceError(w http.ResponseWriter, err error) {
	var bf *fulfillment.BuildFailedError
	var ve *fulfillment.ValidationError
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, ve.Error())
	case errors.Is(err, models.ErrNotFound):
		writeError(w, http.StatusNotFound, "order not found")
	case errors.Is(err, models.ErrVersionConflict):
		writeError(w, http.StatusConflict, "order was modified concurrently, reload and retry")
	case errors.Is(err, models.ErrInvalidTransition):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrSubmissionInFlight):
		writeError(w, http.StatusConflict, "a submission may already be in flight, repeat with force=true after checking the carrier")
	case errors.Is(err, fulfillment.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, err.Error())
	case errors.As(err, &bf):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": "order data failed validation", "fields": bf.Fields})
	default:
		if kind, ok := carrier.ErrorKind(err); ok {
			switch kind {
			case carrier.KindRejected:
				writeError(w, http.StatusUnprocessableEntity, err.Error())
			case carrier.KindTransient:
				writeError(w, http.StatusServiceUnavailable, err.Error())
			default: // auth and config problems are ours, not the client's
				writeError(w, http.StatusBadGateway, err.Error())
			}
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
