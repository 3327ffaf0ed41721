package orders_api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rjewls/white-site-sub000/internal/geo"
	"github.com/rjewls/white-site-sub000/internal/integrations/carrier/fake"
	"github.com/rjewls/white-site-sub000/internal/models"
	"github.com/rjewls/white-site-sub000/internal/services/fulfillment"
	"github.com/rjewls/white-site-sub000/internal/shipment"
)

type memRepo struct {
	nextID uint64
	orders map[uint64]*models.Order
}

func newMemRepo() *memRepo { return &memRepo{orders: make(map[uint64]*models.Order)} }

func (r *memRepo) CreateOrder(ctx context.Context, o *models.Order) (*models.Order, error) {
	r.nextID++
	cp := *o
	cp.ID = r.nextID
	cp.Version = 1
	cp.CreatedAt = time.Now().UTC()
	cp.UpdatedAt = cp.CreatedAt
	r.orders[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *memRepo) GetOrderByID(ctx context.Context, id uint64) (*models.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *memRepo) ListOrders(ctx context.Context, status *models.Status, limit, offset int) ([]*models.Order, error) {
	var out []*models.Order
	for _, o := range r.orders {
		if status != nil && o.Status != *status {
			continue
		}
		cp := *o
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memRepo) UpdateOrder(ctx context.Context, o *models.Order) (*models.Order, error) {
	cur, ok := r.orders[o.ID]
	if !ok {
		return nil, models.ErrNotFound
	}
	if cur.Version != o.Version {
		return nil, models.ErrVersionConflict
	}
	cp := *o
	cp.Version = cur.Version + 1
	cp.UpdatedAt = time.Now().UTC()
	r.orders[cp.ID] = &cp
	out := cp
	return &out, nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	svc := fulfillment.New(newMemRepo(), shipment.NewBuilder(geo.DefaultDataset()), fake.New())
	srv := httptest.NewServer(New(svc).Routes())
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func createBody() map[string]any {
	return map[string]any{
		"customerName": "Amine Benali",
		"phone":        "0555123456",
		"address":      "12 Rue Didouche Mourad",
		"wilayaId":     16,
		"commune":      "Alger Centre",
		"productName":  "Montre Classique",
		"amount":       "4500.00",
		"deliveryMode": "home",
	}
}

func TestOrdersAPI_CreateAndGet(t *testing.T) {
	srv := newTestServer(t)

	resp, created := doJSON(t, http.MethodPost, srv.URL+"/", createBody())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, "PENDING", created["status"])
	require.NotEmpty(t, created["reference"])
	id := created["id"].(float64)

	resp, got := doJSON(t, http.MethodGet, fmt.Sprintf("%s/%.0f", srv.URL, id), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, created["reference"], got["reference"])
}

func TestOrdersAPI_CreateValidation(t *testing.T) {
	srv := newTestServer(t)

	body := createBody()
	delete(body, "customerName")
	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/", body)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body = createBody()
	body["amount"] = "four thousand"
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/", body)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body = createBody()
	body["deliveryMode"] = "drone"
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/", body)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestOrdersAPI_UploadConfirmFlow(t *testing.T) {
	srv := newTestServer(t)

	_, created := doJSON(t, http.MethodPost, srv.URL+"/", createBody())
	id := created["id"].(float64)

	resp, uploaded := doJSON(t, http.MethodPost, fmt.Sprintf("%s/%.0f/upload", srv.URL, id), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	order := uploaded["order"].(map[string]any)
	require.Equal(t, "SUBMITTED", order["status"])
	require.NotEmpty(t, order["trackingNumber"])

	// Repeating the upload conflicts: the order already left PENDING.
	resp, _ = doJSON(t, http.MethodPost, fmt.Sprintf("%s/%.0f/upload", srv.URL, id), nil)
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, confirmed := doJSON(t, http.MethodPost, fmt.Sprintf("%s/%.0f/confirm", srv.URL, id), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "CONFIRMED", confirmed["status"])
}

func TestOrdersAPI_UploadBuildFailure(t *testing.T) {
	srv := newTestServer(t)

	body := createBody()
	body["phone"] = "0555123456"
	body["address"] = "x" // too short for the carrier
	_, created := doJSON(t, http.MethodPost, srv.URL+"/", body)
	id := created["id"].(float64)

	resp, out := doJSON(t, http.MethodPost, fmt.Sprintf("%s/%.0f/upload", srv.URL, id), nil)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	require.NotEmpty(t, out["fields"])

	// The rejection changed the order; the response carries the new state so
	// the UI does not have to re-fetch.
	order := out["order"].(map[string]any)
	require.Equal(t, "REJECTED", order["status"])
	require.NotEmpty(t, order["failureReason"])
	require.EqualValues(t, 2, order["version"])
}

func TestOrdersAPI_UpdateVersionConflict(t *testing.T) {
	srv := newTestServer(t)

	_, created := doJSON(t, http.MethodPost, srv.URL+"/", createBody())
	id := created["id"].(float64)

	edit := map[string]any{"version": 1, "notes": "appeler avant livraison"}
	resp, updated := doJSON(t, http.MethodPatch, fmt.Sprintf("%s/%.0f", srv.URL, id), edit)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.EqualValues(t, 2, updated["version"])

	// Same stale version again loses.
	resp, _ = doJSON(t, http.MethodPatch, fmt.Sprintf("%s/%.0f", srv.URL, id), edit)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestOrdersAPI_NotFound(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/999", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/abc", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestOrdersAPI_ListWithStatusFilter(t *testing.T) {
	srv := newTestServer(t)

	_, _ = doJSON(t, http.MethodPost, srv.URL+"/", createBody())
	_, created := doJSON(t, http.MethodPost, srv.URL+"/", createBody())
	id := created["id"].(float64)
	_, _ = doJSON(t, http.MethodPost, fmt.Sprintf("%s/%.0f/upload", srv.URL, id), nil)

	resp, out := doJSON(t, http.MethodGet, srv.URL+"/?status=SUBMITTED", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, out["orders"], 1)

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/?status=LOST", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestOrdersAPI_TrackStatuses(t *testing.T) {
	srv := newTestServer(t)

	_, created := doJSON(t, http.MethodPost, srv.URL+"/", createBody())
	id := created["id"].(float64)
	_, _ = doJSON(t, http.MethodPost, fmt.Sprintf("%s/%.0f/upload", srv.URL, id), nil)

	resp, out := doJSON(t, http.MethodPost, srv.URL+"/track", map[string]any{"ids": []uint64{uint64(id)}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	statuses := out["statuses"].(map[string]any)
	require.Len(t, statuses, 1)
}
