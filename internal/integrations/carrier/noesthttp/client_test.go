package noesthttp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rjewls/white-site-sub000/internal/integrations/carrier"
	"github.com/rjewls/white-site-sub000/internal/shipment"
)

func testRequest() *shipment.Request {
	return &shipment.Request{
		Reference: "ref-1",
		Client:    "Amine B",
		Phone:     "0555123456",
		Address:   "12 rue Didouche Mourad",
		WilayaID:  16,
		Commune:   "Alger Centre",
		Amount:    4500,
		Product:   "Montre",
		TypeID:    shipment.TypeDelivery,
		WeightKg:  1,
		Quantity:  "1",
		CanOpen:   1,
	}
}

func TestClient_Create_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, createPath, r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "tok", body["api_token"])
		require.Equal(t, "guid", body["user_guid"])
		require.Equal(t, "Alger Centre", body["commune"])
		require.EqualValues(t, 16, body["wilaya_id"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"tracking":"NST-ABC123"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "tok", "guid")
	tracking, err := c.Create(context.Background(), testRequest())
	require.NoError(t, err)
	require.Equal(t, "NST-ABC123", tracking)
}

func TestClient_Create_IdempotentClassification(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"tracking":"NST-1"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "tok", "guid")
	for i := 0; i < 3; i++ {
		tracking, err := c.Create(context.Background(), testRequest())
		require.NoError(t, err)
		require.Equal(t, "NST-1", tracking)
	}
}

func TestClient_Create_RejectedOn422(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"The selected commune is invalid."}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "tok", "guid")
	_, err := c.Create(context.Background(), testRequest())
	require.Error(t, err)
	k, ok := carrier.ErrorKind(err)
	require.True(t, ok)
	require.Equal(t, carrier.KindRejected, k)
	require.Contains(t, err.Error(), "The selected commune is invalid.")
}

func TestClient_Create_RejectedOnSuccessFalse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"message":"Reference deja utilisee"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "tok", "guid")
	_, err := c.Create(context.Background(), testRequest())
	k, ok := carrier.ErrorKind(err)
	require.True(t, ok)
	require.Equal(t, carrier.KindRejected, k)
	require.Contains(t, err.Error(), "Reference deja utilisee")
}

func TestClient_AuthClassification(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Unauthenticated."}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "bad", "guid")
	err := c.Confirm(context.Background(), "NST-1")
	k, ok := carrier.ErrorKind(err)
	require.True(t, ok)
	require.Equal(t, carrier.KindAuth, k)
}

func TestClient_TransientOn5xxAndNetwork(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	c := New(srv.URL, "tok", "guid")
	err := c.Confirm(context.Background(), "NST-1")
	require.True(t, carrier.IsTransient(err))

	srv.Close() // connection refused from here on
	err = c.Confirm(context.Background(), "NST-1")
	require.True(t, carrier.IsTransient(err))
}

func TestClient_ConfigErrorWithoutCreds(t *testing.T) {
	c := New("http://localhost:1", "", "")
	_, err := c.Create(context.Background(), testRequest())
	k, ok := carrier.ErrorKind(err)
	require.True(t, ok)
	require.Equal(t, carrier.KindConfig, k)
}

func TestClient_Track(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, trackPath, r.URL.Path)
		_, _ = w.Write([]byte(`{
  "success": true,
  "trackings": [
    {"tracking":"NST-1","activity":"Expedie","updated_at":"2025-03-01 10:30:00"},
    {"tracking":"NST-2","activity":"En preparation","updated_at":""}
  ]
}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "tok", "guid")
	infos, err := c.Track(context.Background(), []string{"NST-1", "NST-2"})
	require.NoError(t, err)
	require.Len(t, infos, 2)
	require.Equal(t, "Expedie", infos["NST-1"].Status)
	require.NotNil(t, infos["NST-1"].UpdatedAt)
	require.Nil(t, infos["NST-2"].UpdatedAt)
}
