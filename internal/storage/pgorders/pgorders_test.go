package pgorders

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/rjewls/white-site-sub000/internal/models"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "admin",
			"POSTGRES_PASSWORD": "admin",
			"POSTGRES_DB":       "fulfillment_test",
		},
		WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	dsn := "postgres://admin:admin@" + host + ":" + port.Port() + "/fulfillment_test?sslmode=disable"
	st, err := New(dsn)
	require.NoError(t, err)
	t.Cleanup(st.Close)
	return st
}

func sampleOrder(ref string) *models.Order {
	return &models.Order{
		Reference:    ref,
		CustomerName: "Amine B",
		Phone:        "0555123456",
		Address:      "12 rue Didouche Mourad",
		WilayaID:     16,
		Commune:      "Hydra",
		ProductName:  "Montre",
		WeightKg:     0.5,
		Amount:       decimal.RequireFromString("4500.00"),
		DeliveryMode: models.DeliveryHome,
		Items: []models.OrderItem{
			{Name: "Montre", Quantity: 2, Color: "noir"},
		},
		Notes: "appeler avant livraison",
	}
}

func TestPGOrders_RepoFlow(t *testing.T) {
	st := newTestStorage(t)
	ctx := context.Background()

	created, err := st.CreateOrder(ctx, sampleOrder("ref-1"))
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.Equal(t, models.StatusPending, created.Status)
	require.EqualValues(t, 1, created.Version)
	require.True(t, created.Amount.Equal(decimal.RequireFromString("4500.00")))
	require.Len(t, created.Items, 1)
	require.Equal(t, "noir", created.Items[0].Color)
	require.Nil(t, created.TrackingNumber)

	// duplicate reference refused by the unique constraint
	_, err = st.CreateOrder(ctx, sampleOrder("ref-1"))
	require.Error(t, err)

	got, err := st.GetOrderByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.Reference, got.Reference)

	_, err = st.GetOrderByID(ctx, 999999)
	require.ErrorIs(t, err, models.ErrNotFound)

	// submit transition
	tr := "NST-1"
	got.Status = models.StatusSubmitted
	got.TrackingNumber = &tr
	got.SubmitInFlight = false
	updated, err := st.UpdateOrder(ctx, got)
	require.NoError(t, err)
	require.Equal(t, models.StatusSubmitted, updated.Status)
	require.EqualValues(t, 2, updated.Version)

	// stale writer loses
	got.Status = models.StatusRejected
	_, err = st.UpdateOrder(ctx, got) // still carries version 1
	require.ErrorIs(t, err, models.ErrVersionConflict)

	// listing with and without status filter
	_, err = st.CreateOrder(ctx, sampleOrder("ref-2"))
	require.NoError(t, err)

	all, err := st.ListOrders(ctx, nil, 10, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)

	pending := models.StatusPending
	onlyPending, err := st.ListOrders(ctx, &pending, 10, 0)
	require.NoError(t, err)
	require.Len(t, onlyPending, 1)
	require.Equal(t, "ref-2", onlyPending[0].Reference)
}
