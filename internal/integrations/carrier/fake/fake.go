package fake

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/rjewls/white-site-sub000/internal/integrations/carrier"
	"github.com/rjewls/white-site-sub000/internal/shipment"
)

// Client is an in-memory carrier for tests and local runs. Tracking numbers
// are derived from the request reference, so repeating a call yields the
// same result. Err, when set, is returned from every operation.
type Client struct {
	mu sync.Mutex

	Err error

	created   map[string]string // reference -> tracking
	confirmed map[string]bool
	deleted   map[string]bool
}

func New() *Client {
	return &Client{
		created:   make(map[string]string),
		confirmed: make(map[string]bool),
		deleted:   make(map[string]bool),
	}
}

func (c *Client) Create(ctx context.Context, req *shipment.Request) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return "", c.Err
	}
	if tr, ok := c.created[req.Reference]; ok {
		return tr, nil
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(req.Reference))
	tr := fmt.Sprintf("NST-%08X", h.Sum32())
	c.created[req.Reference] = tr
	return tr, nil
}

func (c *Client) Confirm(ctx context.Context, tracking string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return c.Err
	}
	c.confirmed[tracking] = true
	return nil
}

func (c *Client) Delete(ctx context.Context, tracking string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return c.Err
	}
	c.deleted[tracking] = true
	return nil
}

func (c *Client) Track(ctx context.Context, trackings []string) (map[string]carrier.TrackingInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return nil, c.Err
	}
	now := time.Now().UTC()
	out := make(map[string]carrier.TrackingInfo, len(trackings))
	for _, tr := range trackings {
		status := "En preparation"
		if c.confirmed[tr] {
			status = "Expedie"
		}
		out[tr] = carrier.TrackingInfo{Tracking: tr, Status: status, UpdatedAt: &now}
	}
	return out, nil
}

func (c *Client) Confirmed(tracking string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.confirmed[tracking]
}

func (c *Client) Deleted(tracking string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deleted[tracking]
}

func (c *Client) CreatedCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.created)
}
