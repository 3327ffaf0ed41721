package noesthttp

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/rjewls/white-site-sub000/internal/integrations/carrier"
	"github.com/rjewls/white-site-sub000/internal/shipment"
)

const (
	createPath  = "/api/public/create/order"
	confirmPath = "/api/public/valid/order"
	deletePath  = "/api/public/delete/order"
	trackPath   = "/api/public/get/trackings/info"
)

type Client struct {
	baseURL  string
	apiToken string
	userGUID string
	httpc    *http.Client
}

func New(baseURL, apiToken, userGUID string) *Client {
	if baseURL == "" {
		baseURL = "https://app.noest-dz.com"
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiToken: apiToken,
		userGUID: userGUID,
		httpc: &http.Client{
			Timeout: 12 * time.Second,
		},
	}
}

// creds are embedded as body fields, not headers; that is how the carrier
// authenticates every call.
type creds struct {
	APIToken string `json:"api_token"`
	UserGUID string `json:"user_guid"`
}

type createPayload struct {
	creds
	*shipment.Request
}

type trackingPayload struct {
	creds
	Tracking string `json:"tracking"`
}

type trackListPayload struct {
	creds
	Trackings []string `json:"trackings"`
}

type apiResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Tracking  string `json:"tracking"`
	Trackings []struct {
		Tracking  string `json:"tracking"`
		Activity  string `json:"activity"`
		UpdatedAt string `json:"updated_at"`
	} `json:"trackings"`
}

func (c *Client) Create(ctx context.Context, req *shipment.Request) (string, error) {
	resp, err := c.post(ctx, createPath, createPayload{creds: c.creds(), Request: req})
	if err != nil {
		return "", err
	}
	if resp.Tracking == "" {
		return "", &carrier.APIError{Kind: carrier.KindRejected, Message: "carrier accepted the order but returned no tracking"}
	}
	return resp.Tracking, nil
}

func (c *Client) Confirm(ctx context.Context, tracking string) error {
	_, err := c.post(ctx, confirmPath, trackingPayload{creds: c.creds(), Tracking: tracking})
	return err
}

func (c *Client) Delete(ctx context.Context, tracking string) error {
	_, err := c.post(ctx, deletePath, trackingPayload{creds: c.creds(), Tracking: tracking})
	return err
}

func (c *Client) Track(ctx context.Context, trackings []string) (map[string]carrier.TrackingInfo, error) {
	resp, err := c.post(ctx, trackPath, trackListPayload{creds: c.creds(), Trackings: trackings})
	if err != nil {
		return nil, err
	}

	out := make(map[string]carrier.TrackingInfo, len(resp.Trackings))
	for _, t := range resp.Trackings {
		info := carrier.TrackingInfo{Tracking: t.Tracking, Status: t.Activity}
		if t.UpdatedAt != "" {
			// Carrier timestamps come back as "2006-01-02 15:04:05".
			if ts, err := time.ParseInLocation("2006-01-02 15:04:05", t.UpdatedAt, time.UTC); err == nil {
				info.UpdatedAt = &ts
			}
		}
		out[t.Tracking] = info
	}
	return out, nil
}

func (c *Client) creds() creds {
	return creds{APIToken: c.apiToken, UserGUID: c.userGUID}
}

// post performs one synchronous JSON round trip and classifies the outcome.
func (c *Client) post(ctx context.Context, path string, payload any) (*apiResponse, error) {
	if c.apiToken == "" || c.userGUID == "" {
		return nil, &carrier.APIError{Kind: carrier.KindConfig, Message: "carrier credentials are not configured"}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "marshal payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "new request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, &carrier.APIError{Kind: carrier.KindTransient, Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, &carrier.APIError{Kind: carrier.KindTransient, Message: err.Error()}
	}

	if resp.StatusCode >= 500 {
		return nil, &carrier.APIError{Kind: carrier.KindTransient, Message: strings.TrimSpace(string(raw)), HTTPStatus: resp.StatusCode}
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, &carrier.APIError{Kind: carrier.KindAuth, Message: messageFrom(raw), HTTPStatus: resp.StatusCode}
	}
	if resp.StatusCode >= 400 {
		return nil, &carrier.APIError{Kind: carrier.KindRejected, Message: messageFrom(raw), HTTPStatus: resp.StatusCode}
	}

	var parsed apiResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, &carrier.APIError{Kind: carrier.KindTransient, Message: "unparseable carrier response: " + err.Error(), HTTPStatus: resp.StatusCode}
	}
	if !parsed.Success {
		msg := parsed.Message
		if msg == "" {
			msg = "carrier reported failure without a message"
		}
		return nil, &carrier.APIError{Kind: carrier.KindRejected, Message: msg, HTTPStatus: resp.StatusCode}
	}
	return &parsed, nil
}

// messageFrom surfaces the carrier's literal message to the operator,
// falling back to the raw body when it is not the usual JSON envelope.
func messageFrom(raw []byte) string {
	var parsed struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &parsed) == nil && parsed.Message != "" {
		return parsed.Message
	}
	return strings.TrimSpace(string(raw))
}
