// Package payments talks to the external payment provider. The provider owns
// card handling and capture; this backend only authorizes amounts, reads back
// statuses and manages deposit holds through the provider's REST API.
package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"karabox/internal/pkg/config"
	"karabox/internal/pkg/errs"
)

// Provider statuses returned by GetStatus.
const (
	StatusSucceeded = "succeeded"
	StatusPending   = "pending"
	StatusFailed    = "failed"
	StatusCanceled  = "canceled"
)

type Client interface {
	Authorize(ctx context.Context, amountCents int64, metadata map[string]string) (string, error)
	GetStatus(ctx context.Context, reference string) (string, error)
	Capture(ctx context.Context, reference string, amountCents *int64) error
	Cancel(ctx context.Context, reference string) error
}

// NewClient returns the HTTP client, or the unconfigured variant when the
// provider is not set up. Consumers always get a non-nil Client; every call on
// the unconfigured one fails with ErrDependencyUnavailable instead of a nil
// dereference somewhere deep in a request.
func NewClient(cfg config.PaymentConfig) Client {
	if cfg.BaseURL == "" || cfg.APIKey == "" {
		return &unconfiguredClient{}
	}
	return &httpClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

type unconfiguredClient struct{}

func (u *unconfiguredClient) Authorize(context.Context, int64, map[string]string) (string, error) {
	return "", errs.Mark(errs.New("payment provider not configured"), errs.ErrDependencyUnavailable)
}

func (u *unconfiguredClient) GetStatus(context.Context, string) (string, error) {
	return "", errs.Mark(errs.New("payment provider not configured"), errs.ErrDependencyUnavailable)
}

func (u *unconfiguredClient) Capture(context.Context, string, *int64) error {
	return errs.Mark(errs.New("payment provider not configured"), errs.ErrDependencyUnavailable)
}

func (u *unconfiguredClient) Cancel(context.Context, string) error {
	return errs.Mark(errs.New("payment provider not configured"), errs.ErrDependencyUnavailable)
}

type httpClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

type intentResponse struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
}

func (c *httpClient) Authorize(ctx context.Context, amountCents int64, metadata map[string]string) (string, error) {
	body := map[string]any{
		"amount_cents": amountCents,
		"currency":     "eur",
		"metadata":     metadata,
	}

	var out intentResponse
	if err := c.do(ctx, http.MethodPost, "/v1/intents", body, &out); err != nil {
		return "", err
	}
	if out.Reference == "" {
		return "", errs.New("payment provider returned no reference")
	}
	return out.Reference, nil
}

func (c *httpClient) GetStatus(ctx context.Context, reference string) (string, error) {
	var out intentResponse
	if err := c.do(ctx, http.MethodGet, "/v1/intents/"+reference, nil, &out); err != nil {
		return "", err
	}
	return out.Status, nil
}

func (c *httpClient) Capture(ctx context.Context, reference string, amountCents *int64) error {
	body := map[string]any{}
	if amountCents != nil {
		body["amount_cents"] = *amountCents
	}
	return c.do(ctx, http.MethodPost, "/v1/intents/"+reference+"/capture", body, nil)
}

func (c *httpClient) Cancel(ctx context.Context, reference string) error {
	return c.do(ctx, http.MethodPost, "/v1/intents/"+reference+"/cancel", map[string]any{}, nil)
}

func (c *httpClient) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return errs.Wrap(err, "failed to encode payment request")
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errs.Wrap(err, "failed to build payment request")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return errs.Mark(errs.Wrap(err, "payment provider unreachable"), errs.ErrDependencyUnavailable)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		err := errs.New(fmt.Sprintf("payment provider error: status=%d body=%s", resp.StatusCode, raw))
		if resp.StatusCode >= 500 {
			return errs.Mark(err, errs.ErrDependencyUnavailable)
		}
		return err
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return errs.Wrap(err, "failed to decode payment response")
		}
	}
	return nil
}
