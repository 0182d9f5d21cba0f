// Package webhook posts report snapshots to an external endpoint, e.g. an
// automation that writes them into a shared spreadsheet.
package webhook

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client exposes the export operations used by the scheduler.
type Client interface {
	PostSnapshot(ctx context.Context, payload interface{}) error
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
	url        string
}

// NewClient builds an export client targeting the provided webhook URL.
func NewClient(url string) *APIClient {
	restyClient := resty.New()
	restyClient.
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	return &APIClient{
		httpClient: restyClient,
		url:        url,
	}
}

type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// PostSnapshot delivers the snapshot JSON to the webhook.
func (c *APIClient) PostSnapshot(ctx context.Context, payload interface{}) error {
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		SetError(apiErr).
		Post(c.url)
	if err != nil {
		return fmt.Errorf("post report snapshot: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		message := apiErr.Message
		if message == "" {
			message = apiErr.Error
		}
		return fmt.Errorf("export webhook error: status=%d, message=%s", resp.StatusCode(), message)
	}

	return nil
}
