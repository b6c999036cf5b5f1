// internal/source/api.go
package source

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	jsoniter "github.com/json-iterator/go"
)

// apiClient talks to the backend's local REST API.
// One attempt per call, no retries.
type apiClient struct {
	http *resty.Client
}

func newAPIClient(baseURL string, timeout time.Duration) *apiClient {
	r := resty.New()
	r.SetBaseURL(strings.TrimRight(baseURL, "/"))
	r.SetTimeout(timeout)
	r.SetHeader("Accept", "application/json")
	r.SetRetryCount(0)

	return &apiClient{http: r}
}

func (c *apiClient) get(ctx context.Context, endpoint string) ([]byte, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("api: GET %s: %w", endpoint, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("api: GET %s: status %d", endpoint, resp.StatusCode())
	}

	body := resp.Body()
	if !jsoniter.Valid(body) {
		return nil, fmt.Errorf("api: GET %s: %w", endpoint, ErrMalformed)
	}
	return body, nil
}

func (c *apiClient) post(ctx context.Context, endpoint string, payload any) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(endpoint)
	if err != nil {
		return fmt.Errorf("api: POST %s: %w", endpoint, err)
	}
	if resp.StatusCode()/100 != 2 {
		return fmt.Errorf("api: POST %s: status %d", endpoint, resp.StatusCode())
	}
	return nil
}

func (c *apiClient) health(ctx context.Context) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Get("/health")
	if err != nil {
		return fmt.Errorf("api: GET /health: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("api: GET /health: status %d", resp.StatusCode())
	}
	return nil
}
