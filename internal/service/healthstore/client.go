package healthstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"StepPull/internal/domain/models"
	drepo "StepPull/internal/domain/repository"
	xhttp "StepPull/pkg/http"
)

// Client implements the HistoricalProvider against the health-store gateway.
// The gateway fronts the platform's aggregated step store; it is slow but has
// long retention. Availability and authorization are asked fresh on every
// call, never remembered.
type Client struct {
	baseURL string
	http    *xhttp.Client
}

// New creates a new health-store provider.
func New(baseURL string, timeout time.Duration) drepo.HistoricalProvider {
	return &Client{
		baseURL: baseURL,
		http:    xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

type statusResponse struct {
	Available     bool   `json:"available"`
	Authorization string `json:"authorization"` // authorized | denied | not_determined
}

type stepsResponse struct {
	Steps int64 `json:"steps"`
}

func (c *Client) status(ctx context.Context) (statusResponse, error) {
	var st statusResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/v1/status",
	}, &st)
	return st, err
}

// IsAvailable reports whether the gateway and the underlying store respond.
func (c *Client) IsAvailable(ctx context.Context) bool {
	st, err := c.status(ctx)
	return err == nil && st.Available
}

// IsAuthorized treats not_determined as usable; only an explicit denial
// counts. A transport failure does not report denial.
func (c *Client) IsAuthorized(ctx context.Context) bool {
	st, err := c.status(ctx)
	if err != nil {
		return true
	}
	return st.Authorization != "denied"
}

// RequestPermission asks the gateway to prompt for consent.
func (c *Client) RequestPermission(ctx context.Context) error {
	resp, err := c.http.SendRequest(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    c.baseURL + "/v1/authorization",
	})
	if err != nil {
		return fmt.Errorf("healthstore authorization: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: healthstore", models.ErrPermissionDenied)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("healthstore authorization: status %d: %s", resp.StatusCode, body)
	}
	return nil
}

// FetchSteps queries the aggregated count for an arbitrary window.
func (c *Client) FetchSteps(ctx context.Context, w models.TimeWindow) (int64, error) {
	return c.fetch(ctx, c.baseURL+"/v1/steps", map[string][]string{
		"from": {w.Start.Format(time.RFC3339)},
		"to":   {w.End.Format(time.RFC3339)},
	})
}

// FetchStepsForDate queries the aggregated count for one calendar day.
func (c *Client) FetchStepsForDate(ctx context.Context, date time.Time) (int64, error) {
	return c.fetch(ctx, c.baseURL+"/v1/steps/daily", map[string][]string{
		"date": {date.Format("2006-01-02")},
	})
}

func (c *Client) fetch(ctx context.Context, url string, params map[string][]string) (int64, error) {
	resp, err := c.http.SendRequest(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         url,
		QueryParams: params,
	})
	if err != nil {
		return 0, fmt.Errorf("healthstore fetch: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusForbidden:
		return 0, fmt.Errorf("%w: healthstore", models.ErrPermissionDenied)
	case resp.StatusCode == http.StatusNotFound:
		return 0, fmt.Errorf("%w: healthstore", models.ErrDataNotAvailable)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		body, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("healthstore fetch: status %d: %s", resp.StatusCode, body)
	}

	var sr stepsResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return 0, fmt.Errorf("healthstore decode: %w", err)
	}
	if sr.Steps < 0 {
		return 0, fmt.Errorf("healthstore fetch: negative count %d", sr.Steps)
	}
	return sr.Steps, nil
}
