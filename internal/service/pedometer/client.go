package pedometer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"StepPull/internal/domain/models"
	drepo "StepPull/internal/domain/repository"
	xhttp "StepPull/pkg/http"
	"StepPull/pkg/util"

	"github.com/gorilla/websocket"
)

// Client implements the RecentProvider against the pedometer bridge. Queries
// go over the bridge's HTTP API; push updates arrive on a WebSocket stream.
// The bridge only retains a short trailing window of sensor data.
type Client struct {
	baseURL        string
	websocketURL   string
	lookbackDays   int
	reconnectDelay time.Duration
	pingInterval   time.Duration
	http           *xhttp.Client

	mu        sync.Mutex
	conn      *websocket.Conn
	cancel    context.CancelFunc
	streaming bool
}

// New creates a new pedometer provider.
func New(baseURL, websocketURL string, lookbackDays int, timeout, reconnectDelay, pingInterval time.Duration) drepo.RecentProvider {
	return &Client{
		baseURL:        baseURL,
		websocketURL:   websocketURL,
		lookbackDays:   lookbackDays,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
		http:           xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

type statusResponse struct {
	Available bool `json:"available"`
}

type stepsResponse struct {
	Steps int64 `json:"steps"`
}

// IsAvailable reports whether step-counting hardware is present and the
// bridge responds.
func (c *Client) IsAvailable(ctx context.Context) bool {
	var st statusResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/v1/status",
	}, &st)
	return err == nil && st.Available
}

// RequestPermission asks the bridge for motion access.
func (c *Client) RequestPermission(ctx context.Context) error {
	resp, err := c.http.SendRequest(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    c.baseURL + "/v1/authorization",
	})
	if err != nil {
		return fmt.Errorf("pedometer authorization: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("%w: pedometer", models.ErrPermissionDenied)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("pedometer authorization: status %d", resp.StatusCode)
	}
	return nil
}

// FetchSteps queries the sensor count for an arbitrary window inside the
// supported lookback.
func (c *Client) FetchSteps(ctx context.Context, w models.TimeWindow) (int64, error) {
	if c.beyondLookback(w.Start) {
		return 0, fmt.Errorf("%w: pedometer window older than %d days", models.ErrDataNotAvailable, c.lookbackDays)
	}
	return c.fetch(ctx, c.baseURL+"/v1/steps", map[string][]string{
		"from": {w.Start.Format(time.RFC3339)},
		"to":   {w.End.Format(time.RFC3339)},
	})
}

// FetchStepsForDate queries one calendar day; dates older than the supported
// lookback fail with a data-not-available error.
func (c *Client) FetchStepsForDate(ctx context.Context, date time.Time) (int64, error) {
	if c.beyondLookback(date) {
		return 0, fmt.Errorf("%w: pedometer date older than %d days", models.ErrDataNotAvailable, c.lookbackDays)
	}
	return c.fetch(ctx, c.baseURL+"/v1/steps/daily", map[string][]string{
		"date": {date.Format("2006-01-02")},
	})
}

func (c *Client) beyondLookback(t time.Time) bool {
	return util.CalendarDaysBetween(t, time.Now()) > c.lookbackDays
}

func (c *Client) fetch(ctx context.Context, url string, params map[string][]string) (int64, error) {
	resp, err := c.http.SendRequest(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         url,
		QueryParams: params,
	})
	if err != nil {
		return 0, fmt.Errorf("pedometer fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return 0, fmt.Errorf("%w: pedometer", models.ErrDataNotAvailable)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("pedometer fetch: status %d", resp.StatusCode)
	}

	var sr stepsResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return 0, fmt.Errorf("pedometer decode: %w", err)
	}
	if sr.Steps < 0 {
		return 0, fmt.Errorf("pedometer fetch: negative count %d", sr.Steps)
	}
	return sr.Steps, nil
}

type wsFrame struct {
	Type  string `json:"type"`
	Steps int64  `json:"steps"`
	T     int64  `json:"t"` // ms
}

// StartRealtimeUpdates subscribes to the bridge's push stream. Updates are
// delivered to onUpdate in arrival order from a single read loop; the loop
// redials after read errors until the context is cancelled or the stream is
// stopped.
func (c *Client) StartRealtimeUpdates(ctx context.Context, from time.Time, onUpdate func(steps int64)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.streaming {
		return fmt.Errorf("pedometer stream already started")
	}

	runCtx, cancel := context.WithCancel(ctx)
	conn, err := c.dial(runCtx, from)
	if err != nil {
		cancel()
		return err
	}
	c.conn = conn
	c.cancel = cancel
	c.streaming = true

	// ping loop
	go func() {
		ticker := time.NewTicker(c.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
				c.mu.Lock()
				if c.conn != nil {
					_ = c.conn.WriteMessage(websocket.PingMessage, nil)
				}
				c.mu.Unlock()
			}
		}
	}()

	// read loop
	go func() {
		for {
			c.mu.Lock()
			conn := c.conn
			c.mu.Unlock()
			if conn == nil {
				return
			}
			_, b, err := conn.ReadMessage()
			if err != nil {
				select {
				case <-runCtx.Done():
					return
				default:
				}
				time.Sleep(c.reconnectDelay)
				next, derr := c.dial(runCtx, from)
				if derr != nil {
					continue
				}
				c.mu.Lock()
				c.conn = next
				c.mu.Unlock()
				continue
			}
			var f wsFrame
			if err := json.Unmarshal(b, &f); err != nil {
				// ignore non-update frames
				continue
			}
			if f.Type != "steps" {
				continue
			}
			onUpdate(f.Steps)
		}
	}()

	return nil
}

func (c *Client) dial(ctx context.Context, from time.Time) (*websocket.Conn, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.websocketURL, nil)
	if err != nil {
		return nil, fmt.Errorf("pedometer connect: %w", err)
	}
	sub := map[string]interface{}{"type": "subscribe", "from": from.Unix()}
	if err := conn.WriteJSON(sub); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("pedometer subscribe: %w", err)
	}
	return conn, nil
}

// StopRealtimeUpdates closes the push stream. Safe when no stream is active.
func (c *Client) StopRealtimeUpdates() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.streaming {
		return nil
	}
	c.streaming = false
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	var err error
	if c.conn != nil {
		err = c.conn.Close()
		c.conn = nil
	}
	return err
}
