package jamai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// AddRowRequest holds the named inputs for one Action Table run.
type AddRowRequest struct {
	TableID string
	Data    map[string]string
}

// AddRowResult holds the column values of the first returned row.
type AddRowResult struct {
	Columns   map[string]string
	LatencyMs int64
}

// Client provides access to a JamAI Base project's generative tables.
type Client interface {
	// AddRow appends one row to an Action Table and returns the
	// generated output columns as text.
	AddRow(ctx context.Context, req AddRowRequest) (*AddRowResult, error)

	// Healthy checks whether the JamAI Base service is reachable.
	Healthy(ctx context.Context) bool
}

// apiClient implements Client against the JamAI Base REST API.
type apiClient struct {
	cfg      Config
	http     *http.Client
	observer Observer
}

// NewClient creates a Client for the configured project.
func NewClient(cfg Config, observer Observer) Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	if cfg.TimeoutMs <= 0 {
		cfg.TimeoutMs = DefaultConfig().TimeoutMs
	}
	return &apiClient{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		observer: observer,
	}
}

// addRowsBody is the JSON body sent to POST /api/v1/gen_tables/action/rows.
type addRowsBody struct {
	TableID string              `json:"table_id"`
	Data    []map[string]string `json:"data"`
	Stream  bool                `json:"stream"`
}

// rowsResponse is the non-streaming response envelope.
type rowsResponse struct {
	Rows []struct {
		Columns map[string]cell `json:"columns"`
	} `json:"rows"`
}

func (c *apiClient) AddRow(ctx context.Context, req AddRowRequest) (*AddRowResult, error) {
	start := time.Now()
	requestID := uuid.NewString()

	ctx, cancel := context.WithTimeout(ctx, time.Duration(c.cfg.TimeoutMs)*time.Millisecond)
	defer cancel()

	body := addRowsBody{
		TableID: req.TableID,
		Data:    []map[string]string{req.Data},
		Stream:  false,
	}

	resp, err := c.doRequest(ctx, requestID, body)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrTableNotFound):
		case ctx.Err() != nil:
			err = ErrTimeout
		case isConnectionError(err):
			err = ErrUnavailable
		}
		c.emit(req.TableID, requestID, start, err)
		return nil, err
	}

	if len(resp.Rows) == 0 {
		c.emit(req.TableID, requestID, start, ErrNoRows)
		return nil, ErrNoRows
	}

	columns := make(map[string]string, len(resp.Rows[0].Columns))
	for name, value := range resp.Rows[0].Columns {
		columns[name] = value.Text
	}

	latency := time.Since(start).Milliseconds()
	c.emit(req.TableID, requestID, start, nil)
	return &AddRowResult{Columns: columns, LatencyMs: latency}, nil
}

func (c *apiClient) emit(tableID, requestID string, start time.Time, err error) {
	c.observer.OnCallComplete(CallEvent{
		TableID:   tableID,
		RequestID: requestID,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
		ErrorCode: errorCode(err),
	})
}

func (c *apiClient) doRequest(ctx context.Context, requestID string, body addRowsBody) (*rowsResponse, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	url := c.cfg.APIBase + "/api/v1/gen_tables/action/rows"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.PAT)
	httpReq.Header.Set("X-PROJECT-ID", c.cfg.ProjectID)
	httpReq.Header.Set("X-Request-ID", requestID)

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	switch httpResp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, fmt.Errorf("%w (status %d)", ErrUnauthorized, httpResp.StatusCode)
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: %q", ErrTableNotFound, body.TableID)
	default:
		return nil, fmt.Errorf("jamai returned status %d: %s", httpResp.StatusCode, string(respBody))
	}

	var resp rowsResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return &resp, nil
}

func (c *apiClient) Healthy(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	url := c.cfg.APIBase + "/api/health"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr *net.OpError
	if errors.As(err, &netErr) {
		return true
	}
	return false
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrUnauthorized):
		return "UNAUTHORIZED"
	case errors.Is(err, ErrTableNotFound):
		return "TABLE_NOT_FOUND"
	case errors.Is(err, ErrNoRows):
		return "NO_ROWS"
	default:
		return "UNKNOWN"
	}
}
