package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Client is a minimal spreadsheet values client. It speaks the values subset
// of the Sheets REST API (read range, batch update, append) and paces every
// request through a limiter, since the hosted API throttles aggressively.
type Client struct {
	baseURL       string
	spreadsheetID string
	token         string
	httpClient    *http.Client
	limiter       *rate.Limiter
	logger        *zap.Logger
}

// ClientConfig configures the values client.
type ClientConfig struct {
	BaseURL       string
	SpreadsheetID string
	Token         string
	// RequestsPerSecond caps outbound calls; zero means one per second.
	RequestsPerSecond float64
	Timeout           time.Duration
}

// NewClient builds a values client.
func NewClient(cfg ClientConfig, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://sheets.googleapis.com"
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Client{
		baseURL:       cfg.BaseURL,
		spreadsheetID: cfg.SpreadsheetID,
		token:         cfg.Token,
		httpClient:    &http.Client{Timeout: cfg.Timeout},
		limiter:       rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		logger:        logger,
	}
}

type valueRange struct {
	Range  string     `json:"range"`
	Values [][]string `json:"values"`
}

type batchUpdateRequest struct {
	ValueInputOption string       `json:"valueInputOption"`
	Data             []valueRange `json:"data"`
}

// ReadRange fetches the cell values of an A1 range. Cells arrive as formatted
// strings; typed parsing happens at the worksheet adapters.
func (c *Client) ReadRange(ctx context.Context, a1Range string) ([][]string, error) {
	endpoint := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s",
		c.baseURL, url.PathEscape(c.spreadsheetID), url.PathEscape(a1Range))

	var body valueRange
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &body); err != nil {
		return nil, fmt.Errorf("read %s: %w", a1Range, err)
	}
	return body.Values, nil
}

// RowUpdate writes values into one A1 range.
type RowUpdate struct {
	Range  string
	Values []string
}

// BatchUpdate writes all row updates in a single API call.
func (c *Client) BatchUpdate(ctx context.Context, updates []RowUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	data := make([]valueRange, 0, len(updates))
	for _, u := range updates {
		data = append(data, valueRange{Range: u.Range, Values: [][]string{u.Values}})
	}
	endpoint := fmt.Sprintf("%s/v4/spreadsheets/%s/values:batchUpdate",
		c.baseURL, url.PathEscape(c.spreadsheetID))
	payload := batchUpdateRequest{ValueInputOption: "RAW", Data: data}
	if err := c.do(ctx, http.MethodPost, endpoint, payload, nil); err != nil {
		return fmt.Errorf("batch update %d ranges: %w", len(updates), err)
	}
	return nil
}

// AppendRow appends one row after the last row of the range's table.
func (c *Client) AppendRow(ctx context.Context, a1Range string, values []string) error {
	endpoint := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s:append?valueInputOption=RAW",
		c.baseURL, url.PathEscape(c.spreadsheetID), url.PathEscape(a1Range))
	payload := valueRange{Range: a1Range, Values: [][]string{values}}
	if err := c.do(ctx, http.MethodPost, endpoint, payload, nil); err != nil {
		return fmt.Errorf("append to %s: %w", a1Range, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, payload, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var reqBody *bytes.Buffer
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(encoded)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	c.logger.Debug("sheets api call",
		zap.String("method", method),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(started)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sheets api: %s", resp.Status)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return err
		}
	}
	return nil
}
