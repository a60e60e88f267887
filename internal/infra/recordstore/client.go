package recordstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// BatchSize is the store's ceiling on records per batch request.
const BatchSize = 10

type Record struct {
	ID          string         `json:"id"`
	Fields      map[string]any `json:"fields"`
	CreatedTime time.Time      `json:"createdTime"`
}

type RecordPatch struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

type SortField struct {
	Field string
	Desc  bool
}

type ListOptions struct {
	Filter     Expr
	MaxRecords int
	Sort       []SortField
}

type Config struct {
	BaseURL    string
	Token      string
	RatePerSec float64
	Retry      RetryConfig
	Timeout    time.Duration
}

// Client is the sole gateway to the external record store. Every operation
// funnels through the token bucket and the classified retry wrapper.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	bucket  *TokenBucket
	retry   RetryConfig
	sleep   func(ctx context.Context, d time.Duration) error
}

func NewClient(cfg Config) *Client {
	if cfg.RatePerSec <= 0 {
		cfg.RatePerSec = 5
	}
	if cfg.Retry.BaseDelay <= 0 {
		cfg.Retry = defaultRetryConfig()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
		http:    &http.Client{Timeout: cfg.Timeout},
		bucket:  NewTokenBucket(cfg.RatePerSec),
		retry:   cfg.Retry,
		sleep:   sleepCtx,
	}
}

// Get fetches a single record by id.
func (c *Client) Get(ctx context.Context, table, id string) (*Record, error) {
	var out Record
	err := c.doWithRetry(ctx, "get", func() error {
		return c.do(ctx, http.MethodGet, c.recordURL(table, id), nil, &out)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Create(ctx context.Context, table string, fields map[string]any) (*Record, error) {
	recs, err := c.BatchCreate(ctx, table, []map[string]any{fields})
	if err != nil {
		return nil, err
	}
	return &recs[0], nil
}

func (c *Client) Update(ctx context.Context, table, id string, fields map[string]any) (*Record, error) {
	recs, err := c.BatchUpdate(ctx, table, []RecordPatch{{ID: id, Fields: fields}})
	if err != nil {
		return nil, err
	}
	return &recs[0], nil
}

// List runs a filtered query, following the store's offset cursor until
// MaxRecords (when set) or the last page.
func (c *Client) List(ctx context.Context, table string, opts ListOptions) ([]Record, error) {
	var all []Record
	offset := ""
	for {
		var page recordsPage
		u := c.listURL(table, opts, offset)
		err := c.doWithRetry(ctx, "list", func() error {
			return c.do(ctx, http.MethodGet, u, nil, &page)
		})
		if err != nil {
			return nil, err
		}
		all = append(all, page.Records...)
		if opts.MaxRecords > 0 && len(all) >= opts.MaxRecords {
			return all[:opts.MaxRecords], nil
		}
		if page.Offset == "" {
			return all, nil
		}
		offset = page.Offset
	}
}

// FindFirst returns the first record matching filter, or nil when none does.
func (c *Client) FindFirst(ctx context.Context, table string, filter Expr) (*Record, error) {
	recs, err := c.List(ctx, table, ListOptions{Filter: filter, MaxRecords: 1})
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, nil
	}
	return &recs[0], nil
}

// BatchCreate inserts records in store-sized chunks, preserving input order.
func (c *Client) BatchCreate(ctx context.Context, table string, fieldSets []map[string]any) ([]Record, error) {
	created := make([]Record, 0, len(fieldSets))
	for start := 0; start < len(fieldSets); start += BatchSize {
		end := min(start+BatchSize, len(fieldSets))
		body := map[string]any{"records": wrapFields(fieldSets[start:end])}
		var page recordsPage
		err := c.doWithRetry(ctx, "batch_create", func() error {
			return c.do(ctx, http.MethodPost, c.tableURL(table), body, &page)
		})
		if err != nil {
			return created, err
		}
		created = append(created, page.Records...)
	}
	return created, nil
}

func (c *Client) BatchUpdate(ctx context.Context, table string, patches []RecordPatch) ([]Record, error) {
	updated := make([]Record, 0, len(patches))
	for start := 0; start < len(patches); start += BatchSize {
		end := min(start+BatchSize, len(patches))
		body := map[string]any{"records": patches[start:end]}
		var page recordsPage
		err := c.doWithRetry(ctx, "batch_update", func() error {
			return c.do(ctx, http.MethodPatch, c.tableURL(table), body, &page)
		})
		if err != nil {
			return updated, err
		}
		updated = append(updated, page.Records...)
	}
	return updated, nil
}

type recordsPage struct {
	Records []Record `json:"records"`
	Offset  string   `json:"offset"`
}

func wrapFields(fieldSets []map[string]any) []map[string]any {
	wrapped := make([]map[string]any, 0, len(fieldSets))
	for _, f := range fieldSets {
		wrapped = append(wrapped, map[string]any{"fields": f})
	}
	return wrapped
}

// do performs one rate-limited round trip and decodes into out.
func (c *Client) do(ctx context.Context, method, rawURL string, body, out any) error {
	if err := c.bucket.Acquire(ctx); err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		se := classifyTransport(err)
		requestsTotal.WithLabelValues(method, string(se.Code)).Inc()
		return se
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		se := classifyStatus(resp.StatusCode, string(raw))
		requestsTotal.WithLabelValues(method, string(se.Code)).Inc()
		return se
	}
	requestsTotal.WithLabelValues(method, "ok").Inc()

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode store response: %w", err)
	}
	return nil
}

func classifyTransport(err error) *StoreError {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &StoreError{Code: CodeTimeout, Message: err.Error(), Retryable: true}
	}
	return &StoreError{Code: CodeServerError, Message: err.Error(), Retryable: true}
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "MemberSync/1.0")
}

func (c *Client) tableURL(table string) string {
	return c.baseURL + "/" + url.PathEscape(table)
}

func (c *Client) recordURL(table, id string) string {
	return c.tableURL(table) + "/" + url.PathEscape(id)
}

func (c *Client) listURL(table string, opts ListOptions, offset string) string {
	q := url.Values{}
	if opts.Filter != nil {
		q.Set("filterByFormula", opts.Filter.Formula())
	}
	if opts.MaxRecords > 0 {
		q.Set("maxRecords", strconv.Itoa(opts.MaxRecords))
	}
	for i, s := range opts.Sort {
		q.Set(fmt.Sprintf("sort[%d][field]", i), s.Field)
		dir := "asc"
		if s.Desc {
			dir = "desc"
		}
		q.Set(fmt.Sprintf("sort[%d][direction]", i), dir)
	}
	if offset != "" {
		q.Set("offset", offset)
	}
	u := c.tableURL(table)
	if enc := q.Encode(); enc != "" {
		u += "?" + enc
	}
	return u
}
