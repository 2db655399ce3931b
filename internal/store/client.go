package store

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// Config holds the hosted backend connection settings.
type Config struct {
	URL     string
	Key     string
	Timeout time.Duration
}

// Client talks to the hosted backend's data API. It carries only the
// publishable key; data access always goes through WithToken so that the
// store's row-level authorization applies to the calling user.
type Client struct {
	baseURL string
	apiKey  string
	timeout time.Duration
	http    *fasthttp.Client
}

// New builds a store client and validates the configuration.
func New(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.URL == "" || cfg.Key == "" {
		return nil, fmt.Errorf("store: missing URL or API key")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger != nil {
		logger.Info("store client configured", zap.String("url", cfg.URL))
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		apiKey:  cfg.Key,
		timeout: timeout,
		http: &fasthttp.Client{
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		},
	}, nil
}

// WithToken returns data-API access scoped to the given delegated
// credential. Every query issued through the result carries the caller's
// token, never a privileged one.
func (c *Client) WithToken(token string) *Scoped {
	return &Scoped{client: c, token: token}
}

// Scoped is per-request, per-user access to the data API.
type Scoped struct {
	client *Client
	token  string
}

// From starts a query against the named table.
func (s *Scoped) From(table string) *Query {
	return &Query{
		scoped: s,
		table:  table,
		args:   url.Values{"select": []string{"*"}},
		from:   -1,
		to:     -1,
	}
}

// Query accumulates filters, ordering and the row window before execution.
type Query struct {
	scoped     *Scoped
	table      string
	args       url.Values
	from, to   int
	exactCount bool
	single     bool
}

// Eq adds an equality filter on a column.
func (q *Query) Eq(column string, value interface{}) *Query {
	q.args.Add(column, fmt.Sprintf("eq.%v", value))
	return q
}

// Order sets the sort column and direction.
func (q *Query) Order(column string, ascending bool) *Query {
	direction := "desc"
	if ascending {
		direction = "asc"
	}
	q.args.Set("order", column+"."+direction)
	return q
}

// Range limits the result to the inclusive row window [from, to].
func (q *Query) Range(from, to int) *Query {
	q.from, q.to = from, to
	return q
}

// ExactCount asks the store for the exact total row count alongside the page.
func (q *Query) ExactCount() *Query {
	q.exactCount = true
	return q
}

// Single requests exactly one row; zero rows become ErrNotFound.
func (q *Query) Single() *Query {
	q.single = true
	return q
}

// Select runs the query and decodes the rows into dest. The returned total
// is the exact count when requested, -1 otherwise.
func (q *Query) Select(ctx context.Context, dest interface{}) (int, error) {
	return q.execute(ctx, fasthttp.MethodGet, nil, dest)
}

// Insert creates a row and decodes the stored representation into dest.
func (q *Query) Insert(ctx context.Context, payload, dest interface{}) error {
	_, err := q.execute(ctx, fasthttp.MethodPost, payload, dest)
	return err
}

// Update patches the matched rows and decodes the representation into dest.
func (q *Query) Update(ctx context.Context, payload, dest interface{}) error {
	_, err := q.execute(ctx, fasthttp.MethodPatch, payload, dest)
	return err
}

// Delete removes the matched rows. The store does not report whether any
// row actually existed.
func (q *Query) Delete(ctx context.Context) error {
	_, err := q.execute(ctx, fasthttp.MethodDelete, nil, nil)
	return err
}

func (q *Query) execute(ctx context.Context, method string, payload, dest interface{}) (int, error) {
	c := q.scoped.client

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + "/rest/v1/" + q.table + "?" + q.args.Encode())
	req.Header.SetMethod(method)
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+q.scoped.token)
	if q.single {
		req.Header.Set("Accept", "application/vnd.pgrst.object+json")
	} else {
		req.Header.Set("Accept", "application/json")
	}

	var prefer []string
	if q.exactCount {
		prefer = append(prefer, "count=exact")
	}
	if dest != nil && method != fasthttp.MethodGet {
		prefer = append(prefer, "return=representation")
	}
	if len(prefer) > 0 {
		req.Header.Set("Prefer", strings.Join(prefer, ","))
	}
	if q.from >= 0 {
		req.Header.Set("Range-Unit", "items")
		req.Header.Set("Range", fmt.Sprintf("%d-%d", q.from, q.to))
	}

	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			return -1, fmt.Errorf("store: encoding payload: %w", err)
		}
		req.Header.SetContentType("application/json")
		req.SetBodyRaw(body)
	}

	if err := c.do(ctx, req, resp); err != nil {
		return -1, err
	}

	status := resp.StatusCode()
	if status >= fasthttp.StatusBadRequest {
		return -1, decodeRESTError(status, resp.Body())
	}

	total := parseContentRange(string(resp.Header.Peek("Content-Range")))
	if dest != nil && len(resp.Body()) > 0 {
		if err := json.Unmarshal(resp.Body(), dest); err != nil {
			return -1, fmt.Errorf("store: decoding response: %w", err)
		}
	}
	return total, nil
}

// do executes the request honoring the earlier of the context deadline and
// the client timeout.
func (c *Client) do(ctx context.Context, req *fasthttp.Request, resp *fasthttp.Response) error {
	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		return fmt.Errorf("store: request failed: %w", err)
	}
	return nil
}

// parseContentRange extracts the total from a "0-19/42" style header.
// Returns -1 when the total is absent or unparsable.
func parseContentRange(header string) int {
	idx := strings.LastIndexByte(header, '/')
	if idx < 0 {
		return -1
	}
	total := header[idx+1:]
	if total == "*" {
		return -1
	}
	n, err := strconv.Atoi(total)
	if err != nil {
		return -1
	}
	return n
}
