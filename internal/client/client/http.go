package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/fooddelivery/internal/client/models"
	"github.com/dmitrijs2005/fooddelivery/internal/common"
	"github.com/dmitrijs2005/fooddelivery/internal/logging"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const maxErrorBody = 4 << 10

// HTTPClient implements Client over JSON/HTTP.
type HTTPClient struct {
	baseURL *url.URL
	http    *http.Client
	timeout time.Duration
	log     logging.Logger
}

// Option configures an HTTPClient.
type Option func(*options)

type options struct {
	httpClient *http.Client
	source     oauth2.TokenSource
	timeout    time.Duration
	log        logging.Logger
}

// WithHTTPClient sets the underlying *http.Client. It is copied, not mutated.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// WithTokenSource enables per-request credential injection.
func WithTokenSource(src oauth2.TokenSource) Option {
	return func(o *options) { o.source = src }
}

// WithTimeout bounds every call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.log = l }
}

// NewHTTPClient builds a client for the API rooted at baseURL.
func NewHTTPClient(baseURL string, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("parse server url: unsupported scheme %q", u.Scheme)
	}

	o := options{httpClient: http.DefaultClient, log: logging.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	hc := *o.httpClient
	if o.source != nil {
		base := hc.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		hc.Transport = &credentialTransport{source: o.source, base: base}
	}

	return &HTTPClient{
		baseURL: u,
		http:    &hc,
		timeout: o.timeout,
		log:     o.log.With("component", "api"),
	}, nil
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (models.LoginResponse, error) {
	var resp models.LoginResponse
	req := models.LoginRequest{Username: username, Password: password}
	if err := c.do(Anonymous(ctx), http.MethodPost, "/api/login", req, &resp); err != nil {
		return models.LoginResponse{}, err
	}
	if resp.Token == "" {
		return models.LoginResponse{}, fmt.Errorf("POST /api/login: %w: empty token", ErrUnauthorized)
	}
	return resp, nil
}

func (c *HTTPClient) CurrentUser(ctx context.Context) (models.User, error) {
	var u models.User
	err := c.do(ctx, http.MethodGet, "/api/user", nil, &u)
	return u, err
}

func (c *HTTPClient) ListMenuItems(ctx context.Context) ([]models.MenuItem, error) {
	items := []models.MenuItem{}
	err := c.do(ctx, http.MethodGet, "/api/menu-items", nil, &items)
	return items, err
}

func (c *HTTPClient) CreateMenuItem(ctx context.Context, draft models.MenuItemDraft) (models.MenuItem, error) {
	var item models.MenuItem
	err := c.do(ctx, http.MethodPost, "/api/menu-items", draft, &item)
	return item, err
}

func (c *HTTPClient) UpdateMenuItem(ctx context.Context, id int64, patch models.MenuItemPatch) (models.MenuItemPatch, error) {
	var confirmed models.MenuItemPatch
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/menu-items/%d", id), patch, &confirmed)
	return confirmed, err
}

func (c *HTTPClient) DeleteMenuItem(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/menu-items/%d", id), nil, nil)
}

func (c *HTTPClient) ListOrders(ctx context.Context) ([]models.Order, error) {
	orders := []models.Order{}
	err := c.do(ctx, http.MethodGet, "/api/orders", nil, &orders)
	return orders, err
}

func (c *HTTPClient) PlaceOrder(ctx context.Context, req models.OrderRequest) (models.Order, error) {
	var order models.Order
	err := c.do(ctx, http.MethodPost, "/api/orders", req, &order)
	return order, err
}

func (c *HTTPClient) ListTasks(ctx context.Context) ([]models.Task, error) {
	tasks := []models.Task{}
	err := c.do(ctx, http.MethodGet, "/api/tasks", nil, &tasks)
	return tasks, err
}

func (c *HTTPClient) CreateTask(ctx context.Context, draft models.TaskDraft) (models.Task, error) {
	var task models.Task
	err := c.do(ctx, http.MethodPost, "/api/tasks", draft, &task)
	return task, err
}

func (c *HTTPClient) UpdateTask(ctx context.Context, task models.Task) (models.Task, error) {
	var updated models.Task
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/tasks/%d", task.ID), task, &updated)
	return updated, err
}

func (c *HTTPClient) DeleteTask(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/tasks/%d", id), nil, nil)
}

// do sends one JSON request and decodes a 2xx body into out (if non-nil).
func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s %s: encode body: %w", method, path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.JoinPath(path).String(), body)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	requestID := uuid.NewString()
	req.Header.Set(common.RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log := c.log.With("method", method, "path", path, "request_id", requestID)
	started := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn(ctx, "request failed", "error", err)
		return fmt.Errorf("%s %s: %w: %v", method, path, ErrUnavailable, err)
	}
	defer resp.Body.Close()

	log.Debug(ctx, "request done", "status", resp.StatusCode, "elapsed", time.Since(started))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Method: method, Path: path, Status: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read body: %w: %v", method, path, ErrUnavailable, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s %s: decode body: %w", method, path, err)
	}
	return nil
}

// readErrorMessage extracts {"error": "..."} or {"message": "..."} from an
// error body, falling back to the trimmed raw text.
func readErrorMessage(r io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &payload) == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return strings.TrimSpace(string(data))
}
