// Package apiclient is the HTTP implementation of the catalog API used by the
// reconciliation console.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	domain "github.com/erp/reconciler/internal/domain/reconcile"
)

const (
	// maxResponseSize limits JSON bodies read into memory
	maxResponseSize = 10 * 1024 * 1024 // 10MB
	// maxErrorBodySize limits the body excerpt kept in a NetworkError
	maxErrorBodySize = 512

	defaultTimeout = 30 * time.Second
)

// Errors for client configuration
var (
	ErrMissingBaseURL = errors.New("apiclient: base URL is required")
	ErrInvalidBaseURL = errors.New("apiclient: base URL must be absolute")
)

// Config holds the client settings
type Config struct {
	// BaseURL is the API root, e.g. http://localhost:8080/api/v1/
	BaseURL string
	// Token is sent as a bearer token; it may be set later by Login
	Token string
	// Timeout is the per-request timeout
	Timeout time.Duration
}

// Validate checks the configuration
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return ErrMissingBaseURL
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || !u.IsAbs() {
		return ErrInvalidBaseURL
	}
	return nil
}

// Client implements domain.CatalogAPI over HTTP.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *zap.Logger

	mu    sync.RWMutex
	token string
}

var _ domain.CatalogAPI = (*Client)(nil)

// New creates a client. A nil logger disables logging.
func New(cfg Config, logger *zap.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	base, _ := url.Parse(cfg.BaseURL)
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    base,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		token:      cfg.Token,
	}, nil
}

// SetToken replaces the bearer token.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Token returns the current bearer token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

type page[T any] struct {
	Count   int `json:"count"`
	Results []T `json:"results"`
}

// ListProducts loads paired product rows.
func (c *Client) ListProducts(ctx context.Context, q domain.QueryDescriptor) ([]domain.Product, error) {
	var p page[domain.Product]
	if err := c.getJSON(ctx, "list products", q.Path(), &p); err != nil {
		return nil, err
	}
	return p.Results, nil
}

// ListOrderItems loads order item projections.
func (c *Client) ListOrderItems(ctx context.Context, q domain.QueryDescriptor) ([]domain.OrderItem, error) {
	var p page[domain.OrderItem]
	if err := c.getJSON(ctx, "list order items", q.Path(), &p); err != nil {
		return nil, err
	}
	return p.Results, nil
}

// GetOrdersCounts loads the per-tab order counters.
func (c *Client) GetOrdersCounts(ctx context.Context) (domain.OrdersCounts, error) {
	var counts domain.OrdersCounts
	err := c.getJSON(ctx, "get orders counts", "get-orders-counts/", &counts)
	return counts, err
}

// ListAccounts loads the marketplace accounts of the current user.
func (c *Client) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	var p page[domain.Account]
	if err := c.getJSON(ctx, "list accounts", "accounts/", &p); err != nil {
		return nil, err
	}
	return p.Results, nil
}

// ListPlatformTypes loads platform labels indexed by platform id.
func (c *Client) ListPlatformTypes(ctx context.Context, withWarehouse bool) ([]string, error) {
	path := "marketplace-types/"
	if withWarehouse {
		path += "?with_moy_sklad=1"
	}
	var labels []string
	if err := c.getJSON(ctx, "list platform types", path, &labels); err != nil {
		return nil, err
	}
	return labels, nil
}

type exportRequest struct {
	Products []domain.ID `json:"products"`
}

// ExportReport submits product ids and returns the workbook stream. The caller
// must close it.
func (c *Client) ExportReport(ctx context.Context, ids []domain.ID) (io.ReadCloser, error) {
	const op = "export report"
	resp, err := c.do(ctx, op, http.MethodPost, "export-report/", exportRequest{Products: ids})
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

type manualConnectionRequest struct {
	MarketplaceProduct domain.ID `json:"other_marketplace_product"`
	WarehouseProduct   domain.ID `json:"moy_sklad_product"`
}

// CreateManualConnection links a marketplace listing to a warehouse item.
func (c *Client) CreateManualConnection(ctx context.Context, marketplaceID, warehouseID domain.ID) error {
	return c.postDiscard(ctx, "create manual connection", "create-manual-connection/", manualConnectionRequest{
		MarketplaceProduct: marketplaceID,
		WarehouseProduct:   warehouseID,
	})
}

// RefreshConnections asks the server to relink products by barcode.
func (c *Client) RefreshConnections(ctx context.Context) error {
	return c.postDiscard(ctx, "refresh connections", "refresh-connections/", struct{}{})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type envelope[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
}

type tokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Login exchanges credentials for a token pair and keeps the access token for
// subsequent requests.
func (c *Client) Login(ctx context.Context, username, password string) error {
	const op = "login"
	resp, err := c.do(ctx, op, http.MethodPost, "auth/token", loginRequest{Username: username, Password: password})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var body envelope[tokenPair]
	if err := decode(op, resp.Body, &body); err != nil {
		return err
	}
	if body.Data.AccessToken == "" {
		return &domain.NetworkError{Op: op, StatusCode: resp.StatusCode, Body: "empty access token"}
	}
	c.SetToken(body.Data.AccessToken)
	return nil
}

func (c *Client) getJSON(ctx context.Context, op, path string, out any) error {
	resp, err := c.do(ctx, op, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decode(op, resp.Body, out)
}

func (c *Client) postDiscard(ctx context.Context, op, path string, payload any) error {
	resp, err := c.do(ctx, op, http.MethodPost, path, payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))
	return nil
}

// do sends the request and returns the response when the status is 2xx. Any
// other outcome is a *domain.NetworkError and the body is already closed.
func (c *Client) do(ctx context.Context, op, method, path string, payload any) (*http.Response, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, &domain.NetworkError{Op: op, Err: err}
	}
	target := c.baseURL.ResolveReference(ref)

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("apiclient: failed to marshal %s request: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, &domain.NetworkError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Catalog API request failed",
			zap.String("op", op),
			zap.String("url", target.String()),
			zap.Error(err),
		)
		return nil, &domain.NetworkError{Op: op, Err: err}
	}

	c.logger.Debug("Catalog API request",
		zap.String("op", op),
		zap.String("method", method),
		zap.String("url", target.String()),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return nil, &domain.NetworkError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(excerpt)),
		}
	}
	return resp, nil
}

func decode(op string, r io.Reader, out any) error {
	if err := json.NewDecoder(io.LimitReader(r, maxResponseSize)).Decode(out); err != nil {
		return &domain.NetworkError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
