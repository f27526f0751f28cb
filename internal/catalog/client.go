package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/rocketshoes-cart/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	defaultTimeout             = 10 * time.Second
	responseBodyReadLimit int64 = 1024
)

// Stock is the remote-authoritative available amount for a product.
type Stock struct {
	ID     int `json:"id"`
	Amount int `json:"amount"`
}

// Product is the storefront record returned by the products endpoint.
type Product struct {
	ID    int             `json:"id"`
	Title string          `json:"title"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image"`
}

// Client reads stock and product records from the storefront API.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 && c.httpClient != nil {
			c.httpClient.Timeout = timeout
		}
	}
}

// NewClient builds a catalog client rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, fmt.Errorf("catalog base url is required")
	}

	client := &Client{
		baseURL:    trimmed,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// GetStock fetches the available amount for productID.
func (c *Client) GetStock(ctx context.Context, productID int) (*Stock, error) {
	var stock Stock
	if err := c.getJSON(ctx, fmt.Sprintf("stock/%d", productID), "stock", &stock); err != nil {
		return nil, err
	}
	if stock.Amount < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "stock response carries a negative amount")
	}
	return &stock, nil
}

// GetProduct fetches the display record for productID.
func (c *Client) GetProduct(ctx context.Context, productID int) (*Product, error) {
	var product Product
	if err := c.getJSON(ctx, fmt.Sprintf("products/%d", productID), "product", &product); err != nil {
		return nil, err
	}
	if product.ID != productID {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("product response id %d does not match %d", product.ID, productID))
	}
	return &product, nil
}

func (c *Client) getJSON(ctx context.Context, path, resource string, dest any) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "catalog client not configured")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+path, nil)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build "+resource+" request")
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute "+resource+" request")
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return pkgerrors.New(pkgerrors.CodeNotFound, resource+" not found")
	case resp.StatusCode != http.StatusOK:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), resource+" request failed")
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode "+resource+" response")
	}
	return nil
}
