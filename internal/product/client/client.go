// Package client is a thin HTTP client for the product API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	perrors "github.com/abgdnv/productboard/internal/product/errors"
	"github.com/abgdnv/productboard/internal/product/service"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const productsPath = "/api/products"

// Client calls the product API. Failures map to the product error types:
// *errors.ValidationError for rejected input, errors.ErrProductNotFound for
// unknown ids and *errors.TransportError for everything else.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the default traced client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    json.RawMessage     `json:"data"`
	Errors  map[string][]string `json:"errors"`
}

// List returns every product. The slice is never nil on success.
func (c *Client) List(ctx context.Context) ([]service.ProductDto, error) {
	const op = "list products"
	env, err := c.do(ctx, op, http.MethodGet, productsPath, nil)
	if err != nil {
		return nil, err
	}
	products := []service.ProductDto{}
	if len(env.Data) > 0 && !bytes.Equal(env.Data, []byte("null")) {
		if err := json.Unmarshal(env.Data, &products); err != nil {
			return nil, &perrors.TransportError{Op: op, Err: fmt.Errorf("decode products: %w", err)}
		}
	}
	return products, nil
}

// Create submits a new product and returns it with the server message.
// The price is sent as text so the server reports non-numeric input itself.
func (c *Client) Create(ctx context.Context, name, price string) (*service.ProductDto, string, error) {
	const op = "create product"
	body, err := json.Marshal(map[string]string{"name": name, "price": price})
	if err != nil {
		return nil, "", &perrors.TransportError{Op: op, Err: err}
	}
	env, err := c.do(ctx, op, http.MethodPost, productsPath, body)
	if err != nil {
		return nil, "", err
	}
	var created service.ProductDto
	if err := json.Unmarshal(env.Data, &created); err != nil {
		return nil, "", &perrors.TransportError{Op: op, Err: fmt.Errorf("decode product: %w", err)}
	}
	return &created, env.Message, nil
}

// Delete removes the product and returns the server message.
func (c *Client) Delete(ctx context.Context, id int64) (string, error) {
	env, err := c.do(ctx, "delete product", http.MethodDelete, productsPath+"/"+strconv.FormatInt(id, 10), nil)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body []byte) (*envelope, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, &perrors.TransportError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &perrors.TransportError{Op: op, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	var env envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if decodeErr != nil {
			return nil, &perrors.TransportError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", decodeErr)}
		}
		return &env, nil
	case resp.StatusCode == http.StatusUnprocessableEntity && decodeErr == nil && len(env.Errors) > 0:
		return nil, &perrors.ValidationError{Fields: env.Errors}
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", op, perrors.ErrProductNotFound)
	default:
		cause := errors.New(http.StatusText(resp.StatusCode))
		if decodeErr == nil && env.Message != "" {
			cause = errors.New(env.Message)
		}
		return nil, &perrors.TransportError{Op: op, StatusCode: resp.StatusCode, Err: cause}
	}
}
