// Package fakestore is the typed client for the remote Fake Store API. The
// remote service owns all catalog, user, and historical cart data; this client
// never interprets payloads beyond decoding them.
package fakestore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/banjul-labs/storefront/internal/models"
)

type Client struct {
	baseURL    string
	httpClient *http.Client

	cache    Cache
	cacheTTL time.Duration
}

type Option func(*Client)

// WithCache enables read-through caching of catalog GET responses. Only whole
// endpoint responses are cached, never client-side filtered subsets.
func WithCache(cache Cache, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = cache
		c.cacheTTL = ttl
	}
}

func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Login authenticates against POST /auth/login and returns the opaque token.
func (c *Client) Login(ctx context.Context, creds models.Credentials) (string, error) {
	body, err := json.Marshal(creds)
	if err != nil {
		return "", fmt.Errorf("encode credentials: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/login", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login failed with status: %d", resp.StatusCode)
	}

	var result struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	return result.Token, nil
}

func (c *Client) Products(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.getCachedJSON(ctx, "/products", &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) Product(ctx context.Context, id int) (models.Product, error) {
	var product models.Product
	if err := c.getCachedJSON(ctx, "/products/"+strconv.Itoa(id), &product); err != nil {
		return models.Product{}, err
	}
	return product, nil
}

func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := c.getCachedJSON(ctx, "/products/categories", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) ProductsByCategory(ctx context.Context, category string) ([]models.Product, error) {
	var products []models.Product
	if err := c.getCachedJSON(ctx, "/products/category/"+url.PathEscape(category), &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) Users(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.getJSON(ctx, "/users", &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) User(ctx context.Context, id int) (models.User, error) {
	var user models.User
	if err := c.getJSON(ctx, "/users/"+strconv.Itoa(id), &user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (c *Client) Carts(ctx context.Context) ([]models.Cart, error) {
	var carts []models.Cart
	if err := c.getJSON(ctx, "/carts", &carts); err != nil {
		return nil, err
	}
	return carts, nil
}

func (c *Client) CartsByUser(ctx context.Context, userID int) ([]models.Cart, error) {
	var carts []models.Cart
	if err := c.getJSON(ctx, "/carts/user/"+strconv.Itoa(userID), &carts); err != nil {
		return nil, err
	}
	return carts, nil
}

func (c *Client) getRaw(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s failed with status: %d", path, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return data, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	data, err := c.getRaw(ctx, path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// getCachedJSON serves catalog reads through the cache when one is configured.
// Cache failures degrade to a direct fetch.
func (c *Client) getCachedJSON(ctx context.Context, path string, out any) error {
	if c.cache == nil {
		return c.getJSON(ctx, path, out)
	}

	key := cacheKey(path)
	if data, err := c.cache.Get(ctx, key); err == nil {
		if err := json.Unmarshal(data, out); err == nil {
			return nil
		}
	}

	data, err := c.getRaw(ctx, path)
	if err != nil {
		return err
	}
	_ = c.cache.Set(ctx, key, data, c.cacheTTL)
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func cacheKey(path string) string {
	return "fakestore:" + path
}
