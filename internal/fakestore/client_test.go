package fakestore

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banjul-labs/storefront/internal/models"
)

func newTestServer(t *testing.T) (*httptest.Server, *int) {
	t.Helper()

	hits := 0
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds models.Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		if creds.Username != "mor_2314" {
			http.Error(w, "username or password is incorrect", http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"token": "demo-token"})
	})
	mux.HandleFunc("GET /products", func(w http.ResponseWriter, r *http.Request) {
		hits++
		json.NewEncoder(w).Encode([]models.Product{
			{ID: 1, Title: "Backpack", Price: 109.95, Category: "men's clothing"},
			{ID: 2, Title: "T-Shirt", Price: 22.3, Category: "men's clothing"},
		})
	})
	mux.HandleFunc("GET /products/categories", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]string{"electronics", "jewelery"})
	})
	mux.HandleFunc("GET /products/category/{category}", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]models.Product{
			{ID: 9, Title: "SSD", Price: 109, Category: r.PathValue("category")},
		})
	})
	mux.HandleFunc("GET /products/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") == "404" {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(models.Product{ID: 1, Title: "Backpack", Price: 109.95})
	})
	mux.HandleFunc("GET /users/{id}", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.User{ID: 1, Username: "johnd"})
	})
	mux.HandleFunc("GET /users", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]models.User{{ID: 1, Username: "johnd"}})
	})
	mux.HandleFunc("GET /carts/user/{id}", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]models.Cart{
			{ID: 1, UserID: 1, Date: "2020-03-02T00:00:00.000Z", Products: []models.CartProduct{{ProductID: 1, Quantity: 4}}},
		})
	})
	mux.HandleFunc("GET /carts", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]models.Cart{{ID: 1, UserID: 1}})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestClient_Login(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	c := NewClient(srv.URL, 5*time.Second)

	token, err := c.Login(context.Background(), models.Credentials{Username: "mor_2314", Password: "83r5^_"})
	require.NoError(t, err)
	assert.Equal(t, "demo-token", token)
}

func TestClient_Login_BadCredentials(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	c := NewClient(srv.URL, 5*time.Second)

	_, err := c.Login(context.Background(), models.Credentials{Username: "bad", Password: "bad"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status: 401")
}

func TestClient_Products(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	c := NewClient(srv.URL, 5*time.Second)

	products, err := c.Products(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Backpack", products[0].Title)
	assert.InDelta(t, 109.95, products[0].Price, 1e-9)
}

func TestClient_ProductsByCategory_EscapesPath(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	c := NewClient(srv.URL, 5*time.Second)

	products, err := c.ProductsByCategory(context.Background(), "men's clothing")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "men's clothing", products[0].Category)
}

func TestClient_Product_NotFound(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	c := NewClient(srv.URL, 5*time.Second)

	_, err := c.Product(context.Background(), 404)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status: 404")
}

func TestClient_CartsByUser(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	c := NewClient(srv.URL, 5*time.Second)

	carts, err := c.CartsByUser(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, carts, 1)
	require.Len(t, carts[0].Products, 1)
	assert.Equal(t, 4, carts[0].Products[0].Quantity)
}

func TestClient_Timeout(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, 20*time.Millisecond)
	_, err := c.Products(context.Background())
	require.Error(t, err)
}

type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte)}
}

func (m *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if data, ok := m.data[key]; ok {
		return data, nil
	}
	return nil, ErrCacheMiss
}

func (m *memoryCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func TestClient_CacheServesSecondRead(t *testing.T) {
	t.Parallel()

	srv, hits := newTestServer(t)
	c := NewClient(srv.URL, 5*time.Second, WithCache(newMemoryCache(), time.Minute))

	first, err := c.Products(context.Background())
	require.NoError(t, err)
	second, err := c.Products(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, *hits)
}

func TestClient_UsersNotCached(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	cache := newMemoryCache()
	c := NewClient(srv.URL, 5*time.Second, WithCache(cache, time.Minute))

	_, err := c.Users(context.Background())
	require.NoError(t, err)
	assert.Empty(t, cache.data)
}
