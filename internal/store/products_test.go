package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banjul-labs/storefront/internal/models"
)

type fakeCatalog struct {
	products   func(ctx context.Context) ([]models.Product, error)
	product    func(ctx context.Context, id int) (models.Product, error)
	categories func(ctx context.Context) ([]string, error)
	byCategory func(ctx context.Context, category string) ([]models.Product, error)
}

func (f *fakeCatalog) Products(ctx context.Context) ([]models.Product, error) {
	return f.products(ctx)
}

func (f *fakeCatalog) Product(ctx context.Context, id int) (models.Product, error) {
	return f.product(ctx, id)
}

func (f *fakeCatalog) Categories(ctx context.Context) ([]string, error) {
	return f.categories(ctx)
}

func (f *fakeCatalog) ProductsByCategory(ctx context.Context, category string) ([]models.Product, error) {
	return f.byCategory(ctx, category)
}

var errUpstream = errors.New("upstream down")

func TestLoadProducts_ReplacesViewAndClearsCategory(t *testing.T) {
	t.Parallel()

	catalog := &fakeCatalog{
		products: func(context.Context) ([]models.Product, error) {
			return []models.Product{product(1, 10), product(2, 20)}, nil
		},
		byCategory: func(_ context.Context, category string) ([]models.Product, error) {
			return []models.Product{product(3, 30)}, nil
		},
	}
	s := New(catalog, nil)

	require.NoError(t, s.LoadProductsByCategory(context.Background(), "electronics"))
	snap := s.Products()
	assert.Equal(t, "electronics", snap.SelectedCategory)
	require.Len(t, snap.Products, 1)

	// Selecting the full catalog replaces the set and clears the category
	// together; it is a fresh fetch, not a client-side unfilter.
	require.NoError(t, s.LoadProducts(context.Background()))
	snap = s.Products()
	assert.Empty(t, snap.SelectedCategory)
	require.Len(t, snap.Products, 2)
	assert.False(t, snap.IsLoading)
	assert.Empty(t, snap.Error)
}

func TestLoadProducts_FailureKeepsStaleData(t *testing.T) {
	t.Parallel()

	healthy := true
	catalog := &fakeCatalog{
		products: func(context.Context) ([]models.Product, error) {
			if !healthy {
				return nil, errUpstream
			}
			return []models.Product{product(1, 10)}, nil
		},
	}
	s := New(catalog, nil)

	require.NoError(t, s.LoadProducts(context.Background()))

	healthy = false
	err := s.LoadProducts(context.Background())
	require.Error(t, err)
	require.ErrorIs(t, err, errUpstream)

	snap := s.Products()
	assert.Equal(t, "failed to fetch products", snap.Error)
	assert.False(t, snap.IsLoading)
	// Previously loaded data stays in place.
	require.Len(t, snap.Products, 1)
	assert.Equal(t, 1, snap.Products[0].ID)
}

func TestLoadProducts_RetryClearsError(t *testing.T) {
	t.Parallel()

	healthy := false
	catalog := &fakeCatalog{
		products: func(context.Context) ([]models.Product, error) {
			if !healthy {
				return nil, errUpstream
			}
			return []models.Product{product(1, 10)}, nil
		},
	}
	s := New(catalog, nil)

	require.Error(t, s.LoadProducts(context.Background()))
	require.NotEmpty(t, s.Products().Error)

	healthy = true
	require.NoError(t, s.LoadProducts(context.Background()))
	assert.Empty(t, s.Products().Error)
}

func TestLoadProduct_PopulatesDetailOnly(t *testing.T) {
	t.Parallel()

	catalog := &fakeCatalog{
		products: func(context.Context) ([]models.Product, error) {
			return []models.Product{product(1, 10)}, nil
		},
		product: func(_ context.Context, id int) (models.Product, error) {
			return product(id, 99), nil
		},
	}
	s := New(catalog, nil)
	require.NoError(t, s.LoadProducts(context.Background()))

	require.NoError(t, s.LoadProduct(context.Background(), 7))

	snap := s.Products()
	require.NotNil(t, snap.CurrentProduct)
	assert.Equal(t, 7, snap.CurrentProduct.ID)
	// The list view is untouched.
	require.Len(t, snap.Products, 1)
	assert.Equal(t, 1, snap.Products[0].ID)

	s.ClearCurrentProduct()
	assert.Nil(t, s.Products().CurrentProduct)
}

func TestLoadCategories(t *testing.T) {
	t.Parallel()

	catalog := &fakeCatalog{
		categories: func(context.Context) ([]string, error) {
			return []string{"electronics", "jewelery"}, nil
		},
	}
	s := New(catalog, nil)

	require.NoError(t, s.LoadCategories(context.Background()))
	assert.Equal(t, []string{"electronics", "jewelery"}, s.Products().Categories)
}

// A slow response from an older request must not overwrite the outcome of a
// newer one: completions are tagged with a generation and stale ones are
// discarded entirely.
func TestLoadProducts_StaleCompletionDiscarded(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	release := make(chan struct{})

	catalog := &fakeCatalog{
		products: func(context.Context) ([]models.Product, error) {
			close(started)
			<-release
			return []models.Product{product(1, 10), product(2, 20)}, nil
		},
		byCategory: func(_ context.Context, category string) ([]models.Product, error) {
			return []models.Product{product(3, 30)}, nil
		},
	}
	s := New(catalog, nil)

	done := make(chan error, 1)
	go func() {
		done <- s.LoadProducts(context.Background())
	}()

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("fetch never started")
	}

	// A newer request completes while the older one is still in flight.
	require.NoError(t, s.LoadProductsByCategory(context.Background(), "electronics"))

	close(release)
	require.NoError(t, <-done)

	snap := s.Products()
	assert.Equal(t, "electronics", snap.SelectedCategory)
	require.Len(t, snap.Products, 1)
	assert.Equal(t, 3, snap.Products[0].ID)
	assert.False(t, snap.IsLoading)
	assert.Empty(t, snap.Error)
}

func TestLoadProducts_StaleFailureDiscarded(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	release := make(chan struct{})

	catalog := &fakeCatalog{
		products: func(context.Context) ([]models.Product, error) {
			close(started)
			<-release
			return nil, errUpstream
		},
		byCategory: func(_ context.Context, category string) ([]models.Product, error) {
			return []models.Product{product(3, 30)}, nil
		},
	}
	s := New(catalog, nil)

	done := make(chan error, 1)
	go func() {
		done <- s.LoadProducts(context.Background())
	}()

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("fetch never started")
	}

	require.NoError(t, s.LoadProductsByCategory(context.Background(), "electronics"))

	close(release)
	require.Error(t, <-done)

	// The stale rejection does not mark the fresher view as failed.
	snap := s.Products()
	assert.Empty(t, snap.Error)
	assert.Equal(t, "electronics", snap.SelectedCategory)
}

func TestProductByID(t *testing.T) {
	t.Parallel()

	catalog := &fakeCatalog{
		products: func(context.Context) ([]models.Product, error) {
			return []models.Product{product(1, 10), product(2, 20)}, nil
		},
	}
	s := New(catalog, nil)
	require.NoError(t, s.LoadProducts(context.Background()))

	p, ok := s.ProductByID(2)
	require.True(t, ok)
	assert.Equal(t, 2, p.ID)

	_, ok = s.ProductByID(99)
	assert.False(t, ok)
}
