// Package store holds the session state of one shopper: the cart reducer and
// the products/auth request-state slices. All mutation goes through Store
// methods; reads return snapshot copies, never internal slices. The mutex
// serializes intents, so a reader never observes a half-applied mutation.
package store

import (
	"context"
	"sync"

	"github.com/banjul-labs/storefront/internal/models"
)

// CatalogClient is what the products slice needs from the network boundary.
type CatalogClient interface {
	Products(ctx context.Context) ([]models.Product, error)
	Product(ctx context.Context, id int) (models.Product, error)
	Categories(ctx context.Context) ([]string, error)
	ProductsByCategory(ctx context.Context, category string) ([]models.Product, error)
}

// AuthClient is what the auth slice needs from the network boundary.
type AuthClient interface {
	Login(ctx context.Context, creds models.Credentials) (string, error)
	User(ctx context.Context, id int) (models.User, error)
}

type Store struct {
	mu sync.Mutex

	catalog CatalogClient
	auth    AuthClient

	cart     cartData
	products productsData
	account  authData

	// Generation counters per fetch family. A completion whose generation
	// is no longer current is discarded entirely, so a slow stale response
	// can never overwrite the outcome of a newer request.
	listGen     uint64
	detailGen   uint64
	categoryGen uint64
	authGen     uint64
}

func New(catalog CatalogClient, auth AuthClient) *Store {
	return &Store{
		catalog: catalog,
		auth:    auth,
	}
}

// Cart returns a snapshot of the live cart.
func (s *Store) Cart() CartState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.snapshot()
}

// Products returns a snapshot of the catalog view state.
func (s *Store) Products() ProductsState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products.snapshot()
}

// Auth returns a snapshot of the authentication state.
func (s *Store) Auth() AuthState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.account.snapshot()
}

// ProductByID looks a product up in the currently loaded view set.
func (s *Store) ProductByID(id int) (models.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.products.items {
		if p.ID == id {
			return p, true
		}
	}
	if s.products.current != nil && s.products.current.ID == id {
		return *s.products.current, true
	}
	return models.Product{}, false
}
