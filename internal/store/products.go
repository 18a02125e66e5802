package store

import (
	"context"
	"fmt"

	"github.com/banjul-labs/storefront/internal/models"
)

// ProductsState is a snapshot of the catalog view. SelectedCategory is empty
// when the full catalog is shown; it is always replaced together with
// Products, never set independently.
type ProductsState struct {
	Products         []models.Product `json:"products"`
	Categories       []string         `json:"categories"`
	SelectedCategory string           `json:"selected_category,omitempty"`
	CurrentProduct   *models.Product  `json:"current_product,omitempty"`
	IsLoading        bool             `json:"is_loading"`
	Error            string           `json:"error,omitempty"`
}

type productsData struct {
	items            []models.Product
	categories       []string
	selectedCategory string
	current          *models.Product
	phase            phase
}

func (d *productsData) snapshot() ProductsState {
	items := make([]models.Product, len(d.items))
	copy(items, d.items)
	categories := make([]string, len(d.categories))
	copy(categories, d.categories)

	snap := ProductsState{
		Products:         items,
		Categories:       categories,
		SelectedCategory: d.selectedCategory,
		IsLoading:        d.phase.loading(),
		Error:            d.phase.message(),
	}
	if d.current != nil {
		p := *d.current
		snap.CurrentProduct = &p
	}
	return snap
}

// LoadProducts replaces the view set with the full catalog and clears the
// selected category. On failure the previous view set stays in place.
func (s *Store) LoadProducts(ctx context.Context) error {
	gen := s.beginList()

	products, err := s.catalog.Products(ctx)
	if err != nil {
		s.rejectList(gen, "failed to fetch products")
		return fmt.Errorf("fetch products: %w", err)
	}

	s.fulfillList(gen, products, "")
	return nil
}

// LoadProductsByCategory replaces the view set with the category's products
// and records the selection. The replacement is always a fresh fetch, never a
// client-side filter of a cached superset.
func (s *Store) LoadProductsByCategory(ctx context.Context, category string) error {
	gen := s.beginList()

	products, err := s.catalog.ProductsByCategory(ctx, category)
	if err != nil {
		s.rejectList(gen, "failed to fetch products by category")
		return fmt.Errorf("fetch products by category %q: %w", category, err)
	}

	s.fulfillList(gen, products, category)
	return nil
}

// LoadProduct populates the detail view without touching the list view.
func (s *Store) LoadProduct(ctx context.Context, id int) error {
	s.mu.Lock()
	s.detailGen++
	gen := s.detailGen
	s.products.phase = pending()
	s.mu.Unlock()

	product, err := s.catalog.Product(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.detailGen {
		return nil
	}
	if err != nil {
		s.products.phase = rejected("failed to fetch product")
		return fmt.Errorf("fetch product %d: %w", id, err)
	}
	s.products.current = &product
	s.products.phase = fulfilled()
	return nil
}

// LoadCategories refreshes the category list.
func (s *Store) LoadCategories(ctx context.Context) error {
	s.mu.Lock()
	s.categoryGen++
	gen := s.categoryGen
	s.mu.Unlock()

	categories, err := s.catalog.Categories(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.categoryGen {
		return nil
	}
	if err != nil {
		return fmt.Errorf("fetch categories: %w", err)
	}
	s.products.categories = categories
	return nil
}

// ClearCurrentProduct resets the detail view.
func (s *Store) ClearCurrentProduct() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products.current = nil
}

// ClearProductsError drops a rejected phase without touching loaded data.
func (s *Store) ClearProductsError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.products.phase.state == phaseRejected {
		s.products.phase = phase{}
	}
}

func (s *Store) beginList() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listGen++
	s.products.phase = pending()
	return s.listGen
}

func (s *Store) fulfillList(gen uint64, products []models.Product, category string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.listGen {
		return
	}
	s.products.items = products
	s.products.selectedCategory = category
	s.products.phase = fulfilled()
}

func (s *Store) rejectList(gen uint64, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.listGen {
		return
	}
	s.products.phase = rejected(msg)
}
