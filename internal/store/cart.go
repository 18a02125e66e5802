package store

import "github.com/banjul-labs/storefront/internal/models"

// CartLine is one entry of the cart: a product snapshot and its quantity.
// Lines with quantity <= 0 never exist; they are removed instead.
type CartLine struct {
	Product  models.Product `json:"product"`
	Quantity int            `json:"quantity"`
}

// CartState is a snapshot of the cart. TotalItems and TotalPrice are derived
// from Lines and recomputed from scratch after every mutation.
type CartState struct {
	Lines      []CartLine `json:"lines"`
	TotalItems int        `json:"total_items"`
	TotalPrice float64    `json:"total_price"`
}

type cartData struct {
	lines      []CartLine
	totalItems int
	totalPrice float64
}

func (d *cartData) snapshot() CartState {
	lines := make([]CartLine, len(d.lines))
	copy(lines, d.lines)
	return CartState{
		Lines:      lines,
		TotalItems: d.totalItems,
		TotalPrice: d.totalPrice,
	}
}

// recalc rebuilds both totals from the line list so they can never drift.
func (d *cartData) recalc() {
	items := 0
	price := 0.0
	for _, line := range d.lines {
		items += line.Quantity
		price += line.Product.Price * float64(line.Quantity)
	}
	d.totalItems = items
	d.totalPrice = price
}

// AddToCart increments the quantity of an existing line for the product, or
// appends a new quantity-1 line. It always succeeds.
func (s *Store) AddToCart(product models.Product) CartState {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for i := range s.cart.lines {
		if s.cart.lines[i].Product.ID == product.ID {
			s.cart.lines[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		s.cart.lines = append(s.cart.lines, CartLine{Product: product, Quantity: 1})
	}

	s.cart.recalc()
	return s.cart.snapshot()
}

// RemoveFromCart deletes the line for the product id. No-op when absent.
func (s *Store) RemoveFromCart(productID int) CartState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeLineLocked(productID)
	s.cart.recalc()
	return s.cart.snapshot()
}

// UpdateQuantity sets the absolute quantity of the line for the product id.
// A quantity <= 0 removes the line. No-op when the product is not in the cart.
func (s *Store) UpdateQuantity(productID, quantity int) CartState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		s.removeLineLocked(productID)
	} else {
		for i := range s.cart.lines {
			if s.cart.lines[i].Product.ID == productID {
				s.cart.lines[i].Quantity = quantity
				break
			}
		}
	}

	s.cart.recalc()
	return s.cart.snapshot()
}

// ClearCart empties the cart.
func (s *Store) ClearCart() CartState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart.lines = nil
	s.cart.recalc()
	return s.cart.snapshot()
}

func (s *Store) removeLineLocked(productID int) {
	kept := s.cart.lines[:0]
	for _, line := range s.cart.lines {
		if line.Product.ID != productID {
			kept = append(kept, line)
		}
	}
	s.cart.lines = kept
}
