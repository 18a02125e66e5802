package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/banjul-labs/storefront/internal/currency"
	"github.com/banjul-labs/storefront/internal/fakestore"
	"github.com/banjul-labs/storefront/internal/logging"
	"github.com/banjul-labs/storefront/internal/models"
	"github.com/banjul-labs/storefront/internal/store"
)

type CartHTTP struct {
	Client *fakestore.Client
	publisher
}

type addItemRequest struct {
	ProductID int `json:"product_id" validate:"required,gt=0"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type cartLineView struct {
	Product      models.Product `json:"product"`
	Quantity     int            `json:"quantity"`
	LineTotal    float64        `json:"line_total"`
	LineTotalGMD string         `json:"line_total_gmd"`
}

type cartView struct {
	Lines         []cartLineView `json:"lines"`
	TotalItems    int            `json:"total_items"`
	TotalPrice    float64        `json:"total_price"`
	TotalPriceGMD string         `json:"total_price_gmd"`
}

func newCartView(snap store.CartState) cartView {
	view := cartView{
		Lines:         make([]cartLineView, 0, len(snap.Lines)),
		TotalItems:    snap.TotalItems,
		TotalPrice:    snap.TotalPrice,
		TotalPriceGMD: currency.FormatGMD(snap.TotalPrice),
	}
	for _, line := range snap.Lines {
		total := line.Product.Price * float64(line.Quantity)
		view.Lines = append(view.Lines, cartLineView{
			Product:      line.Product,
			Quantity:     line.Quantity,
			LineTotal:    total,
			LineTotalGMD: currency.FormatGMD(total),
		})
	}
	return view
}

func (h *CartHTTP) Get(c echo.Context) error {
	return c.JSON(http.StatusOK, newCartView(sessionStore(c).Cart()))
}

// AddItem resolves the product snapshot, preferring the session's loaded view
// set and falling back to a direct catalog fetch.
func (h *CartHTTP) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	var req addItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_to_cart_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("add_to_cart_error", "status", 400, "error", err)
		return err
	}

	st := sessionStore(c)
	product, ok := st.ProductByID(req.ProductID)
	if !ok {
		var err error
		product, err = h.Client.Product(ctx, req.ProductID)
		if err != nil {
			l.Error("add_to_cart_error", "status", 502, "product_id", req.ProductID, "error", err)
			return c.JSON(http.StatusBadGateway, "product unavailable")
		}
	}

	snap := st.AddToCart(product)

	h.publish(c, map[string]any{
		"type":        "add_cart_item",
		"product_id":  product.ID,
		"total_items": snap.TotalItems,
	})

	l.Info("item added to cart", "product_id", product.ID)
	return c.JSON(http.StatusCreated, newCartView(snap))
}

func (h *CartHTTP) UpdateItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		l.Warn("update_cart_error", "status", 400)
		return c.JSON(http.StatusBadRequest, "invalid product id")
	}

	var req updateQuantityRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_cart_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, "invalid body")
	}

	snap := sessionStore(c).UpdateQuantity(id, req.Quantity)

	h.publish(c, map[string]any{
		"type":       "update_cart_item",
		"product_id": id,
		"quantity":   req.Quantity,
	})

	return c.JSON(http.StatusOK, newCartView(snap))
}

func (h *CartHTTP) RemoveItem(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "cart.remove")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		l.Warn("remove_cart_error", "status", 400)
		return c.JSON(http.StatusBadRequest, "invalid product id")
	}

	snap := sessionStore(c).RemoveFromCart(id)

	h.publish(c, map[string]any{
		"type":       "remove_cart_item",
		"product_id": id,
	})

	return c.JSON(http.StatusOK, newCartView(snap))
}

func (h *CartHTTP) Clear(c echo.Context) error {
	snap := sessionStore(c).ClearCart()

	h.publish(c, map[string]any{"type": "clear_cart"})

	return c.JSON(http.StatusOK, newCartView(snap))
}
