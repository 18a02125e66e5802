package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/banjul-labs/storefront/internal/fakestore"
	"github.com/banjul-labs/storefront/internal/logging"
)

type OrdersHTTP struct {
	Client *fakestore.Client
}

// Get returns the authenticated shopper's order history from the remote
// carts resource.
func (h *OrdersHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.get")

	auth := sessionStore(c).Auth()
	if !auth.IsAuthenticated {
		l.Warn("orders_error", "status", 401)
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	orders, err := h.Client.CartsByUser(ctx, auth.User.ID)
	if err != nil {
		l.Error("orders_error", "status", 502, "user_id", auth.User.ID, "error", err)
		return c.JSON(http.StatusBadGateway, "failed to fetch order history")
	}

	l.Info("orders fetched", "user_id", auth.User.ID, "count", len(orders))
	return c.JSON(http.StatusOK, orders)
}
