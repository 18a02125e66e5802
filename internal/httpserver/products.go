package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/banjul-labs/storefront/internal/logging"
)

type ProductsHTTP struct{}

// List loads the full catalog, or one category when ?category= is present.
// On upstream failure the previously loaded view set stays in the snapshot
// alongside the error.
func (h *ProductsHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "products.list")

	st := sessionStore(c)

	var err error
	if category := c.QueryParam("category"); category != "" {
		err = st.LoadProductsByCategory(ctx, category)
	} else {
		err = st.LoadProducts(ctx)
	}

	snap := st.Products()
	if err != nil {
		l.Error("products_list_error", "status", 502, "error", err)
		return c.JSON(http.StatusBadGateway, snap)
	}

	l.Info("products listed", "count", len(snap.Products), "category", snap.SelectedCategory)
	return c.JSON(http.StatusOK, snap)
}

func (h *ProductsHTTP) Detail(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "products.detail")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		l.Warn("products_detail_error", "status", 400)
		return c.JSON(http.StatusBadRequest, "invalid product id")
	}

	st := sessionStore(c)
	err = st.LoadProduct(ctx, id)

	snap := st.Products()
	if err != nil {
		l.Error("products_detail_error", "status", 502, "id", id, "error", err)
		return c.JSON(http.StatusBadGateway, snap)
	}

	return c.JSON(http.StatusOK, snap)
}

func (h *ProductsHTTP) Categories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "products.categories")

	st := sessionStore(c)
	if err := st.LoadCategories(ctx); err != nil {
		l.Error("categories_error", "status", 502, "error", err)
		return c.JSON(http.StatusBadGateway, st.Products())
	}

	return c.JSON(http.StatusOK, st.Products())
}
