package httpserver

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/banjul-labs/storefront/internal/events"
	"github.com/banjul-labs/storefront/internal/fakestore"
	"github.com/banjul-labs/storefront/internal/session"
	"github.com/banjul-labs/storefront/internal/store"
)

type Deps struct {
	Sessions *session.Manager
	Client   *fakestore.Client
	Producer *events.Producer
}

func Register(e *echo.Echo, d *Deps) {
	e.Validator = NewValidator()

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	pub := publisher{Producer: d.Producer}
	authHandler := &AuthHTTP{publisher: pub}
	productsHandler := &ProductsHTTP{}
	cartHandler := &CartHTTP{Client: d.Client, publisher: pub}
	ordersHandler := &OrdersHTTP{Client: d.Client}

	api := e.Group("/api")
	api.Use(sessionMiddleware(d.Sessions))

	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/logout", authHandler.Logout)
	api.GET("/auth", authHandler.Get)

	api.GET("/products", productsHandler.List)
	api.GET("/products/:id", productsHandler.Detail)
	api.GET("/categories", productsHandler.Categories)

	api.GET("/cart", cartHandler.Get)
	api.POST("/cart/items", cartHandler.AddItem)
	api.PUT("/cart/items/:id", cartHandler.UpdateItem)
	api.DELETE("/cart/items/:id", cartHandler.RemoveItem)
	api.DELETE("/cart", cartHandler.Clear)

	api.GET("/orders", ordersHandler.Get)
}

type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

func (v *Validator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

const sessionCookie = "session_id"

// sessionMiddleware resolves the shopper's store from the session cookie,
// minting a fresh session when the cookie is absent or expired.
func sessionMiddleware(m *session.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var (
				st *store.Store
				id string
			)
			if ck, err := c.Cookie(sessionCookie); err == nil && ck.Value != "" {
				if s, ok := m.Get(ck.Value); ok {
					st, id = s, ck.Value
				}
			}
			if st == nil {
				id, st = m.Create()
				c.SetCookie(&http.Cookie{
					Name:     sessionCookie,
					Value:    id,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			c.Set("session_id", id)
			c.Set("session_store", st)
			return next(c)
		}
	}
}

func sessionStore(c echo.Context) *store.Store {
	st, _ := c.Get("session_store").(*store.Store)
	return st
}

func sessionID(c echo.Context) string {
	id, _ := c.Get("session_id").(string)
	return id
}
