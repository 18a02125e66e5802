package httpserver

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/banjul-labs/storefront/internal/events"
	"github.com/banjul-labs/storefront/internal/logging"
)

type publisher struct {
	Producer *events.Producer
}

// publish emits one activity event keyed by session id. Broker failures are
// logged and swallowed; they never affect the response.
func (p publisher) publish(c echo.Context, event map[string]any) {
	if p.Producer == nil {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := p.Producer.PublishEvent(ctx, sessionID(c), event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish error", "error", err)
	}
}
