package httpapi

import (
	"strings"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/i474232898/weather-widget/internal/common"
)

const (
	localBasePath  = "basePath"
	localRequestID = "requestID"
)

// RequestLogger gives every request an id and a logger carrying it. The id
// doubles as the view id of a page load.
func RequestLogger(base zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := uuid.NewString()
		c.Locals(localRequestID, id)
		c.Set("X-Request-ID", id)

		logger := base.With().
			Str("requestID", id).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Logger()
		c.SetUserContext(logging.NewContextWithLogger(c.UserContext(), logger))

		return c.Next()
	}
}

// ForwardedPrefix honours the path prefix a reverse proxy mounts the service
// under. The prefix comes from X-Forwarded-Prefix, or from forceScriptName
// when the header is absent. It is stripped from the request path before
// routing and exposed to handlers as the base path for generated links.
func ForwardedPrefix(forceScriptName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		prefix := common.TrimSlashes(common.FirstNonEmpty(c.Get("X-Forwarded-Prefix"), forceScriptName))
		c.Locals(localBasePath, prefix)

		if prefix != "" {
			path := c.Path()
			if path == prefix || strings.HasPrefix(path, prefix+"/") {
				stripped := strings.TrimPrefix(path, prefix)
				if stripped == "" {
					stripped = "/"
				}
				c.Path(strings.Clone(stripped))
			}
		}

		return c.Next()
	}
}

func basePath(c *fiber.Ctx) string {
	if p, ok := c.Locals(localBasePath).(string); ok {
		return p
	}
	return ""
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals(localRequestID).(string); ok {
		return id
	}
	return uuid.NewString()
}
