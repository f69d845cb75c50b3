package auth

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

const (
	// HeaderName is the header a sending site presents its key in.
	HeaderName = "X-Sync-Key"
	// ParamName is the query or form field accepted as a fallback.
	ParamName = "press_sync_key"
)

// Config holds the auth middleware settings.
type Config struct {
	// ApiKey is the shared secret. An empty key rejects every request.
	ApiKey string
	// Next skips the middleware when it returns true.
	Next func(c *fiber.Ctx) bool
}

// New creates a middleware rejecting requests without the shared sync key.
func New(cfg Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cfg.Next != nil && cfg.Next(c) {
			return c.Next()
		}

		key := presentedKey(c)
		if cfg.ApiKey == "" || key == "" ||
			subtle.ConstantTimeCompare([]byte(key), []byte(cfg.ApiKey)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or missing sync key",
			})
		}
		return c.Next()
	}
}

// presentedKey reads the key from the header, the query string or a form body.
func presentedKey(c *fiber.Ctx) string {
	if key := c.Get(HeaderName); key != "" {
		return key
	}
	if key := c.Query(ParamName); key != "" {
		return key
	}
	return c.FormValue(ParamName)
}
