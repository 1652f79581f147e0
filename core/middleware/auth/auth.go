package auth

import "github.com/gofiber/fiber/v2"

// Header is the request header carrying the API key.
const Header = "X-Api-Key"

// Config holds the middleware configuration.
type Config struct {
	// ApiKey is the secret required on every request. Empty disables auth.
	ApiKey string
}

// New returns a middleware enforcing the configured API key. When the key is
// empty, authentication is disabled and every request passes.
func New(cfg Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cfg.ApiKey == "" {
			return c.Next()
		}
		if c.Get(Header) != cfg.ApiKey {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or missing api key",
			})
		}
		return c.Next()
	}
}
