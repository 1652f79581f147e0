package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Header is the request/response header carrying the ray ID.
const Header = "X-Ray-ID"

// New returns a middleware that assigns every request a ray ID. An incoming
// X-Ray-ID header is honored so upstream proxies can correlate; otherwise a
// fresh UUID is generated. The ID is stored in c.Locals("ray_id") and echoed
// on the response.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(Header)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Locals("ray_id", rid)
		c.Set(Header, rid)
		return c.Next()
	}
}
