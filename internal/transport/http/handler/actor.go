package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gsousaaa/ecommerce-aws/internal/service"
)

const systemEmail = "system@ecommerce.local"

// actorFromRequest attributes a mutation to the caller-supplied identity
// header, falling back to the system identity, and ties it to the request
// correlation id.
func actorFromRequest(c *fiber.Ctx) service.Actor {
	email := c.Get("X-User-Email")
	if email == "" {
		email = systemEmail
	}

	rid, _ := c.Locals(requestid.ConfigDefault.ContextKey).(string)

	return service.Actor{
		Email:     email,
		RequestID: rid,
	}
}
