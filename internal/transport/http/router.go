package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gsousaaa/ecommerce-aws/internal/transport/http/handler"
)

type Handlers struct {
	Product *handler.ProductHandler
	Order   *handler.OrderHandler
}

func RegisterRoutes(app *fiber.App, h *Handlers) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("E-commerce service is alive!")
	})

	products := app.Group("/products")
	products.Get("", h.Product.List)
	products.Get("/:id", h.Product.Get)
	products.Post("", h.Product.Create)
	products.Put("/:id", h.Product.Update)
	products.Delete("/:id", h.Product.Delete)

	orders := app.Group("/orders")
	orders.Get("", h.Order.List)
	orders.Post("", h.Order.Place)
	orders.Delete("", h.Order.Delete)
}
