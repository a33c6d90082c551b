package handler

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gsousaaa/ecommerce-aws/internal/domain"
	"github.com/gsousaaa/ecommerce-aws/internal/service"
	"github.com/gsousaaa/ecommerce-aws/pkg/ctxlog"
	"github.com/gsousaaa/ecommerce-aws/pkg/utils"
	"go.uber.org/zap"
)

type OrderHandler struct {
	orders   service.OrderService
	validate *validator.Validate
	logger   *zap.Logger
	timeout  time.Duration
}

func NewOrderHandler(orders service.OrderService, logger *zap.Logger, timeout time.Duration) *OrderHandler {
	return &OrderHandler{
		orders:   orders,
		validate: validator.New(),
		logger:   logger,
		timeout:  timeout,
	}
}

// OrderResponse is the wire shape for orders; the storage keys become
// email and id.
type OrderResponse struct {
	Email     string                `json:"email"`
	ID        string                `json:"id"`
	CreatedAt int64                 `json:"createdAt"`
	Billing   domain.Billing        `json:"billing"`
	Shipping  domain.Shipping       `json:"shipping"`
	Products  []domain.OrderProduct `json:"products"`
}

func toOrderResponse(order *domain.Order) OrderResponse {
	return OrderResponse{
		Email:     order.Email,
		ID:        order.ID,
		CreatedAt: order.CreatedAt,
		Billing:   order.Billing,
		Shipping:  order.Shipping,
		Products:  order.Products,
	}
}

func toOrderResponses(orders []domain.Order) []OrderResponse {
	responses := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, toOrderResponse(&orders[i]))
	}
	return responses
}

func (h *OrderHandler) Place(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()

	req := new(domain.PlaceOrderRequest)
	if err := c.BodyParser(req); err != nil {
		ctxlog.Warn(ctx, h.logger, "body parsing failed", zap.Error(err))

		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errors": utils.FormatValidationError(err),
		})
	}

	order, err := h.orders.PlaceOrder(ctx, req)
	if err != nil {
		ctxlog.Warn(
			ctx,
			h.logger,
			"place order failed",
			zap.String("email", req.Email),
			zap.Error(err),
		)

		return c.Status(statusFromError(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	ctxlog.Info(
		ctx,
		h.logger,
		"order placed",
		zap.String("email", order.Email),
		zap.String("order_id", order.ID),
	)

	return c.Status(fiber.StatusCreated).JSON(toOrderResponse(order))
}

// List dispatches on query parameters: email+orderId fetches one order,
// email alone lists the customer's orders, neither lists everything.
func (h *OrderHandler) List(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()

	email := c.Query("email")
	orderID := c.Query("orderId")

	if email != "" && orderID != "" {
		order, err := h.orders.Get(ctx, email, orderID)
		if err != nil {
			ctxlog.Warn(
				ctx,
				h.logger,
				"get order failed",
				zap.String("email", email),
				zap.String("order_id", orderID),
				zap.Error(err),
			)

			return c.Status(statusFromError(err)).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		return c.Status(fiber.StatusOK).JSON(toOrderResponse(order))
	}

	if email != "" {
		orders, err := h.orders.ListByCustomer(ctx, email)
		if err != nil {
			ctxlog.Warn(
				ctx,
				h.logger,
				"list orders by customer failed",
				zap.String("email", email),
				zap.Error(err),
			)

			return c.Status(statusFromError(err)).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		return c.Status(fiber.StatusOK).JSON(toOrderResponses(orders))
	}

	orders, err := h.orders.ListAll(ctx)
	if err != nil {
		ctxlog.Warn(ctx, h.logger, "list orders failed", zap.Error(err))

		return c.Status(statusFromError(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(toOrderResponses(orders))
}

func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()

	email := c.Query("email")
	orderID := c.Query("orderId")

	if email == "" || orderID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "email and orderId are required",
		})
	}

	deleted, err := h.orders.Delete(ctx, email, orderID)
	if err != nil {
		ctxlog.Warn(
			ctx,
			h.logger,
			"delete order failed",
			zap.String("email", email),
			zap.String("order_id", orderID),
			zap.Error(err),
		)

		return c.Status(statusFromError(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	ctxlog.Info(
		ctx,
		h.logger,
		"order deleted",
		zap.String("email", email),
		zap.String("order_id", orderID),
	)

	return c.Status(fiber.StatusOK).JSON(toOrderResponse(deleted))
}
