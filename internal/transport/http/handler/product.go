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

type ProductHandler struct {
	catalog  service.CatalogService
	validate *validator.Validate
	logger   *zap.Logger
	timeout  time.Duration
}

func NewProductHandler(catalog service.CatalogService, logger *zap.Logger, timeout time.Duration) *ProductHandler {
	return &ProductHandler{
		catalog:  catalog,
		validate: validator.New(),
		logger:   logger,
		timeout:  timeout,
	}
}

type ProductInput struct {
	Model       string `json:"model" validate:"required"`
	Code        string `json:"code" validate:"required"`
	Price       int64  `json:"price" validate:"required,gt=0"`
	ProductName string `json:"productName" validate:"required,min=3,max=100"`
	ProductURL  string `json:"productUrl" validate:"omitempty,url"`
}

func (in *ProductInput) toProduct() *domain.Product {
	return &domain.Product{
		Model:       in.Model,
		Code:        in.Code,
		Price:       in.Price,
		ProductName: in.ProductName,
		ProductURL:  in.ProductURL,
	}
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()

	products, err := h.catalog.List(ctx)
	if err != nil {
		ctxlog.Warn(ctx, h.logger, "list products failed", zap.Error(err))

		return c.Status(statusFromError(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(products)
}

func (h *ProductHandler) Get(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()

	id := c.Params("id")

	product, err := h.catalog.Get(ctx, id)
	if err != nil {
		ctxlog.Warn(
			ctx,
			h.logger,
			"get product failed",
			zap.String("product_id", id),
			zap.Error(err),
		)

		return c.Status(statusFromError(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(product)
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()

	input := new(ProductInput)
	if err := c.BodyParser(input); err != nil {
		ctxlog.Warn(ctx, h.logger, "body parsing failed", zap.Error(err))

		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if err := h.validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errors": utils.FormatValidationError(err),
		})
	}

	created, err := h.catalog.Create(ctx, input.toProduct(), actorFromRequest(c))
	if err != nil {
		ctxlog.Warn(ctx, h.logger, "create product failed", zap.Error(err))

		return c.Status(statusFromError(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	ctxlog.Info(
		ctx,
		h.logger,
		"product created",
		zap.String("product_id", created.ID),
	)

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()

	id := c.Params("id")

	input := new(ProductInput)
	if err := c.BodyParser(input); err != nil {
		ctxlog.Warn(ctx, h.logger, "body parsing failed", zap.Error(err))

		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if err := h.validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errors": utils.FormatValidationError(err),
		})
	}

	updated, err := h.catalog.Update(ctx, id, input.toProduct(), actorFromRequest(c))
	if err != nil {
		ctxlog.Warn(
			ctx,
			h.logger,
			"update product failed",
			zap.String("product_id", id),
			zap.Error(err),
		)

		return c.Status(statusFromError(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(updated)
}

func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()

	id := c.Params("id")

	deleted, err := h.catalog.Delete(ctx, id, actorFromRequest(c))
	if err != nil {
		ctxlog.Warn(
			ctx,
			h.logger,
			"delete product failed",
			zap.String("product_id", id),
			zap.Error(err),
		)

		return c.Status(statusFromError(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	ctxlog.Info(
		ctx,
		h.logger,
		"product deleted",
		zap.String("product_id", id),
	)

	return c.Status(fiber.StatusOK).JSON(deleted)
}
