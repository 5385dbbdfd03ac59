package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-ledger/internal/application/catalog"
	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/application/stock"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
)

// StockHandler maneja ajustes directos y aprovisionamiento de stock (protegido).
type StockHandler struct {
	service   *stock.Service
	catalogUC *catalog.UseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(service *stock.Service, catalogUC *catalog.UseCase) *StockHandler {
	return &StockHandler{service: service, catalogUC: catalogUC}
}

// Adjust godoc
// @Summary      Ajustar stock de un producto en una bodega
// @Description  Aplica un cambio firmado sobre la cantidad actual. El ajuste es
//
//	atómico: nunca deja la cantidad en negativo ni pierde escrituras concurrentes.
//
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "product_id, warehouse_id, quantity_change (firmado)"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/adjust [post]
func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ProductID == "" || in.WarehouseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id y warehouse_id son requeridos"})
	}
	adj, err := h.service.Adjust(c.Context(), in.ProductID, in.WarehouseID, in.QuantityChange)
	if err != nil {
		var notConfigured *domain.StockNotConfiguredError
		if errors.As(err, &notConfigured) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "STOCK_NOT_CONFIGURED", Message: err.Error()})
		}
		var insufficient *domain.InsufficientStockError
		if errors.As(err, &insufficient) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()})
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{
		"product_id":   in.ProductID,
		"warehouse_id": in.WarehouseID,
		"old_quantity": adj.OldQuantity,
		"new_quantity": adj.NewQuantity,
	})
}

// Provision godoc
// @Summary      Aprovisionar fila de stock
// @Description  Crea la fila (producto, bodega) en cero. El saldo inicial se
//
//	carga después con un movimiento IN para dejar línea base en el log.
//
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ProvisionStockRequest  true  "product_id, warehouse_id"
// @Success      201   {object}  map[string]interface{}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/levels [post]
func (h *StockHandler) Provision(c *fiber.Ctx) error {
	var in dto.ProvisionStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	level, err := h.catalogUC.ProvisionStock(c.Context(), in.ProductID, in.WarehouseID)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id y warehouse_id son requeridos"})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto o bodega no encontrado"})
		}
		if errors.Is(err, domain.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_PROVISIONED", Message: "la fila de stock ya existe"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"product_id":   level.ProductID,
		"warehouse_id": level.WarehouseID,
		"quantity":     level.Quantity,
	})
}
