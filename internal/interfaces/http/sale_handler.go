package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/application/sales"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// SaleHandler maneja los workflows de venta (protegido).
type SaleHandler struct {
	uc *sales.UseCase
}

// NewSaleHandler construye el handler de ventas.
func NewSaleHandler(uc *sales.UseCase) *SaleHandler {
	return &SaleHandler{uc: uc}
}

// Create godoc
// @Summary      Crear venta pagada y descontar stock
// @Description  Persiste la venta y consume las líneas. Si el consumo falla en
//
//	alguna línea, lo aplicado se devuelve y la venta queda cancelada; el
//	resultado detalla los errores por línea.
//
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "warehouse_id, items"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  map[string]interface{}
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	items := make([]sales.SaleInputItem, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, sales.SaleInputItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	sale, res, err := h.uc.CreateSale(c.Context(), userID, in.WarehouseID, items)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "warehouse_id e items (cantidades positivas) son requeridos"})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto o bodega no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if sale.Status == entity.SaleStatusCancelled {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"code":    "SALE_NOT_APPLIED",
			"message": "el stock no alcanzó para todas las líneas; la venta quedó cancelada",
			"sale":    toSaleResponse(sale),
			"result":  res,
		})
	}
	return c.Status(fiber.StatusCreated).JSON(toSaleResponse(sale))
}

// Cancel godoc
// @Summary      Cancelar venta y devolver stock
// @Description  Devuelve al inventario las líneas de una venta pagada. Si la
//
//	devolución es parcial, la venta sigue pagada y el resultado reporta las
//	líneas pendientes para reintentar.
//
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la venta"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  map[string]interface{}
// @Router       /api/sales/{id}/cancel [post]
func (h *SaleHandler) Cancel(c *fiber.Ctx) error {
	saleID := c.Params("id")
	res, err := h.uc.CancelSale(c.Context(), saleID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "venta no encontrada"})
		}
		if errors.Is(err, domain.ErrSaleNotAdjustable) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "SALE_NOT_ADJUSTABLE", Message: "solo las ventas pagadas admiten cancelación"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if !res.Success {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"code":    "PARTIAL_REVERT",
			"message": "devolución parcial; la venta sigue pagada, reintente la cancelación",
			"result":  res,
		})
	}
	return c.JSON(fiber.Map{"message": "venta cancelada", "result": res})
}

// UpdateItems godoc
// @Summary      Editar líneas de una venta pagada
// @Description  Calcula el delta neto por producto entre líneas viejas y
//
//	nuevas y lo aplica. Solo si todo el delta aplicó se persisten las líneas
//	nuevas; ante fallo parcial se compensa y la venta conserva las originales.
//
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID de la venta"
// @Param        body  body  dto.UpdateSaleItemsRequest true  "items nuevos"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  map[string]interface{}
// @Router       /api/sales/{id}/items [put]
func (h *SaleHandler) UpdateItems(c *fiber.Ctx) error {
	saleID := c.Params("id")
	var in dto.UpdateSaleItemsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	items := make([]sales.SaleInputItem, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, sales.SaleInputItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	res, err := h.uc.UpdateSaleItems(c.Context(), saleID, items)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "items con cantidades positivas son requeridos"})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "venta no encontrada"})
		}
		if errors.Is(err, domain.ErrSaleNotAdjustable) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "SALE_NOT_ADJUSTABLE", Message: "solo las ventas pagadas admiten edición de líneas"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if !res.Success {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"code":    "ITEMS_NOT_APPLIED",
			"message": "el delta no aplicó completo; la venta conserva sus líneas originales",
			"result":  res,
		})
	}
	return c.JSON(fiber.Map{"message": "líneas actualizadas", "result": res})
}

func toSaleResponse(s *entity.Sale) dto.SaleResponse {
	out := dto.SaleResponse{
		ID:          s.ID,
		WarehouseID: s.WarehouseID,
		Status:      s.Status,
		CreatedAt:   s.CreatedAt,
	}
	for _, it := range s.Items {
		out.Items = append(out.Items, dto.SaleItemResponse{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return out
}
