package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-ledger/internal/application/audit"
	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
)

// AuditHandler expone la corrida del auditor de conciliación (protegido,
// solo roles admin y auditor).
type AuditHandler struct {
	auditor *audit.Auditor
	pdfGen  audit.ReportPDFGenerator
}

// NewAuditHandler construye el handler de auditoría.
func NewAuditHandler(auditor *audit.Auditor, pdfGen audit.ReportPDFGenerator) *AuditHandler {
	return &AuditHandler{auditor: auditor, pdfGen: pdfGen}
}

// Reconciliation godoc
// @Summary      Corrida de conciliación de inventario
// @Description  Recomputa por producto la cantidad esperada a partir del log
//
//	de movimientos y el consumo de ventas pagadas, y la compara contra el
//	stock materializado. Divergentes primero, luego alfabético.
//
// @Tags         audit
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  audit.Report
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/audit/reconciliation [get]
func (h *AuditHandler) Reconciliation(c *fiber.Ctx) error {
	report, err := h.auditor.Run(c.Context())
	if err != nil {
		if errors.Is(err, domain.ErrAuditUnavailable) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "AUDIT_UNAVAILABLE", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(report)
}

// ReconciliationPDF godoc
// @Summary      Informe de conciliación en PDF
// @Tags         audit
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}    binary
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/audit/reconciliation/pdf [get]
func (h *AuditHandler) ReconciliationPDF(c *fiber.Ctx) error {
	report, err := h.auditor.Run(c.Context())
	if err != nil {
		if errors.Is(err, domain.ErrAuditUnavailable) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "AUDIT_UNAVAILABLE", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	pdfBytes, err := h.pdfGen.GenerateReportPDF(c.Context(), report)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "PDF_GENERATION", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="conciliacion-inventario.pdf"`)
	return c.Send(pdfBytes)
}
