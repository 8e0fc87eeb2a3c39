package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/ecommerce-stock/internal/application/dto"
	"github.com/jhoicas/ecommerce-stock/internal/domain"
)

// writeDomainError mapea errores de dominio a respuestas HTTP.
// El flujo de órdenes decide el mensaje de cara al usuario final; aquí solo se
// clasifica: 4xx condiciones de negocio/entrada, 503 contención transitoria.
func writeDomainError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidQuantity), errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrNoStockRecord):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NO_STOCK_RECORD", Message: "no hay registro de stock configurado"})
	case errors.Is(err, domain.ErrUnknownAllocationReference):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "UNKNOWN_REFERENCE", Message: "referencia de asignación desconocida"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	case errors.Is(err, domain.ErrTotalInsufficient):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "TOTAL_INSUFFICIENT", Message: "stock total insuficiente"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "operación duplicada"})
	case errors.Is(err, domain.ErrLockTimeout):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "LOCK_TIMEOUT", Message: "contención de stock, reintente"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
