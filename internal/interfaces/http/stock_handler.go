package http

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/ecommerce-stock/internal/application/allocation"
	"github.com/jhoicas/ecommerce-stock/internal/application/dto"
	"github.com/jhoicas/ecommerce-stock/internal/application/usecase"
	"github.com/jhoicas/ecommerce-stock/internal/domain"
	"github.com/jhoicas/ecommerce-stock/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// StockHandler maneja las peticiones HTTP del núcleo de asignación de stock.
// ErrLockTimeout es transitorio: el handler reintenta con backoff acotado antes
// de devolver 503 (las demás fallas no se reintentan).
type StockHandler struct {
	allocator *allocation.AllocationEngine
	restorer  *allocation.RestorationEngine
	adjuster  *allocation.AdjustmentUseCase
	movements *usecase.MovementQueryUseCase
	retries   int
	backoff   time.Duration
}

// NewStockHandler construye el handler.
func NewStockHandler(
	allocator *allocation.AllocationEngine,
	restorer *allocation.RestorationEngine,
	adjuster *allocation.AdjustmentUseCase,
	movements *usecase.MovementQueryUseCase,
	retries int,
	backoff time.Duration,
) *StockHandler {
	if retries < 0 {
		retries = 0
	}
	return &StockHandler{
		allocator: allocator,
		restorer:  restorer,
		adjuster:  adjuster,
		movements: movements,
		retries:   retries,
		backoff:   backoff,
	}
}

// Allocate asigna stock para una variante durante el checkout.
// POST /api/inventory/allocations
func (h *StockHandler) Allocate(c *fiber.Ctx) error {
	var in dto.AllocateRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	var result *entity.AllocationResult
	err := h.withLockRetry(c.Context(), func(ctx context.Context) error {
		var err error
		result, err = h.allocator.Allocate(ctx, allocation.AllocationInput{
			VariantID: in.VariantID,
			Quantity:  in.Quantity,
			Reference: in.Reference,
			Actor:     in.Actor,
		})
		return err
	})
	if err != nil {
		return writeDomainError(c, err)
	}

	out := dto.AllocateResponse{VariantID: result.VariantID, Reference: result.Reference}
	for _, l := range result.Lines {
		out.Lines = append(out.Lines, dto.AllocationLineDTO{
			WarehouseID: l.WarehouseID,
			VariantID:   l.VariantID,
			Quantity:    l.QuantityTaken,
		})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Restore revierte una asignación previa (cancelación de orden).
// POST /api/inventory/restorations
func (h *StockHandler) Restore(c *fiber.Ctx) error {
	var in dto.RestoreRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	lines := make([]entity.AllocationLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, entity.AllocationLine{
			WarehouseID:   l.WarehouseID,
			VariantID:     l.VariantID,
			QuantityTaken: l.Quantity,
		})
	}
	err := h.withLockRetry(c.Context(), func(ctx context.Context) error {
		return h.restorer.Restore(ctx, allocation.RestoreInput{
			Reference: in.Reference,
			Actor:     in.Actor,
			Lines:     lines,
		})
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "asignación revertida"})
}

// Adjust aplica un ajuste manual con delta con signo.
// POST /api/inventory/adjustments
func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	var unitCost *decimal.Decimal
	if in.UnitCost != nil && *in.UnitCost != "" {
		parsed, err := decimal.NewFromString(*in.UnitCost)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "unit_cost inválido"})
		}
		unitCost = &parsed
	}

	var record *entity.StockRecord
	err := h.withLockRetry(c.Context(), func(ctx context.Context) error {
		var err error
		record, err = h.adjuster.ManualAdjust(ctx, allocation.AdjustInput{
			VariantID:   in.VariantID,
			WarehouseID: in.WarehouseID,
			Delta:       in.Delta,
			UnitCost:    unitCost,
			Actor:       in.Actor,
			Reference:   in.Reference,
		})
		return err
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(toStockRecordResponse(record))
}

// SetLevel fija cantidad y umbral de una fila, creándola si no existe.
// PUT /api/inventory/stock
func (h *StockHandler) SetLevel(c *fiber.Ctx) error {
	var in dto.SetStockLevelRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	var record *entity.StockRecord
	err := h.withLockRetry(c.Context(), func(ctx context.Context) error {
		var err error
		record, err = h.adjuster.SetStockLevel(ctx, allocation.SetLevelInput{
			VariantID:    in.VariantID,
			WarehouseID:  in.WarehouseID,
			Quantity:     in.Quantity,
			MinThreshold: in.MinThreshold,
			Actor:        in.Actor,
		})
		return err
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(toStockRecordResponse(record))
}

// ListMovements lista el log de movimientos por referencia, bodega o variante.
// GET /api/inventory/movements?reference=|warehouse_id=|variant_id=&limit=&offset=
func (h *StockHandler) ListMovements(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)

	var (
		entries []*entity.MovementEntry
		err     error
	)
	switch {
	case c.Query("reference") != "":
		entries, err = h.movements.ByReference(c.Context(), c.Query("reference"))
	case c.Query("warehouse_id") != "":
		entries, err = h.movements.ByWarehouse(c.Context(), c.Query("warehouse_id"), limit, offset)
	case c.Query("variant_id") != "":
		entries, err = h.movements.ByVariant(c.Context(), c.Query("variant_id"), limit, offset)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "se requiere reference, warehouse_id o variant_id"})
	}
	if err != nil {
		return writeDomainError(c, err)
	}

	out := make([]dto.MovementResponse, 0, len(entries))
	for _, m := range entries {
		resp := dto.MovementResponse{
			ID:               m.ID,
			WarehouseID:      m.WarehouseID,
			VariantID:        m.VariantID,
			PreviousQuantity: m.PreviousQuantity,
			NewQuantity:      m.NewQuantity,
			Delta:            m.Delta,
			Reason:           m.Reason,
			Reference:        m.Reference,
			Actor:            m.Actor,
			CreatedAt:        m.CreatedAt,
		}
		if !m.UnitCost.IsZero() {
			resp.UnitCost = m.UnitCost.String()
		}
		out = append(out, resp)
	}
	return c.Status(fiber.StatusOK).JSON(out)
}

// withLockRetry ejecuta fn y reintenta solo ante ErrLockTimeout, con backoff lineal
// acotado. Cualquier otra falla se propaga en el primer intento.
func (h *StockHandler) withLockRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = fn(ctx)
		if err == nil || !errors.Is(err, domain.ErrLockTimeout) || attempt >= h.retries {
			return err
		}
		select {
		case <-ctx.Done():
			return err
		case <-time.After(h.backoff * time.Duration(attempt+1)):
		}
	}
}

func toStockRecordResponse(r *entity.StockRecord) dto.StockRecordResponse {
	return dto.StockRecordResponse{
		VariantID:    r.VariantID,
		WarehouseID:  r.WarehouseID,
		Quantity:     r.Quantity,
		MinThreshold: r.MinThreshold,
		UpdatedAt:    r.UpdatedAt,
	}
}
