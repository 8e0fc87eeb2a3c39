package usecase

import (
	"context"

	"github.com/jhoicas/ecommerce-stock/internal/domain"
	"github.com/jhoicas/ecommerce-stock/internal/domain/entity"
	"github.com/jhoicas/ecommerce-stock/internal/domain/repository"
)

// MovementQueryUseCase consultas de solo lectura sobre el log de movimientos
// (conciliación y auditoría; el log jamás se muta por esta vía).
type MovementQueryUseCase struct {
	movRepo repository.MovementLogRepository
}

// NewMovementQueryUseCase construye el caso de uso sobre repos atados al pool.
func NewMovementQueryUseCase(movRepo repository.MovementLogRepository) *MovementQueryUseCase {
	return &MovementQueryUseCase{movRepo: movRepo}
}

// ByReference movimientos de una referencia (ID de orden), en orden de creación.
func (uc *MovementQueryUseCase) ByReference(ctx context.Context, reference string) ([]*entity.MovementEntry, error) {
	if reference == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.movRepo.FindByReference(ctx, reference)
}

// ByWarehouse movimientos de una bodega, más recientes primero.
func (uc *MovementQueryUseCase) ByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.MovementEntry, error) {
	if warehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.movRepo.ListByWarehouse(ctx, warehouseID, normalizeLimit(limit), normalizeOffset(offset))
}

// ByVariant movimientos de una variante, más recientes primero.
func (uc *MovementQueryUseCase) ByVariant(ctx context.Context, variantID string, limit, offset int) ([]*entity.MovementEntry, error) {
	if variantID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.movRepo.ListByVariant(ctx, variantID, normalizeLimit(limit), normalizeOffset(offset))
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > 200 {
		return 50
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
