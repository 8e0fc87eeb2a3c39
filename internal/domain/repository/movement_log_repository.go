package repository

import (
	"context"

	"github.com/jhoicas/ecommerce-stock/internal/domain/entity"
)

// MovementLogRepository puerto del registro de movimientos: append-only, sin update
// ni delete. Append debe ejecutarse en la misma transacción que la mutación de stock
// que documenta (co-transaccional, no eventual).
type MovementLogRepository interface {
	Append(ctx context.Context, entry *entity.MovementEntry) error

	// FindByReference devuelve todos los movimientos de una referencia (ID de orden),
	// usado para los chequeos de idempotencia y para conciliación.
	FindByReference(ctx context.Context, reference string) ([]*entity.MovementEntry, error)

	ListByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.MovementEntry, error)
	ListByVariant(ctx context.Context, variantID string, limit, offset int) ([]*entity.MovementEntry, error)
}
