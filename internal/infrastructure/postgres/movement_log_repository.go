package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/ecommerce-stock/internal/domain"
	"github.com/jhoicas/ecommerce-stock/internal/domain/entity"
	"github.com/jhoicas/ecommerce-stock/internal/domain/repository"
)

var _ repository.MovementLogRepository = (*MovementLogRepo)(nil)

// MovementLogRepo implementación append-only del log de movimientos sobre PostgreSQL
// (usable con pool o tx). No expone update ni delete: cada entrada es inmutable.
type MovementLogRepo struct {
	q Querier
}

// NewMovementLogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementLogRepository(q Querier) *MovementLogRepo {
	return &MovementLogRepo{q: q}
}

const movementColumns = `id, warehouse_id, variant_id, previous_quantity, new_quantity, delta, reason, reference, actor, unit_cost, created_at`

// Append persiste un movimiento. Debe invocarse en la misma transacción que la
// mutación de stock que documenta.
func (r *MovementLogRepo) Append(ctx context.Context, entry *entity.MovementEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	actor := (*string)(nil)
	if entry.Actor != "" {
		actor = &entry.Actor
	}
	_, err := r.q.Exec(ctx, query,
		entry.ID, entry.WarehouseID, entry.VariantID,
		entry.PreviousQuantity, entry.NewQuantity, entry.Delta,
		entry.Reason, entry.Reference, actor, entry.UnitCost, entry.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("append stock movement: %w", err)
	}
	return nil
}

// FindByReference devuelve los movimientos de una referencia en orden de creación.
func (r *MovementLogRepo) FindByReference(ctx context.Context, reference string) ([]*entity.MovementEntry, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM stock_movements WHERE reference = $1
		ORDER BY created_at ASC, id ASC`
	rows, err := r.q.Query(ctx, query, reference)
	if err != nil {
		return nil, fmt.Errorf("find movements by reference: %w", err)
	}
	defer rows.Close()
	return scanMovements(rows)
}

// ListByWarehouse lista movimientos de una bodega, más recientes primero.
func (r *MovementLogRepo) ListByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.MovementEntry, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM stock_movements WHERE warehouse_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, warehouseID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list movements by warehouse: %w", err)
	}
	defer rows.Close()
	return scanMovements(rows)
}

// ListByVariant lista movimientos de una variante, más recientes primero.
func (r *MovementLogRepo) ListByVariant(ctx context.Context, variantID string, limit, offset int) ([]*entity.MovementEntry, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM stock_movements WHERE variant_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, variantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list movements by variant: %w", err)
	}
	defer rows.Close()
	return scanMovements(rows)
}

func scanMovements(rows pgx.Rows) ([]*entity.MovementEntry, error) {
	var list []*entity.MovementEntry
	for rows.Next() {
		var m entity.MovementEntry
		var actor *string
		if err := rows.Scan(&m.ID, &m.WarehouseID, &m.VariantID,
			&m.PreviousQuantity, &m.NewQuantity, &m.Delta,
			&m.Reason, &m.Reference, &actor, &m.UnitCost, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		if actor != nil {
			m.Actor = *actor
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
