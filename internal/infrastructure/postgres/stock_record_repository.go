package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/ecommerce-stock/internal/domain"
	"github.com/jhoicas/ecommerce-stock/internal/domain/entity"
	"github.com/jhoicas/ecommerce-stock/internal/domain/repository"
)

var _ repository.StockRecordRepository = (*StockRecordRepo)(nil)

// StockRecordRepo implementación de StockRecordRepository sobre PostgreSQL (usable con pool o tx).
type StockRecordRepo struct {
	q Querier
}

// NewStockRecordRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRecordRepository(q Querier) *StockRecordRepo {
	return &StockRecordRepo{q: q}
}

// Get obtiene la fila de stock sin lock; nil si no existe.
func (r *StockRecordRepo) Get(ctx context.Context, variantID, warehouseID string) (*entity.StockRecord, error) {
	query := `
		SELECT variant_id, warehouse_id, quantity, min_threshold, updated_at
		FROM stock_records WHERE variant_id = $1 AND warehouse_id = $2`
	var s entity.StockRecord
	err := r.q.QueryRow(ctx, query, variantID, warehouseID).Scan(
		&s.VariantID, &s.WarehouseID, &s.Quantity, &s.MinThreshold, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock record: %w", err)
	}
	return &s, nil
}

// GetForUpdate obtiene la fila y la bloquea (SELECT FOR UPDATE). Fila ausente es
// domain.ErrNoStockRecord: nunca se crea implícitamente con cantidad cero.
// Si la espera por el lock supera lock_timeout, domain.ErrLockTimeout.
func (r *StockRecordRepo) GetForUpdate(ctx context.Context, variantID, warehouseID string) (*entity.StockRecord, error) {
	query := `
		SELECT variant_id, warehouse_id, quantity, min_threshold, updated_at
		FROM stock_records WHERE variant_id = $1 AND warehouse_id = $2
		FOR UPDATE`
	var s entity.StockRecord
	err := r.q.QueryRow(ctx, query, variantID, warehouseID).Scan(
		&s.VariantID, &s.WarehouseID, &s.Quantity, &s.MinThreshold, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNoStockRecord
		}
		if isLockNotAvailable(err) {
			return nil, domain.ErrLockTimeout
		}
		return nil, fmt.Errorf("get stock record for update: %w", err)
	}
	return &s, nil
}

// Save persiste cantidad y umbral de una fila existente (solo bajo lock del ledger).
func (r *StockRecordRepo) Save(ctx context.Context, record *entity.StockRecord) error {
	query := `
		UPDATE stock_records
		SET quantity = $3, min_threshold = $4, updated_at = $5
		WHERE variant_id = $1 AND warehouse_id = $2`
	cmd, err := r.q.Exec(ctx, query,
		record.VariantID, record.WarehouseID, record.Quantity, record.MinThreshold, record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save stock record: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNoStockRecord
	}
	return nil
}

// Upsert inserta o reemplaza la fila (alta perezosa de la reposición de operador).
func (r *StockRecordRepo) Upsert(ctx context.Context, record *entity.StockRecord) error {
	query := `
		INSERT INTO stock_records (variant_id, warehouse_id, quantity, min_threshold, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (variant_id, warehouse_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, min_threshold = EXCLUDED.min_threshold, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query,
		record.VariantID, record.WarehouseID, record.Quantity, record.MinThreshold, record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert stock record: %w", err)
	}
	return nil
}

// ListAvailableByVariant lista filas con cantidad > 0 en bodegas activas, en el orden
// de la política del selector (cantidad desc, bodega asc). Lectura advisory: sin lock.
func (r *StockRecordRepo) ListAvailableByVariant(ctx context.Context, variantID string) ([]*entity.StockRecord, error) {
	query := `
		SELECT s.variant_id, s.warehouse_id, s.quantity, s.min_threshold, s.updated_at
		FROM stock_records s
		JOIN warehouses w ON w.id = s.warehouse_id AND w.active
		WHERE s.variant_id = $1 AND s.quantity > 0
		ORDER BY s.quantity DESC, s.warehouse_id ASC`
	rows, err := r.q.Query(ctx, query, variantID)
	if err != nil {
		return nil, fmt.Errorf("list available stock: %w", err)
	}
	defer rows.Close()
	return scanStockRecords(rows)
}

// ListBelowThreshold lista filas en o por debajo de su umbral (bodegas activas).
func (r *StockRecordRepo) ListBelowThreshold(ctx context.Context) ([]*entity.StockRecord, error) {
	query := `
		SELECT s.variant_id, s.warehouse_id, s.quantity, s.min_threshold, s.updated_at
		FROM stock_records s
		JOIN warehouses w ON w.id = s.warehouse_id AND w.active
		WHERE s.quantity <= s.min_threshold
		ORDER BY s.warehouse_id ASC, s.variant_id ASC`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list below threshold: %w", err)
	}
	defer rows.Close()
	return scanStockRecords(rows)
}

func scanStockRecords(rows pgx.Rows) ([]*entity.StockRecord, error) {
	var list []*entity.StockRecord
	for rows.Next() {
		var s entity.StockRecord
		if err := rows.Scan(&s.VariantID, &s.WarehouseID, &s.Quantity, &s.MinThreshold, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock record: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
