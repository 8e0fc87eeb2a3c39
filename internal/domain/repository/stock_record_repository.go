package repository

import (
	"context"

	"github.com/jhoicas/ecommerce-stock/internal/domain/entity"
)

// StockRecordRepository puerto de persistencia para filas de stock (variante, bodega).
// Las lecturas Get/ListAvailableByVariant son advisory (sin lock); GetForUpdate es la
// lectura autoritativa y solo tiene sentido dentro de una transacción.
type StockRecordRepository interface {
	// Get obtiene la fila de stock; nil (sin error) si no existe.
	Get(ctx context.Context, variantID, warehouseID string) (*entity.StockRecord, error)

	// GetForUpdate bloquea la fila (SELECT ... FOR UPDATE) y la devuelve.
	// domain.ErrNoStockRecord si no existe; domain.ErrLockTimeout si expira la espera.
	GetForUpdate(ctx context.Context, variantID, warehouseID string) (*entity.StockRecord, error)

	// Save persiste la cantidad/umbral de una fila existente (solo la usa el ledger,
	// siempre bajo el lock de GetForUpdate en la misma transacción).
	Save(ctx context.Context, record *entity.StockRecord) error

	// Upsert inserta o reemplaza la fila; reservado a la reposición de operador.
	Upsert(ctx context.Context, record *entity.StockRecord) error

	// ListAvailableByVariant lista filas con cantidad > 0 en bodegas activas,
	// ordenadas por cantidad descendente y bodega ascendente (lectura advisory).
	ListAvailableByVariant(ctx context.Context, variantID string) ([]*entity.StockRecord, error)

	// ListBelowThreshold lista filas en o por debajo de su umbral mínimo (bodegas activas).
	ListBelowThreshold(ctx context.Context) ([]*entity.StockRecord, error)
}
