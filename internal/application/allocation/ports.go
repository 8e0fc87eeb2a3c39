package allocation

import (
	"context"

	"github.com/jhoicas/ecommerce-stock/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios
// atados a esa tx. Garantiza atomicidad (Commit si fn devuelve nil, Rollback si no)
// para los motores de asignación y reversión.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		stockRepo repository.StockRecordRepository,
		movRepo repository.MovementLogRepository,
	) error) error
}

// LowStockSignal es la señal emitida cuando una fila cruza su umbral mínimo.
type LowStockSignal struct {
	VariantID   string
	WarehouseID string
	Quantity    int64
	Threshold   int64
}

// LowStockNotifier colaborador externo de notificaciones. Fire-and-forget: se invoca
// después del Commit y un error del transporte jamás revierte la asignación.
type LowStockNotifier interface {
	Notify(ctx context.Context, signal LowStockSignal) error
}
