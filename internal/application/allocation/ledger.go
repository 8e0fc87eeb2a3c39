package allocation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/ecommerce-stock/internal/domain"
	"github.com/jhoicas/ecommerce-stock/internal/domain/entity"
	"github.com/jhoicas/ecommerce-stock/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// StockLedger es la única autoridad para mutar la cantidad de una fila de stock.
// Se construye por transacción, atado a repos de esa tx: cada Decrement/Increment
// exitoso persiste la fila y registra exactamente un MovementEntry en la misma tx.
type StockLedger struct {
	stockRepo repository.StockRecordRepository
	movRepo   repository.MovementLogRepository
	now       func() time.Time
}

// NewStockLedger construye el ledger con repos atados a la transacción en curso.
func NewStockLedger(stockRepo repository.StockRecordRepository, movRepo repository.MovementLogRepository) *StockLedger {
	return &StockLedger{stockRepo: stockRepo, movRepo: movRepo, now: time.Now}
}

// Movement describe el contexto de auditoría de una mutación del ledger.
type Movement struct {
	Reason    string
	Reference string
	Actor     string
	UnitCost  decimal.Decimal // opcional, valoración de ajustes manuales
}

// LockForUpdate adquiere el lock exclusivo de fila dentro de la transacción activa.
// Fila ausente es fallo duro (domain.ErrNoStockRecord): nunca se asigna contra una
// bodega sin stock configurado. Si la espera por el lock expira, domain.ErrLockTimeout.
func (l *StockLedger) LockForUpdate(ctx context.Context, variantID, warehouseID string) (*entity.StockRecord, error) {
	if variantID == "" || warehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	return l.stockRepo.GetForUpdate(ctx, variantID, warehouseID)
}

// Decrement resta amount a la fila bloqueada. Requiere amount > 0 y que el caller
// sostenga el lock de LockForUpdate en la misma transacción.
func (l *StockLedger) Decrement(ctx context.Context, record *entity.StockRecord, amount int64, mov Movement) (*entity.StockRecord, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if record.Quantity < amount {
		return nil, domain.ErrInsufficientStock
	}
	return l.apply(ctx, record, -amount, mov)
}

// Increment suma amount a la fila bloqueada. Sin tope superior: la restauración
// siempre se asume segura.
func (l *StockLedger) Increment(ctx context.Context, record *entity.StockRecord, amount int64, mov Movement) (*entity.StockRecord, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	return l.apply(ctx, record, amount, mov)
}

// apply persiste la nueva cantidad y registra el movimiento (misma transacción).
func (l *StockLedger) apply(ctx context.Context, record *entity.StockRecord, delta int64, mov Movement) (*entity.StockRecord, error) {
	now := l.now()
	previous := record.Quantity
	record.Quantity = previous + delta
	record.UpdatedAt = now

	if err := l.stockRepo.Save(ctx, record); err != nil {
		return nil, err
	}
	entry := &entity.MovementEntry{
		ID:               uuid.New().String(),
		WarehouseID:      record.WarehouseID,
		VariantID:        record.VariantID,
		PreviousQuantity: previous,
		NewQuantity:      record.Quantity,
		Delta:            delta,
		Reason:           mov.Reason,
		Reference:        mov.Reference,
		Actor:            mov.Actor,
		UnitCost:         mov.UnitCost,
		CreatedAt:        now,
	}
	if err := l.movRepo.Append(ctx, entry); err != nil {
		return nil, err
	}
	return record, nil
}
