package allocation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/ecommerce-stock/internal/domain"
	"github.com/jhoicas/ecommerce-stock/internal/domain/entity"
	"github.com/jhoicas/ecommerce-stock/internal/domain/repository"
	"github.com/jhoicas/ecommerce-stock/pkg/logger"
	"github.com/shopspring/decimal"
)

// AdjustmentUseCase ajustes de operador fuera del flujo de órdenes: deltas manuales
// con valoración opcional y reposición absoluta de una fila (cantidad + umbral).
// Ambos pasan por el ledger para conservar la disciplina de locks y el rastro de
// movimientos; no existe un update genérico de cantidad.
type AdjustmentUseCase struct {
	txRunner      TxRunner
	warehouseRepo repository.WarehouseRepository
	notifier      LowStockNotifier
	log           *logger.Logger
}

// NewAdjustmentUseCase construye el caso de uso de ajustes.
func NewAdjustmentUseCase(txRunner TxRunner, warehouseRepo repository.WarehouseRepository, notifier LowStockNotifier, log *logger.Logger) *AdjustmentUseCase {
	return &AdjustmentUseCase{txRunner: txRunner, warehouseRepo: warehouseRepo, notifier: notifier, log: log}
}

// AdjustInput entrada para un ajuste manual con delta con signo (≠ 0).
type AdjustInput struct {
	VariantID   string
	WarehouseID string
	Delta       int64
	UnitCost    *decimal.Decimal // opcional: valoración del ajuste
	Actor       string
	Reference   string
}

// ManualAdjust aplica un delta sobre la fila bloqueada. Delta negativo falla con
// stock insuficiente igual que una salida de orden; positivo no tiene tope.
func (uc *AdjustmentUseCase) ManualAdjust(ctx context.Context, input AdjustInput) (*entity.StockRecord, error) {
	if input.Delta == 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if input.VariantID == "" || input.WarehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.requireWarehouse(ctx, input.WarehouseID); err != nil {
		return nil, err
	}
	if input.Reference == "" {
		input.Reference = uuid.New().String()
	}
	unitCost := decimal.Zero
	if input.UnitCost != nil {
		if input.UnitCost.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		unitCost = *input.UnitCost
	}

	var adjusted *entity.StockRecord
	err := uc.txRunner.Run(ctx, func(
		stockRepo repository.StockRecordRepository,
		movRepo repository.MovementLogRepository,
	) error {
		ledger := NewStockLedger(stockRepo, movRepo)
		record, err := ledger.LockForUpdate(ctx, input.VariantID, input.WarehouseID)
		if err != nil {
			return err
		}
		mov := Movement{
			Reason:    entity.ReasonManualAdjustment,
			Reference: input.Reference,
			Actor:     input.Actor,
			UnitCost:  unitCost,
		}
		if input.Delta > 0 {
			adjusted, err = ledger.Increment(ctx, record, input.Delta, mov)
		} else {
			adjusted, err = ledger.Decrement(ctx, record, -input.Delta, mov)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	if adjusted.BelowThreshold() {
		uc.notifyLowStock(ctx, adjusted)
	}
	return adjusted, nil
}

// SetLevelInput entrada de reposición absoluta: fija cantidad y umbral de una fila,
// creándola si no existe (alta perezosa del primer upsert de inventario).
type SetLevelInput struct {
	VariantID    string
	WarehouseID  string
	Quantity     int64
	MinThreshold int64
	Actor        string
}

// SetStockLevel fija la cantidad y el umbral de la fila. Es el único camino que crea
// filas; la diferencia contra la cantidad anterior queda registrada como ajuste manual
// para que el log de movimientos siga cuadrando con el estado.
func (uc *AdjustmentUseCase) SetStockLevel(ctx context.Context, input SetLevelInput) (*entity.StockRecord, error) {
	if input.Quantity < 0 || input.MinThreshold < 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if input.VariantID == "" || input.WarehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.requireWarehouse(ctx, input.WarehouseID); err != nil {
		return nil, err
	}
	reference := uuid.New().String()

	var result *entity.StockRecord
	err := uc.txRunner.Run(ctx, func(
		stockRepo repository.StockRecordRepository,
		movRepo repository.MovementLogRepository,
	) error {
		ledger := NewStockLedger(stockRepo, movRepo)
		record, err := ledger.LockForUpdate(ctx, input.VariantID, input.WarehouseID)
		if err != nil && !errors.Is(err, domain.ErrNoStockRecord) {
			return err
		}
		now := time.Now()
		if record == nil {
			// Alta perezosa: la fila nace aquí, con su movimiento inicial si hay cantidad.
			record = &entity.StockRecord{
				VariantID:    input.VariantID,
				WarehouseID:  input.WarehouseID,
				Quantity:     0,
				MinThreshold: input.MinThreshold,
				UpdatedAt:    now,
			}
			if err := stockRepo.Upsert(ctx, record); err != nil {
				return err
			}
		}

		record.MinThreshold = input.MinThreshold
		delta := input.Quantity - record.Quantity
		mov := Movement{Reason: entity.ReasonManualAdjustment, Reference: reference, Actor: input.Actor}
		switch {
		case delta > 0:
			result, err = ledger.Increment(ctx, record, delta, mov)
		case delta < 0:
			result, err = ledger.Decrement(ctx, record, -delta, mov)
		default:
			// Solo cambió el umbral: persistir sin movimiento (la cantidad no varió).
			record.UpdatedAt = now
			err = stockRepo.Save(ctx, record)
			result = record
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	if result.BelowThreshold() {
		uc.notifyLowStock(ctx, result)
	}
	return result, nil
}

func (uc *AdjustmentUseCase) requireWarehouse(ctx context.Context, warehouseID string) error {
	wh, err := uc.warehouseRepo.GetByID(ctx, warehouseID)
	if err != nil {
		return err
	}
	if wh == nil {
		return domain.ErrNotFound
	}
	return nil
}

func (uc *AdjustmentUseCase) notifyLowStock(ctx context.Context, record *entity.StockRecord) {
	sig := LowStockSignal{
		VariantID:   record.VariantID,
		WarehouseID: record.WarehouseID,
		Quantity:    record.Quantity,
		Threshold:   record.MinThreshold,
	}
	if err := uc.notifier.Notify(ctx, sig); err != nil {
		uc.log.Warn().Err(err).
			Str("variant_id", sig.VariantID).
			Str("warehouse_id", sig.WarehouseID).
			Msg("notificación de bajo stock fallida")
	}
}
