package allocation

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/jhoicas/ecommerce-stock/internal/domain"
	"github.com/jhoicas/ecommerce-stock/internal/domain/entity"
	"github.com/jhoicas/ecommerce-stock/internal/domain/repository"
	"github.com/jhoicas/ecommerce-stock/pkg/logger"
)

// AllocationEngine satisface atómicamente una solicitud de stock para una variante,
// repartida entre una o más bodegas, con semántica todo-o-nada: o la orden completa
// queda descontada en una transacción, o ninguna fila cambia.
type AllocationEngine struct {
	txRunner TxRunner
	selector *WarehouseSelector
	notifier LowStockNotifier
	log      *logger.Logger
}

// NewAllocationEngine construye el motor de asignación.
func NewAllocationEngine(txRunner TxRunner, selector *WarehouseSelector, notifier LowStockNotifier, log *logger.Logger) *AllocationEngine {
	return &AllocationEngine{txRunner: txRunner, selector: selector, notifier: notifier, log: log}
}

// AllocationInput entrada para asignar stock durante el checkout.
// Reference es el ID de la orden; si viene vacío se genera uno (las reversiones
// posteriores dependen de esta referencia).
type AllocationInput struct {
	VariantID string
	Quantity  int64
	Reference string
	Actor     string
}

// Allocate ejecuta el ciclo completo: plan advisory del selector, una transacción que
// bloquea las filas candidatas en orden global fijo (warehouseID ascendente), consumo
// en orden de política y registro de movimientos; tras el Commit, señales de bajo
// stock best-effort.
//
// El orden de adquisición de locks se desacopla del orden de consumo: dos asignaciones
// multi-bodega concurrentes que toquen las mismas filas las bloquean en el mismo orden
// ascendente, así no pueden interbloquearse aunque sus políticas de consumo difieran.
func (e *AllocationEngine) Allocate(ctx context.Context, input AllocationInput) (*entity.AllocationResult, error) {
	if input.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if input.VariantID == "" {
		return nil, domain.ErrInvalidInput
	}
	if input.Reference == "" {
		input.Reference = uuid.New().String()
	}

	// Plan advisory: fail-fast si el total disponible no cubre la solicitud.
	candidates, err := e.selector.SelectCandidates(ctx, input.VariantID, input.Quantity)
	if err != nil {
		return nil, err
	}

	result := &entity.AllocationResult{VariantID: input.VariantID, Reference: input.Reference}
	var signals []LowStockSignal

	err = e.txRunner.Run(ctx, func(
		stockRepo repository.StockRecordRepository,
		movRepo repository.MovementLogRepository,
	) error {
		ledger := NewStockLedger(stockRepo, movRepo)

		// Fase 1: bloquear todas las filas candidatas en orden ascendente de bodega.
		lockOrder := make([]string, 0, len(candidates))
		for _, c := range candidates {
			lockOrder = append(lockOrder, c.WarehouseID)
		}
		sort.Strings(lockOrder)

		locked := make(map[string]*entity.StockRecord, len(lockOrder))
		for _, warehouseID := range lockOrder {
			record, err := ledger.LockForUpdate(ctx, input.VariantID, warehouseID)
			if err != nil {
				return err
			}
			locked[warehouseID] = record
		}

		// Guard de idempotencia bajo los locks: una referencia ya asignada no debe
		// descontar dos veces. Dos envíos concurrentes de la misma referencia se
		// serializan en las filas candidatas, así que el segundo ya ve los movimientos
		// del primero; antes del lock ambos leerían "sin asignar".
		prior, err := movRepo.FindByReference(ctx, input.Reference)
		if err != nil {
			return err
		}
		for _, m := range prior {
			if m.Reason == entity.ReasonOrderAllocation {
				return domain.ErrDuplicate
			}
		}

		// Fase 2: consumir en orden de política con las cantidades ya autoritativas.
		remaining := input.Quantity
		for _, c := range candidates {
			if remaining == 0 {
				break
			}
			record := locked[c.WarehouseID]
			take := remaining
			if record.Quantity < take {
				take = record.Quantity
			}
			if take <= 0 {
				continue
			}
			updated, err := ledger.Decrement(ctx, record, take, Movement{
				Reason:    entity.ReasonOrderAllocation,
				Reference: input.Reference,
				Actor:     input.Actor,
			})
			if err != nil {
				return err
			}
			result.Lines = append(result.Lines, entity.AllocationLine{
				WarehouseID:   c.WarehouseID,
				VariantID:     input.VariantID,
				QuantityTaken: take,
			})
			if updated.BelowThreshold() {
				signals = append(signals, LowStockSignal{
					VariantID:   updated.VariantID,
					WarehouseID: updated.WarehouseID,
					Quantity:    updated.Quantity,
					Threshold:   updated.MinThreshold,
				})
			}
			remaining -= take
		}

		// Nunca asignar parcialmente: si aún falta cantidad, Rollback de todo.
		if remaining > 0 {
			return domain.ErrInsufficientStock
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.log.Info().
		Str("variant_id", input.VariantID).
		Str("reference", input.Reference).
		Int64("quantity", input.Quantity).
		Int("warehouses", len(result.Lines)).
		Msg("stock asignado")

	// Señales de bajo stock fuera de la transacción: best-effort, un fallo del
	// transporte no revierte una asignación ya confirmada.
	e.emitLowStock(ctx, signals)

	return result, nil
}

func (e *AllocationEngine) emitLowStock(ctx context.Context, signals []LowStockSignal) {
	for _, sig := range signals {
		if err := e.notifier.Notify(ctx, sig); err != nil {
			e.log.Warn().Err(err).
				Str("variant_id", sig.VariantID).
				Str("warehouse_id", sig.WarehouseID).
				Int64("quantity", sig.Quantity).
				Msg("notificación de bajo stock fallida")
		}
	}
}
