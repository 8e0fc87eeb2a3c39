package allocation

import (
	"context"
	"errors"
	"sort"

	"github.com/jhoicas/ecommerce-stock/internal/domain"
	"github.com/jhoicas/ecommerce-stock/internal/domain/entity"
	"github.com/jhoicas/ecommerce-stock/internal/domain/repository"
	"github.com/jhoicas/ecommerce-stock/pkg/logger"
)

// RestorationEngine revierte un desglose de asignación previamente registrado
// (cancelación o devolución de orden), devolviendo las cantidades exactas a las
// bodegas exactas de donde salieron. La bodega original recibe el stock aunque hoy
// esté desactivada: la contabilidad debe cuadrar también para ubicaciones apagadas.
type RestorationEngine struct {
	txRunner TxRunner
	log      *logger.Logger
}

// NewRestorationEngine construye el motor de reversión.
func NewRestorationEngine(txRunner TxRunner, log *logger.Logger) *RestorationEngine {
	return &RestorationEngine{txRunner: txRunner, log: log}
}

// RestoreInput entrada para revertir una asignación. Reference es la misma referencia
// (ID de orden) con la que se asignó; Lines es el desglose persistido por el caller.
type RestoreInput struct {
	Reference string
	Actor     string
	Lines     []entity.AllocationLine
}

// Restore incrementa el stock de cada línea dentro de una transacción, con locks en
// orden ascendente de bodega (misma regla anti-deadlock que el motor de asignación).
//
// Idempotencia: si la referencia ya tiene movimientos de reversión, la llamada es un
// no-op exitoso (una cancelación duplicada o reintentada no acredita dos veces).
// Si el desglose no coincide con los movimientos de asignación de la referencia,
// domain.ErrUnknownAllocationReference.
func (e *RestorationEngine) Restore(ctx context.Context, input RestoreInput) error {
	if input.Reference == "" || len(input.Lines) == 0 {
		return domain.ErrInvalidInput
	}
	for _, line := range input.Lines {
		if line.QuantityTaken <= 0 || line.WarehouseID == "" || line.VariantID == "" {
			return domain.ErrInvalidQuantity
		}
	}

	alreadyRestored := false

	err := e.txRunner.Run(ctx, func(
		stockRepo repository.StockRecordRepository,
		movRepo repository.MovementLogRepository,
	) error {
		// Locks primero, en orden global fijo (ascendente por bodega, misma regla
		// anti-deadlock que el motor de asignación). La lectura de movimientos solo es
		// autoritativa con las filas bloqueadas: sin el lock, dos reversiones duplicadas
		// concurrentes se verían ambas como "no revertida" y acreditarían dos veces.
		lines := make([]entity.AllocationLine, len(input.Lines))
		copy(lines, input.Lines)
		sort.Slice(lines, func(i, j int) bool { return lines[i].WarehouseID < lines[j].WarehouseID })

		ledger := NewStockLedger(stockRepo, movRepo)
		records := make(map[string]*entity.StockRecord, len(lines))
		for _, line := range lines {
			record, err := ledger.LockForUpdate(ctx, line.VariantID, line.WarehouseID)
			if err != nil {
				if errors.Is(err, domain.ErrNoStockRecord) {
					// Una línea contra una fila inexistente no pudo salir de ninguna asignación.
					return domain.ErrUnknownAllocationReference
				}
				return err
			}
			records[line.WarehouseID+"|"+line.VariantID] = record
		}

		prior, err := movRepo.FindByReference(ctx, input.Reference)
		if err != nil {
			return err
		}

		// Suma de lo asignado por (bodega, variante); detecta reversiones previas.
		allocated := make(map[string]int64)
		for _, m := range prior {
			switch m.Reason {
			case entity.ReasonOrderRestoration:
				alreadyRestored = true
			case entity.ReasonOrderAllocation:
				allocated[m.WarehouseID+"|"+m.VariantID] += -m.Delta
			}
		}
		if alreadyRestored {
			return nil
		}
		if len(allocated) == 0 {
			return domain.ErrUnknownAllocationReference
		}

		// El desglose debe coincidir exactamente con lo asignado: misma cantidad por
		// (bodega, variante), sin líneas duplicadas, faltantes ni sobrantes.
		seen := make(map[string]bool, len(input.Lines))
		for _, line := range input.Lines {
			key := line.WarehouseID + "|" + line.VariantID
			if seen[key] || allocated[key] != line.QuantityTaken {
				return domain.ErrUnknownAllocationReference
			}
			seen[key] = true
		}
		if len(seen) != len(allocated) {
			return domain.ErrUnknownAllocationReference
		}

		for _, line := range lines {
			record := records[line.WarehouseID+"|"+line.VariantID]
			if _, err := ledger.Increment(ctx, record, line.QuantityTaken, Movement{
				Reason:    entity.ReasonOrderRestoration,
				Reference: input.Reference,
				Actor:     input.Actor,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if alreadyRestored {
		e.log.Info().Str("reference", input.Reference).Msg("reversión duplicada ignorada (idempotente)")
		return nil
	}
	e.log.Info().
		Str("reference", input.Reference).
		Int("lines", len(input.Lines)).
		Msg("asignación revertida")
	return nil
}
