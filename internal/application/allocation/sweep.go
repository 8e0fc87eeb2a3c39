package allocation

import (
	"context"

	"github.com/jhoicas/ecommerce-stock/internal/domain/repository"
	"github.com/jhoicas/ecommerce-stock/pkg/logger"
)

// LowStockSweep barrido periódico de filas en o por debajo de su umbral mínimo.
// Re-emite las señales de bajo stock: como la notificación post-commit es best-effort,
// una señal perdida se recupera en el siguiente barrido.
type LowStockSweep struct {
	stockRepo repository.StockRecordRepository
	notifier  LowStockNotifier
	log       *logger.Logger
}

// NewLowStockSweep construye el barrido (repos atados al pool, sin transacción).
func NewLowStockSweep(stockRepo repository.StockRecordRepository, notifier LowStockNotifier, log *logger.Logger) *LowStockSweep {
	return &LowStockSweep{stockRepo: stockRepo, notifier: notifier, log: log}
}

// Run escanea y notifica. Devuelve cuántas filas estaban bajo umbral.
func (s *LowStockSweep) Run(ctx context.Context) (int, error) {
	records, err := s.stockRepo.ListBelowThreshold(ctx)
	if err != nil {
		return 0, err
	}
	for _, r := range records {
		sig := LowStockSignal{
			VariantID:   r.VariantID,
			WarehouseID: r.WarehouseID,
			Quantity:    r.Quantity,
			Threshold:   r.MinThreshold,
		}
		if err := s.notifier.Notify(ctx, sig); err != nil {
			s.log.Warn().Err(err).
				Str("variant_id", r.VariantID).
				Str("warehouse_id", r.WarehouseID).
				Msg("notificación de bajo stock fallida en barrido")
		}
	}
	if len(records) > 0 {
		s.log.Info().Int("rows", len(records)).Msg("barrido de bajo stock completado")
	}
	return len(records), nil
}
