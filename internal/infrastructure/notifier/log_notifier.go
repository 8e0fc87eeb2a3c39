package notifier

import (
	"context"

	"github.com/jhoicas/ecommerce-stock/internal/application/allocation"
	"github.com/jhoicas/ecommerce-stock/pkg/logger"
)

var _ allocation.LowStockNotifier = (*LogNotifier)(nil)

// LogNotifier deja la señal de bajo stock en el log estructurado. Siempre presente:
// aunque el webhook falle, la señal queda visible para operación.
type LogNotifier struct {
	log *logger.Logger
}

// NewLogNotifier construye el notificador de log.
func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// Notify registra la señal. Nunca falla.
func (n *LogNotifier) Notify(_ context.Context, sig allocation.LowStockSignal) error {
	n.log.Warn().
		Str("variant_id", sig.VariantID).
		Str("warehouse_id", sig.WarehouseID).
		Int64("quantity", sig.Quantity).
		Int64("threshold", sig.Threshold).
		Msg("bajo stock detectado")
	return nil
}
