package notifier

import (
	"context"
	"errors"

	"github.com/jhoicas/ecommerce-stock/internal/application/allocation"
)

var _ allocation.LowStockNotifier = (MultiNotifier)(nil)

// MultiNotifier reparte la señal a varios notificadores; cada uno recibe la señal
// aunque otro falle.
type MultiNotifier []allocation.LowStockNotifier

// Notify entrega la señal a todos y junta los errores.
func (m MultiNotifier) Notify(ctx context.Context, sig allocation.LowStockSignal) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, sig); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
