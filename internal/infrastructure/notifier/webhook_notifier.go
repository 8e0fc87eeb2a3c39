package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/jhoicas/ecommerce-stock/internal/application/allocation"
	"github.com/jhoicas/ecommerce-stock/pkg/config"
)

var _ allocation.LowStockNotifier = (*WebhookNotifier)(nil)

// WebhookNotifier envía la señal de bajo stock como POST JSON al módulo de
// notificaciones (colaborador externo). Fire-and-forget: el caller registra el error
// y continúa; una señal perdida la recupera el barrido periódico.
type WebhookNotifier struct {
	client *resty.Client
}

// NewWebhookNotifier construye el cliente resty con la configuración del destino.
func NewWebhookNotifier(cfg config.NotifierConfig) *WebhookNotifier {
	client := resty.New().
		SetBaseURL(cfg.WebhookURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(10 * time.Second)
	if cfg.WebhookToken != "" {
		client.SetHeader("Authorization", "Bearer "+cfg.WebhookToken)
	}
	return &WebhookNotifier{client: client}
}

// lowStockPayload cuerpo del POST; contrato sin respuesta (solo se valida el status).
type lowStockPayload struct {
	VariantID   string `json:"variant_id"`
	WarehouseID string `json:"warehouse_id"`
	Quantity    int64  `json:"quantity"`
	Threshold   int64  `json:"threshold"`
}

// Notify envía la señal.
func (n *WebhookNotifier) Notify(ctx context.Context, sig allocation.LowStockSignal) error {
	resp, err := n.client.R().
		SetContext(ctx).
		SetBody(lowStockPayload{
			VariantID:   sig.VariantID,
			WarehouseID: sig.WarehouseID,
			Quantity:    sig.Quantity,
			Threshold:   sig.Threshold,
		}).
		Post("")
	if err != nil {
		return fmt.Errorf("post low stock webhook: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("low stock webhook status %d", resp.StatusCode())
	}
	return nil
}
