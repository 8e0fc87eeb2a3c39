package dto

import "time"

// AllocateRequest solicitud de asignación de stock durante el checkout.
// Reference es el ID de la orden; si viene vacío el motor genera uno.
type AllocateRequest struct {
	VariantID string `json:"variant_id"`
	Quantity  int64  `json:"quantity"`
	Reference string `json:"reference"`
	Actor     string `json:"actor"`
}

// AllocationLineDTO cuánto se tomó de (o se devuelve a) una bodega.
type AllocationLineDTO struct {
	WarehouseID string `json:"warehouse_id"`
	VariantID   string `json:"variant_id"`
	Quantity    int64  `json:"quantity"`
}

// AllocateResponse desglose resultante; el caller lo persiste con los line items
// de la orden para poder revertirlo.
type AllocateResponse struct {
	VariantID string              `json:"variant_id"`
	Reference string              `json:"reference"`
	Lines     []AllocationLineDTO `json:"lines"`
}

// RestoreRequest reversión de una asignación previa (cancelación de orden).
type RestoreRequest struct {
	Reference string              `json:"reference"`
	Actor     string              `json:"actor"`
	Lines     []AllocationLineDTO `json:"lines"`
}

// AdjustRequest ajuste manual con delta con signo y valoración opcional.
type AdjustRequest struct {
	VariantID   string  `json:"variant_id"`
	WarehouseID string  `json:"warehouse_id"`
	Delta       int64   `json:"delta"`
	UnitCost    *string `json:"unit_cost"` // decimal como string, ej. "12.50"
	Actor       string  `json:"actor"`
	Reference   string  `json:"reference"`
}

// SetStockLevelRequest reposición absoluta de una fila (cantidad + umbral).
type SetStockLevelRequest struct {
	VariantID    string `json:"variant_id"`
	WarehouseID  string `json:"warehouse_id"`
	Quantity     int64  `json:"quantity"`
	MinThreshold int64  `json:"min_threshold"`
	Actor        string `json:"actor"`
}

// StockRecordResponse estado actual de una fila de stock.
type StockRecordResponse struct {
	VariantID    string    `json:"variant_id"`
	WarehouseID  string    `json:"warehouse_id"`
	Quantity     int64     `json:"quantity"`
	MinThreshold int64     `json:"min_threshold"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// MovementResponse entrada del log de movimientos.
type MovementResponse struct {
	ID               string    `json:"id"`
	WarehouseID      string    `json:"warehouse_id"`
	VariantID        string    `json:"variant_id"`
	PreviousQuantity int64     `json:"previous_quantity"`
	NewQuantity      int64     `json:"new_quantity"`
	Delta            int64     `json:"delta"`
	Reason           string    `json:"reason"`
	Reference        string    `json:"reference"`
	Actor            string    `json:"actor,omitempty"`
	UnitCost         string    `json:"unit_cost,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}
