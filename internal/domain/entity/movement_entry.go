package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Razones de movimiento de stock.
const (
	ReasonOrderAllocation  = "order_allocation"  // salida por asignación de orden
	ReasonOrderRestoration = "order_restoration" // reversión por cancelación
	ReasonManualAdjustment = "manual_adjustment" // ajuste manual de operador
)

// MovementEntry es el registro inmutable de un cambio de cantidad: se crea una vez
// por transición de estado y nunca se muta ni se borra (auditoría y conciliación).
type MovementEntry struct {
	ID               string
	WarehouseID      string
	VariantID        string
	PreviousQuantity int64
	NewQuantity      int64
	Delta            int64 // negativo en salidas, positivo en entradas
	Reason           string
	Reference        string          // ID de la orden u operación origen
	Actor            string          // opcional: usuario/sistema que originó el cambio
	UnitCost         decimal.Decimal // valoración opcional en ajustes manuales
	CreatedAt        time.Time
}
