package entity

import "time"

// StockRecord representa el stock actual de una variante en una bodega.
// La cantidad nunca es negativa; toda mutación pasa por el ledger (nunca por
// un update genérico) para preservar la invariante bajo concurrencia.
type StockRecord struct {
	VariantID    string
	WarehouseID  string
	Quantity     int64
	MinThreshold int64 // umbral de bajo stock por fila
	UpdatedAt    time.Time
}

// BelowThreshold indica si la fila está en o por debajo de su umbral mínimo.
func (s *StockRecord) BelowThreshold() bool {
	return s.Quantity <= s.MinThreshold
}
