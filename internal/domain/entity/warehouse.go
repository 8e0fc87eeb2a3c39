package entity

import "time"

// Warehouse representa una bodega o sucursal donde se almacena inventario (multi-bodega).
// El flag Active controla si la bodega es candidata para asignación; la desactivación
// es un soft-disable: sus filas de stock se conservan y siguen siendo restaurables.
type Warehouse struct {
	ID        string
	Name      string
	Address   string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
