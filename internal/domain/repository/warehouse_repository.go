package repository

import (
	"context"

	"github.com/jhoicas/ecommerce-stock/internal/domain/entity"
)

// WarehouseRepository puerto de persistencia para bodegas.
type WarehouseRepository interface {
	Create(ctx context.Context, warehouse *entity.Warehouse) error

	// GetByID obtiene una bodega por ID; nil (sin error) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Warehouse, error)

	List(ctx context.Context, limit, offset int) ([]*entity.Warehouse, error)
	ListActive(ctx context.Context) ([]*entity.Warehouse, error)

	// SetActive activa o desactiva una bodega (soft-disable; las filas de stock se conservan).
	SetActive(ctx context.Context, id string, active bool) error
}
