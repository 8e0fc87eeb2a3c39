package allocation_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ecommerce-stock/internal/application/allocation"
	"github.com/jhoicas/ecommerce-stock/internal/domain"
	"github.com/jhoicas/ecommerce-stock/internal/domain/entity"
	"github.com/jhoicas/ecommerce-stock/pkg/logger"
)

func newAdjuster(store *memStore, n allocation.LowStockNotifier) *allocation.AdjustmentUseCase {
	return allocation.NewAdjustmentUseCase(
		&memTxRunner{store: store},
		&memWarehouseRepo{store: store},
		n,
		logger.Nop(),
	)
}

func TestSetStockLevel_AltaPerezosa(t *testing.T) {
	store := newMemStore()
	store.addWarehouse("bodega-a", true)
	adjuster := newAdjuster(store, &captureNotifier{})

	record, err := adjuster.SetStockLevel(context.Background(), allocation.SetLevelInput{
		VariantID:    variantV,
		WarehouseID:  "bodega-a",
		Quantity:     20,
		MinThreshold: 5,
		Actor:        "operador",
	})

	require.NoError(t, err)
	assert.EqualValues(t, 20, record.Quantity)
	assert.EqualValues(t, 5, record.MinThreshold)

	movs := store.movementsByReason(entity.ReasonManualAdjustment)
	require.Len(t, movs, 1, "la fila nace con su movimiento inicial")
	assert.EqualValues(t, 0, movs[0].PreviousQuantity)
	assert.EqualValues(t, 20, movs[0].NewQuantity)
}

func TestSetStockLevel_SoloUmbralNoEscribeMovimiento(t *testing.T) {
	store := newMemStore()
	store.addWarehouse("bodega-a", true)
	store.seedStock(variantV, "bodega-a", 20, 5)
	adjuster := newAdjuster(store, &captureNotifier{})

	record, err := adjuster.SetStockLevel(context.Background(), allocation.SetLevelInput{
		VariantID:    variantV,
		WarehouseID:  "bodega-a",
		Quantity:     20,
		MinThreshold: 8,
	})

	require.NoError(t, err)
	assert.EqualValues(t, 8, record.MinThreshold)
	assert.Empty(t, store.movementsByReason(entity.ReasonManualAdjustment),
		"sin cambio de cantidad no hay movimiento")
}

func TestManualAdjust_NegativoInsuficiente(t *testing.T) {
	store := newMemStore()
	store.addWarehouse("bodega-a", true)
	store.seedStock(variantV, "bodega-a", 3, 0)
	adjuster := newAdjuster(store, &captureNotifier{})

	_, err := adjuster.ManualAdjust(context.Background(), allocation.AdjustInput{
		VariantID:   variantV,
		WarehouseID: "bodega-a",
		Delta:       -4,
	})

	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.EqualValues(t, 3, store.quantity(variantV, "bodega-a"))
}

func TestManualAdjust_PositivoConValoracion(t *testing.T) {
	store := newMemStore()
	store.addWarehouse("bodega-a", true)
	store.seedStock(variantV, "bodega-a", 3, 0)
	adjuster := newAdjuster(store, &captureNotifier{})
	cost := decimal.RequireFromString("12.50")

	record, err := adjuster.ManualAdjust(context.Background(), allocation.AdjustInput{
		VariantID:   variantV,
		WarehouseID: "bodega-a",
		Delta:       7,
		UnitCost:    &cost,
		Actor:       "operador",
	})

	require.NoError(t, err)
	assert.EqualValues(t, 10, record.Quantity)

	movs := store.movementsByReason(entity.ReasonManualAdjustment)
	require.Len(t, movs, 1)
	assert.True(t, movs[0].UnitCost.Equal(cost), "la valoración queda en el movimiento")
	assert.Equal(t, "operador", movs[0].Actor)
}

func TestManualAdjust_BodegaInexistente(t *testing.T) {
	adjuster := newAdjuster(newMemStore(), &captureNotifier{})

	_, err := adjuster.ManualAdjust(context.Background(), allocation.AdjustInput{
		VariantID:   variantV,
		WarehouseID: "bodega-fantasma",
		Delta:       1,
	})

	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestManualAdjust_DeltaCero(t *testing.T) {
	adjuster := newAdjuster(newMemStore(), &captureNotifier{})

	_, err := adjuster.ManualAdjust(context.Background(), allocation.AdjustInput{
		VariantID:   variantV,
		WarehouseID: "bodega-a",
		Delta:       0,
	})

	require.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestSetStockLevel_BajoUmbralNotifica(t *testing.T) {
	store := newMemStore()
	store.addWarehouse("bodega-a", true)
	store.seedStock(variantV, "bodega-a", 20, 5)
	notif := &captureNotifier{}
	adjuster := newAdjuster(store, notif)

	_, err := adjuster.SetStockLevel(context.Background(), allocation.SetLevelInput{
		VariantID:    variantV,
		WarehouseID:  "bodega-a",
		Quantity:     4,
		MinThreshold: 5,
	})

	require.NoError(t, err)
	require.Len(t, notif.captured(), 1)
	assert.EqualValues(t, 4, notif.captured()[0].Quantity)
}
