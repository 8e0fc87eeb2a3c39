package allocation

import (
	"context"
	"sort"

	"github.com/jhoicas/ecommerce-stock/internal/domain"
	"github.com/jhoicas/ecommerce-stock/internal/domain/repository"
)

// Candidate propone una bodega y su disponibilidad advisory para cubrir una solicitud.
type Candidate struct {
	WarehouseID string
	Available   int64
}

// WarehouseSelector elige qué bodegas cubren una cantidad solicitada para una variante.
// Política por defecto: mayor cantidad disponible primero; a igual cantidad, ID de
// bodega ascendente (desempate determinista para tests reproducibles). Solo participan
// bodegas activas.
type WarehouseSelector struct {
	stockRepo repository.StockRecordRepository
}

// NewWarehouseSelector construye el selector sobre lecturas advisory (pool, sin tx).
func NewWarehouseSelector(stockRepo repository.StockRecordRepository) *WarehouseSelector {
	return &WarehouseSelector{stockRepo: stockRepo}
}

// SelectCandidates devuelve la lista ordenada de candidatas. No toma ningún lock:
// las cantidades leídas son advisory y el motor re-verifica bajo lock, porque pueden
// cambiar entre la selección y el bloqueo. Si la suma de todas las bodegas activas no
// cubre la solicitud devuelve domain.ErrTotalInsufficient sin intentar lock alguno.
func (s *WarehouseSelector) SelectCandidates(ctx context.Context, variantID string, quantity int64) ([]Candidate, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	records, err := s.stockRepo.ListAvailableByVariant(ctx, variantID)
	if err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, len(records))
	var total int64
	for _, r := range records {
		if r.Quantity <= 0 {
			continue
		}
		candidates = append(candidates, Candidate{WarehouseID: r.WarehouseID, Available: r.Quantity})
		total += r.Quantity
	}
	if total < quantity {
		return nil, domain.ErrTotalInsufficient
	}

	// El repo ya ordena, pero la política es contrato del selector: reordenar aquí
	// mantiene el determinismo aunque cambie el adaptador.
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Available != candidates[j].Available {
			return candidates[i].Available > candidates[j].Available
		}
		return candidates[i].WarehouseID < candidates[j].WarehouseID
	})

	// Recortar a las bodegas necesarias para cubrir la solicitud (en orden de política).
	needed := candidates[:0]
	var acc int64
	for _, c := range candidates {
		needed = append(needed, c)
		acc += c.Available
		if acc >= quantity {
			break
		}
	}
	return needed, nil
}
