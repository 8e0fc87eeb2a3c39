package entity

// AllocationLine indica cuánto se tomó (o se devuelve) de una bodega.
type AllocationLine struct {
	WarehouseID   string
	VariantID     string
	QuantityTaken int64
}

// AllocationResult es el valor efímero que devuelve el motor de asignación:
// el desglose por bodega suma exactamente la cantidad solicitada. El caller lo
// persiste contra los line items de la orden para poder revertirlo con precisión.
type AllocationResult struct {
	VariantID string
	Reference string
	Lines     []AllocationLine
}

// Total suma las cantidades tomadas en todas las bodegas.
func (r *AllocationResult) Total() int64 {
	var total int64
	for _, l := range r.Lines {
		total += l.QuantityTaken
	}
	return total
}
