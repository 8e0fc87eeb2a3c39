package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound        = errors.New("recurso no encontrado")
	ErrInvalidInput    = errors.New("entrada inválida")
	ErrDuplicate       = errors.New("recurso duplicado")
	ErrInvalidQuantity = errors.New("cantidad inválida")

	// ErrNoStockRecord: no existe fila de stock configurada para (variante, bodega).
	// Política: la ausencia es fallo duro; nunca se auto-crea con cantidad cero.
	ErrNoStockRecord = errors.New("no hay registro de stock configurado")

	// ErrInsufficientStock: la bodega bloqueada no cubre la cantidad solicitada.
	ErrInsufficientStock = errors.New("stock insuficiente")

	// ErrTotalInsufficient: la suma de todas las bodegas activas no cubre la solicitud
	// (fail-fast del selector, antes de tomar ningún lock).
	ErrTotalInsufficient = errors.New("stock total insuficiente")

	// ErrLockTimeout: expiró la espera por el lock de fila. Transitorio; el caller
	// puede reintentar con backoff acotado.
	ErrLockTimeout = errors.New("timeout esperando lock de stock")

	// ErrUnknownAllocationReference: la reversión no coincide con ninguna asignación previa.
	ErrUnknownAllocationReference = errors.New("referencia de asignación desconocida")
)
