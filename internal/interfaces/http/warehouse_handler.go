package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/ecommerce-stock/internal/application/dto"
	"github.com/jhoicas/ecommerce-stock/internal/application/usecase"
	"github.com/jhoicas/ecommerce-stock/internal/domain/entity"
)

// WarehouseHandler maneja las peticiones HTTP de bodegas.
type WarehouseHandler struct {
	uc *usecase.WarehouseUseCase
}

// NewWarehouseHandler construye el handler.
func NewWarehouseHandler(uc *usecase.WarehouseUseCase) *WarehouseHandler {
	return &WarehouseHandler{uc: uc}
}

// Create da de alta una bodega.
// POST /api/warehouses
func (h *WarehouseHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateWarehouseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	wh, err := h.uc.Create(c.Context(), in.Name, in.Address)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toWarehouseResponse(wh))
}

// List lista bodegas.
// GET /api/warehouses?limit=&offset=
func (h *WarehouseHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.Context(), c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return writeDomainError(c, err)
	}
	out := make([]dto.WarehouseResponse, 0, len(list))
	for _, wh := range list {
		out = append(out, toWarehouseResponse(wh))
	}
	return c.Status(fiber.StatusOK).JSON(out)
}

// GetByID obtiene una bodega.
// GET /api/warehouses/:id
func (h *WarehouseHandler) GetByID(c *fiber.Ctx) error {
	wh, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(toWarehouseResponse(wh))
}

// SetActive activa o desactiva una bodega (soft-disable).
// PATCH /api/warehouses/:id/active
func (h *WarehouseHandler) SetActive(c *fiber.Ctx) error {
	var in dto.SetWarehouseActiveRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.SetActive(c.Context(), c.Params("id"), in.Active); err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "bodega actualizada"})
}

func toWarehouseResponse(wh *entity.Warehouse) dto.WarehouseResponse {
	return dto.WarehouseResponse{
		ID:        wh.ID,
		Name:      wh.Name,
		Address:   wh.Address,
		Active:    wh.Active,
		CreatedAt: wh.CreatedAt,
		UpdatedAt: wh.UpdatedAt,
	}
}
