package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-realtime-api/internal/application/dto"
	"github.com/jhoicas/Inventario-realtime-api/internal/application/usecase"
)

// PriceHandler maneja las peticiones HTTP para precios.
type PriceHandler struct {
	uc *usecase.PriceUseCase
}

// NewPriceHandler construye el handler.
func NewPriceHandler(uc *usecase.PriceUseCase) *PriceHandler {
	return &PriceHandler{uc: uc}
}

// List godoc
// @Summary      Listar precios vigentes
// @Tags         prices
// @Produce      json
// @Param        skip   query  int  false  "Offset"  default(0)
// @Param        limit  query  int  false  "Límite"  default(100)
// @Success      200    {object}  dto.PriceListResponse
// @Router       /api/v1/prices [get]
func (h *PriceHandler) List(c *fiber.Ctx) error {
	skip := c.QueryInt("skip", 0)
	limit := c.QueryInt("limit", 100)
	out, err := h.uc.List(c.UserContext(), skip, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// CurrentPrice godoc
// @Summary      Precio vigente de un ítem
// @Tags         prices
// @Produce      json
// @Param        id   path  int  true  "ID del ítem de inventario"
// @Success      200  {object}  dto.PriceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/prices/{id} [get]
func (h *PriceHandler) CurrentPrice(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id inválido"})
	}
	out, err := h.uc.CurrentPrice(c.UserContext(), id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "el ítem no tiene precio vigente"})
	}
	return c.JSON(out)
}

// CreateOrUpdate godoc
// @Summary      Fijar precio vigente de un ítem
// @Description  Si el ítem ya tiene precio activo, lo desactiva y registra la transición en el historial.
// @Tags         prices
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePriceRequest  true  "Datos del precio"
// @Success      201   {object}  dto.PriceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/v1/prices [post]
func (h *PriceHandler) CreateOrUpdate(c *fiber.Ctx) error {
	var in dto.CreatePriceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.CreateOrUpdate(c.UserContext(), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar precio vigente de un ítem (parcial)
// @Tags         prices
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID del ítem de inventario"
// @Param        body  body  dto.UpdatePriceRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.PriceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/v1/prices/{id} [put]
func (h *PriceHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id inválido"})
	}
	var in dto.UpdatePriceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(c.UserContext(), id, in)
	if err != nil {
		return domainError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "el ítem no tiene precio vigente"})
	}
	return c.JSON(out)
}

// History godoc
// @Summary      Historial de cambios de precio de un ítem
// @Tags         prices
// @Produce      json
// @Param        id    path   int  true   "ID del ítem de inventario"
// @Param        days  query  int  false  "Ventana en días"  default(30)
// @Success      200   {array}  dto.PriceHistoryResponse
// @Router       /api/v1/prices/{id}/history [get]
func (h *PriceHandler) History(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id inválido"})
	}
	days := c.QueryInt("days", 30)
	out, err := h.uc.History(c.UserContext(), id, days)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// SignificantChanges godoc
// @Summary      Cambios de precio significativos recientes
// @Description  Filtra por |Δ%| sobre el umbral: una caída grande cuenta igual que un aumento grande.
// @Tags         prices
// @Produce      json
// @Param        threshold_percent  query  number  false  "Umbral de |Δ%|"    default(5)
// @Param        hours              query  int     false  "Ventana en horas"  default(24)
// @Success      200  {array}  dto.PriceHistoryResponse
// @Router       /api/v1/prices/changes/significant [get]
func (h *PriceHandler) SignificantChanges(c *fiber.Ctx) error {
	threshold := c.QueryFloat("threshold_percent", 5)
	hours := c.QueryInt("hours", 24)
	out, err := h.uc.SignificantChanges(c.UserContext(), threshold, hours)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
