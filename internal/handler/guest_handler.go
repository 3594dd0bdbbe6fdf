package handler

import (
	"net/http"

	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/dto"
	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/models"
	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/repository"
	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/service"
	"github.com/labstack/echo/v4"
)

type GuestHandler struct {
	svc service.GuestService
}

func NewGuestHandler(svc service.GuestService) *GuestHandler {
	return &GuestHandler{svc: svc}
}

func (h *GuestHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/guests", h.CreateGuest)
	g.GET("/guests", h.ListGuests)
	g.GET("/guests/:id", h.GetGuest)
	g.PATCH("/guests/:id", h.UpdateGuest)
	g.POST("/guests/:id/cancel", h.CancelGuest)
	g.DELETE("/guests/:id", h.DeleteGuest)
}

func (h *GuestHandler) CreateGuest(c echo.Context) error {
	var req dto.CreateGuestRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	guest, err := h.svc.CreateGuest(c.Request().Context(), req.Input())
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusCreated, dto.ToGuestResponse(guest))
}

func (h *GuestHandler) ListGuests(c echo.Context) error {
	var filter repository.GuestFilter
	var err error
	if filter.HotelID, err = queryID(c, "hotel_id"); err != nil {
		return err
	}
	if filter.RoomID, err = queryID(c, "room_id"); err != nil {
		return err
	}
	if s := c.QueryParam("status"); s != "" {
		status := models.GuestStatus(s)
		filter.Status = &status
	}

	guests, err := h.svc.ListGuests(c.Request().Context(), filter)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, dto.ToGuestResponses(guests))
}

func (h *GuestHandler) GetGuest(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	guest, err := h.svc.GetGuest(c.Request().Context(), id)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, dto.ToGuestResponse(guest))
}

func (h *GuestHandler) UpdateGuest(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateGuestRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	guest, err := h.svc.UpdateGuest(c.Request().Context(), id, req.Input())
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, dto.ToGuestResponse(guest))
}

func (h *GuestHandler) CancelGuest(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	guest, err := h.svc.CancelGuest(c.Request().Context(), id)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, dto.ToGuestResponse(guest))
}

func (h *GuestHandler) DeleteGuest(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteGuest(c.Request().Context(), id); err != nil {
		return serviceError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
