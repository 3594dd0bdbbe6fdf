package handler

import (
	"net/http"

	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/dto"
	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/service"
	"github.com/labstack/echo/v4"
)

type RoomHandler struct {
	svc service.RoomService
}

func NewRoomHandler(svc service.RoomService) *RoomHandler {
	return &RoomHandler{svc: svc}
}

func (h *RoomHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/rooms", h.CreateRoom)
	g.POST("/hotels/:id/rooms/generate", h.GenerateRooms)
	g.GET("/hotels/:id/rooms", h.ListRooms)
	g.GET("/rooms/:id", h.GetRoom)
	g.PATCH("/rooms/:id", h.UpdateRoom)
	g.DELETE("/rooms/:id", h.DeleteRoom)
	g.POST("/rooms/:id/reconcile", h.ReconcileRoom)
}

func (h *RoomHandler) CreateRoom(c echo.Context) error {
	var req dto.CreateRoomRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	room, err := h.svc.CreateRoom(c.Request().Context(), req.Input())
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusCreated, dto.ToRoomResponse(room))
}

func (h *RoomHandler) GenerateRooms(c echo.Context) error {
	hotelID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req dto.GenerateRoomsRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	rooms, err := h.svc.GenerateRooms(c.Request().Context(), req.Input(hotelID))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusCreated, dto.ToRoomResponses(rooms))
}

func (h *RoomHandler) ListRooms(c echo.Context) error {
	hotelID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	rooms, err := h.svc.ListRooms(c.Request().Context(), hotelID)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, dto.ToRoomResponses(rooms))
}

func (h *RoomHandler) GetRoom(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	room, err := h.svc.GetRoom(c.Request().Context(), id)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, dto.ToRoomResponse(room))
}

func (h *RoomHandler) UpdateRoom(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateRoomRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	room, err := h.svc.UpdateRoomPricing(c.Request().Context(), id, req.Input())
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, dto.ToRoomResponse(room))
}

func (h *RoomHandler) DeleteRoom(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteRoom(c.Request().Context(), id); err != nil {
		return serviceError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *RoomHandler) ReconcileRoom(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	room, err := h.svc.ReconcileRoom(c.Request().Context(), id)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, dto.ToRoomResponse(room))
}
