package handler

import (
	"net/http"

	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/dto"
	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/models"
	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/service"
	"github.com/labstack/echo/v4"
)

type HotelHandler struct {
	svc service.HotelService
}

func NewHotelHandler(svc service.HotelService) *HotelHandler {
	return &HotelHandler{svc: svc}
}

func (h *HotelHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/hotels", h.CreateHotel)
	g.GET("/hotels", h.ListHotels)
	g.POST("/hotels/:id/room-types", h.CreateRoomType)
	g.GET("/hotels/:id/room-types", h.ListRoomTypes)
	g.POST("/hotels/:id/guest-groups", h.CreateGuestGroup)
	g.GET("/guest-groups/:id", h.GetGuestGroup)
}

func (h *HotelHandler) CreateHotel(c echo.Context) error {
	var req dto.CreateHotelRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	hotel := &models.Hotel{Name: req.Name, Email: req.Email}
	if err := h.svc.CreateHotel(c.Request().Context(), hotel); err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusCreated, hotel)
}

func (h *HotelHandler) ListHotels(c echo.Context) error {
	hotels, err := h.svc.ListHotels(c.Request().Context())
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, hotels)
}

func (h *HotelHandler) CreateRoomType(c echo.Context) error {
	hotelID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req dto.CreateRoomTypeRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	rt := &models.RoomType{HotelID: hotelID, Name: req.Name}
	if err := h.svc.CreateRoomType(c.Request().Context(), rt); err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusCreated, rt)
}

func (h *HotelHandler) ListRoomTypes(c echo.Context) error {
	hotelID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	types, err := h.svc.ListRoomTypes(c.Request().Context(), hotelID)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, types)
}

func (h *HotelHandler) CreateGuestGroup(c echo.Context) error {
	hotelID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req dto.CreateGuestGroupRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	group := &models.GuestGroup{HotelID: hotelID, Name: req.Name, Headcount: req.Headcount}
	if err := h.svc.CreateGuestGroup(c.Request().Context(), group); err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusCreated, group)
}

func (h *HotelHandler) GetGuestGroup(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	group, err := h.svc.GetGuestGroup(c.Request().Context(), id)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, group)
}
