package handler

import (
	"net/http"

	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/dto"
	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/models"
	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/service"
	"github.com/labstack/echo/v4"
)

type HotelOrderHandler struct {
	svc service.HotelOrderService
}

func NewHotelOrderHandler(svc service.HotelOrderService) *HotelOrderHandler {
	return &HotelOrderHandler{svc: svc}
}

func (h *HotelOrderHandler) RegisterRoutes(g *echo.Group) {
	orders := g.Group("/hotel-orders")
	orders.POST("", h.CreateOrder)
	orders.GET("", h.ListOrders)
	orders.GET("/:id", h.GetOrder)
	orders.PATCH("/:id", h.UpdateOrder)
	orders.DELETE("/:id", h.DeleteOrder)
	orders.POST("/:id/guests", h.AddGuest)
	orders.DELETE("/:id/guests/:guest_id", h.RemoveGuest)
}

// RegisterFinanceRoutes exposes the cost views accounting works with.
func (h *HotelOrderHandler) RegisterFinanceRoutes(g *echo.Group) {
	g.GET("/hotel-orders", h.ListOrders)
	g.POST("/hotel-orders/:id/recalculate", h.RecalculateCost)
}

func (h *HotelOrderHandler) CreateOrder(c echo.Context) error {
	var req dto.CreateOrderRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	order, err := h.svc.CreateOrder(c.Request().Context(), req.Input())
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusCreated, dto.ToHotelOrderResponse(order))
}

func (h *HotelOrderHandler) ListOrders(c echo.Context) error {
	hotelID, err := queryID(c, "hotel_id")
	if err != nil {
		return err
	}
	var status *models.OrderStatus
	if s := c.QueryParam("status"); s != "" {
		st := models.OrderStatus(s)
		status = &st
	}

	orders, err := h.svc.ListOrders(c.Request().Context(), hotelID, status)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, dto.ToHotelOrderResponses(orders))
}

func (h *HotelOrderHandler) GetOrder(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	order, err := h.svc.GetOrder(c.Request().Context(), id)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, dto.ToHotelOrderResponse(order))
}

func (h *HotelOrderHandler) UpdateOrder(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateOrderRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	order, err := h.svc.UpdateOrder(c.Request().Context(), id, req.Input())
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, dto.ToHotelOrderResponse(order))
}

func (h *HotelOrderHandler) DeleteOrder(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteOrder(c.Request().Context(), id); err != nil {
		return serviceError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *HotelOrderHandler) AddGuest(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req dto.OrderGuestRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	order, err := h.svc.AddOrderGuest(c.Request().Context(), id, req.Input())
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, dto.ToHotelOrderResponse(order))
}

func (h *HotelOrderHandler) RemoveGuest(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	guestID, err := pathID(c, "guest_id")
	if err != nil {
		return err
	}
	order, err := h.svc.RemoveOrderGuest(c.Request().Context(), id, guestID)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, dto.ToHotelOrderResponse(order))
}

func (h *HotelOrderHandler) RecalculateCost(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	order, err := h.svc.RecalculateCost(c.Request().Context(), id)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, dto.ToHotelOrderResponse(order))
}
