package handler

import (
	"net/http"

	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/dto"
	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/service"
	"github.com/labstack/echo/v4"
)

type WarehouseHandler struct {
	svc service.WarehouseService
}

func NewWarehouseHandler(svc service.WarehouseService) *WarehouseHandler {
	return &WarehouseHandler{svc: svc}
}

func (h *WarehouseHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/products", h.CreateProduct)
	g.PATCH("/products/:id", h.UpdateProduct)
	g.POST("/foods", h.CreateFood)
	g.POST("/menus", h.CreateMenu)
	g.GET("/menus/:id", h.GetMenu)
	g.POST("/recipes", h.CreateRecipe)
	g.GET("/recipes/:id", h.GetRecipe)
	g.POST("/food-orders", h.CreateFoodOrder)
}

func (h *WarehouseHandler) CreateProduct(c echo.Context) error {
	var req dto.CreateProductRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	product, err := h.svc.CreateProduct(c.Request().Context(), req.Input())
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusCreated, product)
}

// UpdateProduct changes stock or price and answers with the foods, menus and
// recipes that were recomputed.
func (h *WarehouseHandler) UpdateProduct(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateProductRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	result, err := h.svc.UpdateProduct(c.Request().Context(), id, req.Input())
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *WarehouseHandler) CreateFood(c echo.Context) error {
	var req dto.CreateFoodRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	food, err := h.svc.CreateFood(c.Request().Context(), req.Input())
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusCreated, food)
}

func (h *WarehouseHandler) CreateMenu(c echo.Context) error {
	var req dto.CreateMenuRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	menu, err := h.svc.CreateMenu(c.Request().Context(), req.Input())
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusCreated, menu)
}

func (h *WarehouseHandler) GetMenu(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	menu, err := h.svc.GetMenu(c.Request().Context(), id)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, menu)
}

func (h *WarehouseHandler) CreateRecipe(c echo.Context) error {
	var req dto.CreateRecipeRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	recipe, err := h.svc.CreateRecipe(c.Request().Context(), req.Input())
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusCreated, recipe)
}

func (h *WarehouseHandler) GetRecipe(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	recipe, err := h.svc.GetRecipe(c.Request().Context(), id)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, recipe)
}

func (h *WarehouseHandler) CreateFoodOrder(c echo.Context) error {
	var req dto.CreateFoodOrderRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	order, err := h.svc.CreateFoodOrder(c.Request().Context(), req.Input())
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusCreated, order)
}
