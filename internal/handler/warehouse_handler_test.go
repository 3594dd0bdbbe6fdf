package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/models"
	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/service"
	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateProduct_Handler_ReturnsCascade(t *testing.T) {
	svc := &mockWarehouseService{
		updateProductFn: func(_ context.Context, id uint, in service.UpdateProductInput) (*service.CascadeResult, error) {
			assert.Equal(t, uint(12), id)
			require.NotNil(t, in.Stock)
			assert.True(t, in.Stock.IsZero())
			assert.Nil(t, in.Price)
			return &service.CascadeResult{Foods: []uint{1, 2}, Menus: []uint{3}, Recipes: []uint{}}, nil
		},
	}
	c, rec := newContext(http.MethodPatch, "/api/v1/warehouse/products/12", `{"stock":"0"}`, "id", "12")

	require.NoError(t, NewWarehouseHandler(svc).UpdateProduct(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp service.CascadeResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []uint{1, 2}, resp.Foods)
	assert.Equal(t, []uint{3}, resp.Menus)
}

func TestUpdateProduct_Handler_NotFound(t *testing.T) {
	svc := &mockWarehouseService{
		updateProductFn: func(context.Context, uint, service.UpdateProductInput) (*service.CascadeResult, error) {
			return nil, service.ErrProductNotFound
		},
	}
	c, _ := newContext(http.MethodPatch, "/api/v1/warehouse/products/12", `{"price":"3.10"}`, "id", "12")

	err := NewWarehouseHandler(svc).UpdateProduct(c)

	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Code)
}

func TestCreateFood_Handler(t *testing.T) {
	svc := &mockWarehouseService{
		createFoodFn: func(_ context.Context, in service.CreateFoodInput) (*models.Food, error) {
			require.Len(t, in.Ingredients, 1)
			assert.Equal(t, uint(4), in.Ingredients[0].ProductID)
			assert.True(t, in.Ingredients[0].Quantity.Equal(decimal.RequireFromString("0.250")))
			return &models.Food{ID: 1, Name: in.Name, Cost: decimal.RequireFromString("1.25"), IsAvailable: true}, nil
		},
	}
	body := `{"hotel_id":1,"name":"Kabsa","ingredients":[{"product_id":4,"quantity":"0.250"}]}`
	c, rec := newContext(http.MethodPost, "/api/v1/warehouse/foods", body)

	require.NoError(t, NewWarehouseHandler(svc).CreateFood(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp models.Food
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.IsAvailable)
}

func TestCreateFood_Handler_RequiresIngredients(t *testing.T) {
	c, _ := newContext(http.MethodPost, "/api/v1/warehouse/foods", `{"hotel_id":1,"name":"Kabsa","ingredients":[]}`)

	err := NewWarehouseHandler(nil).CreateFood(c)

	var fields validation.Errors
	require.True(t, errors.As(err, &fields))
	assert.Contains(t, fields, "ingredients")
}

func TestCreateFoodOrder_Handler_MenuUnavailable(t *testing.T) {
	svc := &mockWarehouseService{
		createFoodOrderFn: func(context.Context, service.CreateFoodOrderInput) (*models.FoodOrder, error) {
			return nil, service.ErrMenuUnavailable
		},
	}
	c, _ := newContext(http.MethodPost, "/api/v1/warehouse/food-orders", `{"hotel_id":1,"menu_id":2,"quantity":3}`)

	err := NewWarehouseHandler(svc).CreateFoodOrder(c)

	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, he.Code)
}

func TestGetRecipe_Handler_NotFound(t *testing.T) {
	svc := &mockWarehouseService{
		getRecipeFn: func(context.Context, uint) (*models.Recipe, error) {
			return nil, service.ErrRecipeNotFound
		},
	}
	c, _ := newContext(http.MethodGet, "/api/v1/warehouse/recipes/9", "", "id", "9")

	err := NewWarehouseHandler(svc).GetRecipe(c)

	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Code)
}
