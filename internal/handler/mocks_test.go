package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/job"
	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/models"
	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/repository"
	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/service"
	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/validation"
	"github.com/labstack/echo/v4"
)

// newContext builds an echo context for a JSON request with the given path
// parameters, as "name", "value" pairs.
func newContext(method, target, body string, params ...string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = validation.EchoValidator{}

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var names, values []string
	for i := 0; i+1 < len(params); i += 2 {
		names = append(names, params[i])
		values = append(values, params[i+1])
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	return c, rec
}

// --- Mock GuestService ---

type mockGuestService struct {
	createFn func(ctx context.Context, in service.CreateGuestInput) (*models.Guest, error)
	updateFn func(ctx context.Context, id uint, in service.UpdateGuestInput) (*models.Guest, error)
	cancelFn func(ctx context.Context, id uint) (*models.Guest, error)
	deleteFn func(ctx context.Context, id uint) error
	getFn    func(ctx context.Context, id uint) (*models.Guest, error)
	listFn   func(ctx context.Context, filter repository.GuestFilter) ([]models.Guest, error)
}

func (m *mockGuestService) CreateGuest(ctx context.Context, in service.CreateGuestInput) (*models.Guest, error) {
	return m.createFn(ctx, in)
}
func (m *mockGuestService) UpdateGuest(ctx context.Context, id uint, in service.UpdateGuestInput) (*models.Guest, error) {
	return m.updateFn(ctx, id, in)
}
func (m *mockGuestService) CancelGuest(ctx context.Context, id uint) (*models.Guest, error) {
	return m.cancelFn(ctx, id)
}
func (m *mockGuestService) DeleteGuest(ctx context.Context, id uint) error {
	return m.deleteFn(ctx, id)
}
func (m *mockGuestService) GetGuest(ctx context.Context, id uint) (*models.Guest, error) {
	return m.getFn(ctx, id)
}
func (m *mockGuestService) ListGuests(ctx context.Context, filter repository.GuestFilter) ([]models.Guest, error) {
	return m.listFn(ctx, filter)
}

// --- Mock HotelOrderService ---

type mockOrderService struct {
	createFn      func(ctx context.Context, in service.CreateOrderInput) (*models.HotelOrder, error)
	updateFn      func(ctx context.Context, id uint, in service.UpdateOrderInput) (*models.HotelOrder, error)
	deleteFn      func(ctx context.Context, id uint) error
	addGuestFn    func(ctx context.Context, orderID uint, in service.OrderGuestInput) (*models.HotelOrder, error)
	removeGuestFn func(ctx context.Context, orderID, guestID uint) (*models.HotelOrder, error)
	recalcFn      func(ctx context.Context, id uint) (*models.HotelOrder, error)
	getFn         func(ctx context.Context, id uint) (*models.HotelOrder, error)
	listFn        func(ctx context.Context, hotelID *uint, status *models.OrderStatus) ([]models.HotelOrder, error)
}

func (m *mockOrderService) CreateOrder(ctx context.Context, in service.CreateOrderInput) (*models.HotelOrder, error) {
	return m.createFn(ctx, in)
}
func (m *mockOrderService) UpdateOrder(ctx context.Context, id uint, in service.UpdateOrderInput) (*models.HotelOrder, error) {
	return m.updateFn(ctx, id, in)
}
func (m *mockOrderService) DeleteOrder(ctx context.Context, id uint) error {
	return m.deleteFn(ctx, id)
}
func (m *mockOrderService) AddOrderGuest(ctx context.Context, orderID uint, in service.OrderGuestInput) (*models.HotelOrder, error) {
	return m.addGuestFn(ctx, orderID, in)
}
func (m *mockOrderService) RemoveOrderGuest(ctx context.Context, orderID, guestID uint) (*models.HotelOrder, error) {
	return m.removeGuestFn(ctx, orderID, guestID)
}
func (m *mockOrderService) RecalculateCost(ctx context.Context, id uint) (*models.HotelOrder, error) {
	return m.recalcFn(ctx, id)
}
func (m *mockOrderService) GetOrder(ctx context.Context, id uint) (*models.HotelOrder, error) {
	return m.getFn(ctx, id)
}
func (m *mockOrderService) ListOrders(ctx context.Context, hotelID *uint, status *models.OrderStatus) ([]models.HotelOrder, error) {
	return m.listFn(ctx, hotelID, status)
}

// --- Mock RoomService ---

type mockRoomService struct {
	createFn    func(ctx context.Context, in service.CreateRoomInput) (*models.Room, error)
	generateFn  func(ctx context.Context, in service.GenerateRoomsInput) ([]models.Room, error)
	updateFn    func(ctx context.Context, id uint, in service.UpdateRoomInput) (*models.Room, error)
	deleteFn    func(ctx context.Context, id uint) error
	reconcileFn func(ctx context.Context, id uint) (*models.Room, error)
	getFn       func(ctx context.Context, id uint) (*models.Room, error)
	listFn      func(ctx context.Context, hotelID uint) ([]models.Room, error)
}

func (m *mockRoomService) CreateRoom(ctx context.Context, in service.CreateRoomInput) (*models.Room, error) {
	return m.createFn(ctx, in)
}
func (m *mockRoomService) GenerateRooms(ctx context.Context, in service.GenerateRoomsInput) ([]models.Room, error) {
	return m.generateFn(ctx, in)
}
func (m *mockRoomService) UpdateRoomPricing(ctx context.Context, id uint, in service.UpdateRoomInput) (*models.Room, error) {
	return m.updateFn(ctx, id, in)
}
func (m *mockRoomService) DeleteRoom(ctx context.Context, id uint) error {
	return m.deleteFn(ctx, id)
}
func (m *mockRoomService) ReconcileRoom(ctx context.Context, id uint) (*models.Room, error) {
	return m.reconcileFn(ctx, id)
}
func (m *mockRoomService) GetRoom(ctx context.Context, id uint) (*models.Room, error) {
	return m.getFn(ctx, id)
}
func (m *mockRoomService) ListRooms(ctx context.Context, hotelID uint) ([]models.Room, error) {
	return m.listFn(ctx, hotelID)
}

// --- Mock WarehouseService ---

type mockWarehouseService struct {
	createProductFn   func(ctx context.Context, in service.CreateProductInput) (*models.Product, error)
	updateProductFn   func(ctx context.Context, id uint, in service.UpdateProductInput) (*service.CascadeResult, error)
	stockChangedFn    func(ctx context.Context, productID uint) (*service.CascadeResult, error)
	createFoodFn      func(ctx context.Context, in service.CreateFoodInput) (*models.Food, error)
	createMenuFn      func(ctx context.Context, in service.CreateMenuInput) (*models.Menu, error)
	createRecipeFn    func(ctx context.Context, in service.CreateRecipeInput) (*models.Recipe, error)
	createFoodOrderFn func(ctx context.Context, in service.CreateFoodOrderInput) (*models.FoodOrder, error)
	getMenuFn         func(ctx context.Context, id uint) (*models.Menu, error)
	getRecipeFn       func(ctx context.Context, id uint) (*models.Recipe, error)
}

func (m *mockWarehouseService) CreateProduct(ctx context.Context, in service.CreateProductInput) (*models.Product, error) {
	return m.createProductFn(ctx, in)
}
func (m *mockWarehouseService) UpdateProduct(ctx context.Context, id uint, in service.UpdateProductInput) (*service.CascadeResult, error) {
	return m.updateProductFn(ctx, id, in)
}
func (m *mockWarehouseService) OnProductStockChanged(ctx context.Context, productID uint) (*service.CascadeResult, error) {
	return m.stockChangedFn(ctx, productID)
}
func (m *mockWarehouseService) CreateFood(ctx context.Context, in service.CreateFoodInput) (*models.Food, error) {
	return m.createFoodFn(ctx, in)
}
func (m *mockWarehouseService) CreateMenu(ctx context.Context, in service.CreateMenuInput) (*models.Menu, error) {
	return m.createMenuFn(ctx, in)
}
func (m *mockWarehouseService) CreateRecipe(ctx context.Context, in service.CreateRecipeInput) (*models.Recipe, error) {
	return m.createRecipeFn(ctx, in)
}
func (m *mockWarehouseService) CreateFoodOrder(ctx context.Context, in service.CreateFoodOrderInput) (*models.FoodOrder, error) {
	return m.createFoodOrderFn(ctx, in)
}
func (m *mockWarehouseService) GetMenu(ctx context.Context, id uint) (*models.Menu, error) {
	return m.getMenuFn(ctx, id)
}
func (m *mockWarehouseService) GetRecipe(ctx context.Context, id uint) (*models.Recipe, error) {
	return m.getRecipeFn(ctx, id)
}

// --- Mock HotelService ---

type mockHotelService struct {
	createHotelFn    func(ctx context.Context, hotel *models.Hotel) error
	listHotelsFn     func(ctx context.Context) ([]models.Hotel, error)
	createRoomTypeFn func(ctx context.Context, rt *models.RoomType) error
	listRoomTypesFn  func(ctx context.Context, hotelID uint) ([]models.RoomType, error)
	createGroupFn    func(ctx context.Context, group *models.GuestGroup) error
	getGroupFn       func(ctx context.Context, id uint) (*models.GuestGroup, error)
}

func (m *mockHotelService) CreateHotel(ctx context.Context, hotel *models.Hotel) error {
	return m.createHotelFn(ctx, hotel)
}
func (m *mockHotelService) ListHotels(ctx context.Context) ([]models.Hotel, error) {
	return m.listHotelsFn(ctx)
}
func (m *mockHotelService) CreateRoomType(ctx context.Context, rt *models.RoomType) error {
	return m.createRoomTypeFn(ctx, rt)
}
func (m *mockHotelService) ListRoomTypes(ctx context.Context, hotelID uint) ([]models.RoomType, error) {
	return m.listRoomTypesFn(ctx, hotelID)
}
func (m *mockHotelService) CreateGuestGroup(ctx context.Context, group *models.GuestGroup) error {
	return m.createGroupFn(ctx, group)
}
func (m *mockHotelService) GetGuestGroup(ctx context.Context, id uint) (*models.GuestGroup, error) {
	return m.getGroupFn(ctx, id)
}

// --- Mock Sweeper ---

type mockSweeper struct {
	runFn func(ctx context.Context, now time.Time) (job.Report, error)
}

func (m *mockSweeper) RunExclusive(ctx context.Context, now time.Time) (job.Report, error) {
	return m.runFn(ctx, now)
}
