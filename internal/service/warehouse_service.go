package service

import (
	"context"

	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/models"
	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/validation"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type CreateProductInput struct {
	HotelID uint
	Name    string
	Unit    string
	Stock   decimal.Decimal
	Price   decimal.Decimal
}

type UpdateProductInput struct {
	Stock *decimal.Decimal
	Price *decimal.Decimal
}

type IngredientInput struct {
	ProductID uint
	Quantity  decimal.Decimal
}

type CreateFoodInput struct {
	HotelID     uint
	Name        string
	Ingredients []IngredientInput
}

type CreateMenuInput struct {
	HotelID uint
	Name    string
	FoodIDs []uint
}

type CreateRecipeInput struct {
	HotelID uint
	Name    string
	MenuIDs []uint
}

type CreateFoodOrderInput struct {
	HotelID  uint
	MenuID   uint
	Quantity int
}

// CascadeResult lists the rows a stock change recomputed, by level.
type CascadeResult struct {
	Foods   []uint `json:"foods"`
	Menus   []uint `json:"menus"`
	Recipes []uint `json:"recipes"`
}

type WarehouseService interface {
	CreateProduct(ctx context.Context, in CreateProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uint, in UpdateProductInput) (*CascadeResult, error)
	OnProductStockChanged(ctx context.Context, productID uint) (*CascadeResult, error)
	CreateFood(ctx context.Context, in CreateFoodInput) (*models.Food, error)
	CreateMenu(ctx context.Context, in CreateMenuInput) (*models.Menu, error)
	CreateRecipe(ctx context.Context, in CreateRecipeInput) (*models.Recipe, error)
	CreateFoodOrder(ctx context.Context, in CreateFoodOrderInput) (*models.FoodOrder, error)
	GetMenu(ctx context.Context, id uint) (*models.Menu, error)
	GetRecipe(ctx context.Context, id uint) (*models.Recipe, error)
}

type warehouseService struct {
	base
}

func NewWarehouseService(d Deps) WarehouseService {
	return &warehouseService{base: newBase(d)}
}

func (s *warehouseService) CreateProduct(ctx context.Context, in CreateProductInput) (*models.Product, error) {
	errs := validation.Errors{}
	if in.Name == "" {
		errs.Add("name", "is required")
	}
	if in.Stock.IsNegative() {
		errs.Add("stock", "must be at least 0")
	}
	if in.Price.IsNegative() {
		errs.Add("price", "must be at least 0")
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	product := &models.Product{HotelID: in.HotelID, Name: in.Name, Unit: in.Unit, Stock: in.Stock, Price: in.Price}
	if err := s.Warehouse.CreateProduct(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct changes stock or price and recomputes everything built from
// the product in the same transaction.
func (s *warehouseService) UpdateProduct(ctx context.Context, id uint, in UpdateProductInput) (*CascadeResult, error) {
	var result *CascadeResult
	err := s.inTx(ctx, func(tx *gorm.DB) error {
		product, err := s.Warehouse.FindProductForUpdate(ctx, tx, id)
		if err != nil {
			return notFound(err, ErrProductNotFound)
		}
		if in.Stock != nil {
			product.Stock = *in.Stock
		}
		if in.Price != nil {
			product.Price = *in.Price
		}
		errs := validation.Errors{}
		if product.Stock.IsNegative() {
			errs.Add("stock", "must be at least 0")
		}
		if product.Price.IsNegative() {
			errs.Add("price", "must be at least 0")
		}
		if err := errs.Err(); err != nil {
			return err
		}
		if err := s.Warehouse.UpdateProduct(ctx, tx, product); err != nil {
			return err
		}
		result, err = s.cascade(ctx, tx, []uint{product.ID})
		return err
	})
	return result, err
}

// OnProductStockChanged recomputes the product's dependents after a change
// made elsewhere.
func (s *warehouseService) OnProductStockChanged(ctx context.Context, productID uint) (*CascadeResult, error) {
	var result *CascadeResult
	err := s.inTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.Warehouse.FindProductForUpdate(ctx, tx, productID); err != nil {
			return notFound(err, ErrProductNotFound)
		}
		var err error
		result, err = s.cascade(ctx, tx, []uint{productID})
		return err
	})
	return result, err
}

// cascade walks Product -> Food -> Menu -> Recipe once. Each level is read
// after the previous one has been written, so every row is recomputed once
// per change.
func (s *warehouseService) cascade(ctx context.Context, tx *gorm.DB, productIDs []uint) (*CascadeResult, error) {
	result := &CascadeResult{}

	foods, err := s.Warehouse.FindFoodsByProducts(ctx, tx, productIDs)
	if err != nil {
		return nil, err
	}
	for _, f := range foods {
		cost, available := foodState(f)
		if err := s.Warehouse.UpdateFoodState(ctx, tx, f.ID, cost, available); err != nil {
			return nil, err
		}
		result.Foods = append(result.Foods, f.ID)
	}

	menus, err := s.Warehouse.FindMenusByFoods(ctx, tx, result.Foods)
	if err != nil {
		return nil, err
	}
	for _, m := range menus {
		cost, available := menuState(m)
		if err := s.Warehouse.UpdateMenuState(ctx, tx, m.ID, cost, available); err != nil {
			return nil, err
		}
		result.Menus = append(result.Menus, m.ID)
	}

	recipes, err := s.Warehouse.FindRecipesByMenus(ctx, tx, result.Menus)
	if err != nil {
		return nil, err
	}
	for _, r := range recipes {
		cost, available := recipeState(r)
		if err := s.Warehouse.UpdateRecipeState(ctx, tx, r.ID, cost, available); err != nil {
			return nil, err
		}
		result.Recipes = append(result.Recipes, r.ID)
	}

	s.Log.WithFields(logrus.Fields{
		"products": productIDs,
		"foods":    len(result.Foods),
		"menus":    len(result.Menus),
		"recipes":  len(result.Recipes),
	}).Debug("warehouse cascade applied")
	return result, nil
}

// foodState is available when every ingredient is in stock; cost is the
// ingredients' price.
func foodState(f models.Food) (decimal.Decimal, bool) {
	cost := decimal.Zero
	available := len(f.Ingredients) > 0
	for _, ing := range f.Ingredients {
		if ing.Product == nil {
			available = false
			continue
		}
		cost = cost.Add(ing.Quantity.Mul(ing.Product.Price))
		if ing.Product.Stock.LessThan(ing.Quantity) {
			available = false
		}
	}
	return cost.Round(2), available
}

func menuState(m models.Menu) (decimal.Decimal, bool) {
	cost := decimal.Zero
	available := len(m.Foods) > 0
	for _, f := range m.Foods {
		cost = cost.Add(f.Cost)
		available = available && f.IsAvailable
	}
	return cost.Round(2), available
}

func recipeState(r models.Recipe) (decimal.Decimal, bool) {
	cost := decimal.Zero
	available := len(r.Menus) > 0
	for _, m := range r.Menus {
		cost = cost.Add(m.Cost)
		available = available && m.IsAvailable
	}
	return cost.Round(2), available
}

func (s *warehouseService) CreateFood(ctx context.Context, in CreateFoodInput) (*models.Food, error) {
	errs := validation.Errors{}
	if in.Name == "" {
		errs.Add("name", "is required")
	}
	if len(in.Ingredients) == 0 {
		errs.Add("ingredients", "is required")
	}
	for _, ing := range in.Ingredients {
		if !ing.Quantity.IsPositive() {
			errs.Add("ingredients", "quantity must be greater than 0")
		}
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	var food *models.Food
	err := s.inTx(ctx, func(tx *gorm.DB) error {
		food = &models.Food{HotelID: in.HotelID, Name: in.Name}
		productIDs := make([]uint, 0, len(in.Ingredients))
		for _, ing := range in.Ingredients {
			if _, err := s.Warehouse.FindProductForUpdate(ctx, tx, ing.ProductID); err != nil {
				return notFound(err, ErrProductNotFound)
			}
			food.Ingredients = append(food.Ingredients, models.FoodIngredient{ProductID: ing.ProductID, Quantity: ing.Quantity})
			productIDs = append(productIDs, ing.ProductID)
		}
		if err := s.Warehouse.CreateFood(ctx, tx, food); err != nil {
			return err
		}
		if _, err := s.cascade(ctx, tx, productIDs); err != nil {
			return err
		}
		foods, err := s.Warehouse.FindFoodsByProducts(ctx, tx, productIDs)
		if err != nil {
			return err
		}
		for _, f := range foods {
			if f.ID == food.ID {
				*food = f
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return food, nil
}

func (s *warehouseService) CreateMenu(ctx context.Context, in CreateMenuInput) (*models.Menu, error) {
	errs := validation.Errors{}
	if in.Name == "" {
		errs.Add("name", "is required")
	}
	if len(in.FoodIDs) == 0 {
		errs.Add("food_ids", "is required")
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	var menu *models.Menu
	err := s.inTx(ctx, func(tx *gorm.DB) error {
		created := &models.Menu{HotelID: in.HotelID, Name: in.Name}
		if err := s.Warehouse.CreateMenu(ctx, tx, created, in.FoodIDs); err != nil {
			return err
		}
		loaded, err := s.Warehouse.FindMenu(ctx, tx, created.ID)
		if err != nil {
			return err
		}
		if len(loaded.Foods) != len(in.FoodIDs) {
			return validation.Errors{"food_ids": "references unknown foods"}
		}
		loaded.Cost, loaded.IsAvailable = menuState(*loaded)
		if err := s.Warehouse.UpdateMenuState(ctx, tx, loaded.ID, loaded.Cost, loaded.IsAvailable); err != nil {
			return err
		}
		menu = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return menu, nil
}

func (s *warehouseService) CreateRecipe(ctx context.Context, in CreateRecipeInput) (*models.Recipe, error) {
	errs := validation.Errors{}
	if in.Name == "" {
		errs.Add("name", "is required")
	}
	if len(in.MenuIDs) == 0 {
		errs.Add("menu_ids", "is required")
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	var recipe *models.Recipe
	err := s.inTx(ctx, func(tx *gorm.DB) error {
		created := &models.Recipe{HotelID: in.HotelID, Name: in.Name}
		if err := s.Warehouse.CreateRecipe(ctx, tx, created, in.MenuIDs); err != nil {
			return err
		}
		recipes, err := s.Warehouse.FindRecipesByMenus(ctx, tx, in.MenuIDs)
		if err != nil {
			return err
		}
		for _, r := range recipes {
			if r.ID != created.ID {
				continue
			}
			if len(r.Menus) != len(in.MenuIDs) {
				return validation.Errors{"menu_ids": "references unknown menus"}
			}
			r.Cost, r.IsAvailable = recipeState(r)
			if err := s.Warehouse.UpdateRecipeState(ctx, tx, r.ID, r.Cost, r.IsAvailable); err != nil {
				return err
			}
			recipe = &r
		}
		if recipe == nil {
			return validation.Errors{"menu_ids": "references unknown menus"}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return recipe, nil
}

// CreateFoodOrder prices an order of an available menu.
func (s *warehouseService) CreateFoodOrder(ctx context.Context, in CreateFoodOrderInput) (*models.FoodOrder, error) {
	if in.Quantity <= 0 {
		return nil, validation.Errors{"quantity": "must be greater than 0"}
	}
	var order *models.FoodOrder
	err := s.inTx(ctx, func(tx *gorm.DB) error {
		menu, err := s.Warehouse.FindMenu(ctx, tx, in.MenuID)
		if err != nil {
			return notFound(err, ErrMenuNotFound)
		}
		if !menu.IsAvailable {
			return ErrMenuUnavailable
		}
		order = &models.FoodOrder{
			HotelID:  in.HotelID,
			MenuID:   menu.ID,
			Quantity: in.Quantity,
			Cost:     menu.Cost.Mul(decimal.NewFromInt(int64(in.Quantity))).Round(2),
		}
		return s.Warehouse.CreateFoodOrder(ctx, tx, order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *warehouseService) GetMenu(ctx context.Context, id uint) (*models.Menu, error) {
	menu, err := s.Warehouse.FindMenu(ctx, nil, id)
	if err != nil {
		return nil, notFound(err, ErrMenuNotFound)
	}
	return menu, nil
}

func (s *warehouseService) GetRecipe(ctx context.Context, id uint) (*models.Recipe, error) {
	recipe, err := s.Warehouse.FindRecipe(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrRecipeNotFound)
	}
	return recipe, nil
}
