package repository

import (
	"context"

	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WarehouseRepository interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	FindProductForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Product, error)
	UpdateProduct(ctx context.Context, tx *gorm.DB, product *models.Product) error

	CreateFood(ctx context.Context, tx *gorm.DB, food *models.Food) error
	CreateMenu(ctx context.Context, tx *gorm.DB, menu *models.Menu, foodIDs []uint) error
	CreateRecipe(ctx context.Context, tx *gorm.DB, recipe *models.Recipe, menuIDs []uint) error

	FindFoodsByProducts(ctx context.Context, tx *gorm.DB, productIDs []uint) ([]models.Food, error)
	FindMenusByFoods(ctx context.Context, tx *gorm.DB, foodIDs []uint) ([]models.Menu, error)
	FindRecipesByMenus(ctx context.Context, tx *gorm.DB, menuIDs []uint) ([]models.Recipe, error)
	UpdateFoodState(ctx context.Context, tx *gorm.DB, id uint, cost decimal.Decimal, available bool) error
	UpdateMenuState(ctx context.Context, tx *gorm.DB, id uint, cost decimal.Decimal, available bool) error
	UpdateRecipeState(ctx context.Context, tx *gorm.DB, id uint, cost decimal.Decimal, available bool) error

	FindMenu(ctx context.Context, tx *gorm.DB, id uint) (*models.Menu, error)
	FindRecipe(ctx context.Context, id uint) (*models.Recipe, error)
	CreateFoodOrder(ctx context.Context, tx *gorm.DB, order *models.FoodOrder) error
	FindFoodOrders(ctx context.Context, tx *gorm.DB, ids []uint) ([]models.FoodOrder, error)
}

type warehouseRepository struct {
	db *gorm.DB
}

func NewWarehouseRepository(db *gorm.DB) WarehouseRepository {
	return &warehouseRepository{db: db}
}

func (r *warehouseRepository) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *warehouseRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *warehouseRepository) FindProductForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Product, error) {
	var product models.Product
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *warehouseRepository) UpdateProduct(ctx context.Context, tx *gorm.DB, product *models.Product) error {
	return r.conn(tx).WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]any{"stock": product.Stock, "price": product.Price}).Error
}

// CreateFood inserts the food with its ingredient rows.
func (r *warehouseRepository) CreateFood(ctx context.Context, tx *gorm.DB, food *models.Food) error {
	return r.conn(tx).WithContext(ctx).Create(food).Error
}

func (r *warehouseRepository) CreateMenu(ctx context.Context, tx *gorm.DB, menu *models.Menu, foodIDs []uint) error {
	db := r.conn(tx).WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(menu).Error; err != nil {
		return err
	}
	for _, id := range foodIDs {
		if err := db.Exec("INSERT INTO menu_foods (menu_id, food_id) VALUES (?, ?)", menu.ID, id).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *warehouseRepository) CreateRecipe(ctx context.Context, tx *gorm.DB, recipe *models.Recipe, menuIDs []uint) error {
	db := r.conn(tx).WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(recipe).Error; err != nil {
		return err
	}
	for _, id := range menuIDs {
		if err := db.Exec("INSERT INTO recipe_menus (recipe_id, menu_id) VALUES (?, ?)", recipe.ID, id).Error; err != nil {
			return err
		}
	}
	return nil
}

// FindFoodsByProducts returns foods with at least one ingredient drawn from the
// given products, with every ingredient and its product loaded.
func (r *warehouseRepository) FindFoodsByProducts(ctx context.Context, tx *gorm.DB, productIDs []uint) ([]models.Food, error) {
	var foods []models.Food
	if len(productIDs) == 0 {
		return foods, nil
	}
	db := r.conn(tx).WithContext(ctx)
	err := db.
		Where("id IN (?)", db.Model(&models.FoodIngredient{}).Select("food_id").Where("product_id IN ?", productIDs)).
		Preload("Ingredients.Product").
		Order("id ASC").
		Find(&foods).Error
	return foods, err
}

func (r *warehouseRepository) FindMenusByFoods(ctx context.Context, tx *gorm.DB, foodIDs []uint) ([]models.Menu, error) {
	var menus []models.Menu
	if len(foodIDs) == 0 {
		return menus, nil
	}
	db := r.conn(tx).WithContext(ctx)
	err := db.
		Where("id IN (?)", db.Table("menu_foods").Select("menu_id").Where("food_id IN ?", foodIDs)).
		Preload("Foods").
		Order("id ASC").
		Find(&menus).Error
	return menus, err
}

func (r *warehouseRepository) FindRecipesByMenus(ctx context.Context, tx *gorm.DB, menuIDs []uint) ([]models.Recipe, error) {
	var recipes []models.Recipe
	if len(menuIDs) == 0 {
		return recipes, nil
	}
	db := r.conn(tx).WithContext(ctx)
	err := db.
		Where("id IN (?)", db.Table("recipe_menus").Select("recipe_id").Where("menu_id IN ?", menuIDs)).
		Preload("Menus").
		Order("id ASC").
		Find(&recipes).Error
	return recipes, err
}

func (r *warehouseRepository) updateState(ctx context.Context, tx *gorm.DB, model any, id uint, cost decimal.Decimal, available bool) error {
	return r.conn(tx).WithContext(ctx).
		Model(model).
		Where("id = ?", id).
		Updates(map[string]any{"cost": cost, "is_available": available}).Error
}

func (r *warehouseRepository) UpdateFoodState(ctx context.Context, tx *gorm.DB, id uint, cost decimal.Decimal, available bool) error {
	return r.updateState(ctx, tx, &models.Food{}, id, cost, available)
}

func (r *warehouseRepository) UpdateMenuState(ctx context.Context, tx *gorm.DB, id uint, cost decimal.Decimal, available bool) error {
	return r.updateState(ctx, tx, &models.Menu{}, id, cost, available)
}

func (r *warehouseRepository) UpdateRecipeState(ctx context.Context, tx *gorm.DB, id uint, cost decimal.Decimal, available bool) error {
	return r.updateState(ctx, tx, &models.Recipe{}, id, cost, available)
}

func (r *warehouseRepository) FindMenu(ctx context.Context, tx *gorm.DB, id uint) (*models.Menu, error) {
	var menu models.Menu
	if err := r.conn(tx).WithContext(ctx).Preload("Foods").First(&menu, id).Error; err != nil {
		return nil, err
	}
	return &menu, nil
}

func (r *warehouseRepository) FindRecipe(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := r.db.WithContext(ctx).Preload("Menus").First(&recipe, id).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *warehouseRepository) CreateFoodOrder(ctx context.Context, tx *gorm.DB, order *models.FoodOrder) error {
	return r.conn(tx).WithContext(ctx).Omit(clause.Associations).Create(order).Error
}

func (r *warehouseRepository) FindFoodOrders(ctx context.Context, tx *gorm.DB, ids []uint) ([]models.FoodOrder, error) {
	var orders []models.FoodOrder
	if len(ids) == 0 {
		return orders, nil
	}
	err := r.conn(tx).WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&orders).Error
	return orders, err
}
