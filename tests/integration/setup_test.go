//go:build integration

package integration

import (
	"fmt"
	"log"
	"os"
	"testing"

	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/pkg/database"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		getEnv("TEST_DB_HOST", "localhost"),
		getEnv("TEST_DB_PORT", "5434"),
		getEnv("TEST_DB_USER", "postgres"),
		getEnv("TEST_DB_PASSWORD", "postgres"),
		getEnv("TEST_DB_NAME", "catering_test_db"),
	)

	// Start from an empty schema so migrations and constraints match the code.
	raw, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		log.Fatalf("failed to connect to test database: %v", err)
	}
	raw.Exec("DROP SCHEMA public CASCADE")
	raw.Exec("CREATE SCHEMA public")

	testDB, err = database.NewPostgresDB(dsn)
	if err != nil {
		log.Fatalf("failed to prepare test database: %v", err)
	}

	code := m.Run()

	testDB.Exec("DROP SCHEMA public CASCADE")
	testDB.Exec("CREATE SCHEMA public")
	os.Exit(code)
}

func cleanTables() {
	testDB.Exec(`TRUNCATE hotel_order_food_orders, hotel_order_guests, hotel_order_rooms, hotel_orders,
		food_orders, recipe_menus, recipes, menu_foods, menus, food_ingredients, foods, products,
		guests, guest_groups, rooms, room_types, hotels RESTART IDENTITY CASCADE`)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
