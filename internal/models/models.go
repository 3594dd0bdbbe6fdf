package models

// All lists every persisted model in migration order.
func All() []any {
	return []any{
		&Hotel{},
		&RoomType{},
		&Room{},
		&GuestGroup{},
		&Guest{},
		&Product{},
		&Food{},
		&FoodIngredient{},
		&Menu{},
		&Recipe{},
		&FoodOrder{},
		&HotelOrder{},
	}
}
