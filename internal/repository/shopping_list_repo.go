package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CartLine is one ingredient line of one recipe in a user's cart.
type CartLine struct {
	Name            string
	MeasurementUnit string
	Amount          decimal.Decimal
}

type ShoppingListRepository struct {
	db *gorm.DB
}

func NewShoppingListRepository(db *gorm.DB) *ShoppingListRepository {
	return &ShoppingListRepository{db: db}
}

// CartLines reads every ingredient line of every recipe in the user's cart
// with a single statement, so the result reflects one snapshot.
func (r *ShoppingListRepository) CartLines(ctx context.Context, userID int64) ([]CartLine, error) {
	var lines []CartLine
	err := r.db.WithContext(ctx).
		Table("shopping_cart_entries").
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, recipe_ingredients.amount AS amount").
		Joins("JOIN recipe_ingredients ON recipe_ingredients.recipe_id = shopping_cart_entries.recipe_id").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Where("shopping_cart_entries.user_id = ?", userID).
		Scan(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}
