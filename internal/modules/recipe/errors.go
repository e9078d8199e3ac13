package recipe

import (
	"fmt"

	"foodgram/internal/domain"
)

var ErrRecipeNotFound = fmt.Errorf("recipe: %w", domain.ErrNotFound)

const (
	msgBlank             = "this field may not be blank"
	msgTooLong           = "ensure this field has no more than 200 characters"
	msgCookingTime       = "cooking time must be at least 1 minute"
	msgTagsRequired      = "tags required"
	msgDuplicateTag      = "duplicate tag"
	msgIngredientsNeeded = "ingredients required"
	msgDuplicateIngr     = "duplicate ingredient"
	msgAmountNotPositive = "amount must be greater than zero"
	msgAmountRange       = "amount must be between 0.1 and 99999.99"
	msgAmountPrecision   = "amount allows at most 2 decimal places"
	maxNameLength        = 200
)
