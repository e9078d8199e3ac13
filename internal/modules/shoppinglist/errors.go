package shoppinglist

import "errors"

// ErrEmptyCart is returned instead of an empty list when the user's cart
// holds no recipes.
var ErrEmptyCart = errors.New("no recipes in shopping cart")
