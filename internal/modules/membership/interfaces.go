package membership

import (
	"context"

	"foodgram/internal/domain"
)

type Store interface {
	Exists(ctx context.Context, kind domain.MembershipKind, userID, recipeID int64) (bool, error)
	Add(ctx context.Context, kind domain.MembershipKind, userID, recipeID int64) error
	Remove(ctx context.Context, kind domain.MembershipKind, userID, recipeID int64) (bool, error)
}

type RecipeLookup interface {
	GetBasic(ctx context.Context, recipeID int64) (*domain.Recipe, error)
}

// Notifier is told about shopping cart changes. Favorites are not published.
type Notifier interface {
	CartChanged(userID int64, action string, recipe domain.RecipeShort)
}

const (
	ActionAdded   = "cart_item_added"
	ActionRemoved = "cart_item_removed"
)
