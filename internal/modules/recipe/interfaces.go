package recipe

import (
	"context"

	"foodgram/internal/domain"
	"foodgram/internal/pkg/storage"
	"foodgram/internal/repository"
)

// RecipeRepository covers composition writes and read projections.
type RecipeRepository interface {
	Create(ctx context.Context, authorID int64, draft domain.RecipeDraft) (*domain.Recipe, error)
	Update(ctx context.Context, recipeID int64, draft domain.RecipeDraft) (*domain.Recipe, string, error)
	Delete(ctx context.Context, recipeID int64) (*domain.Recipe, error)
	GetByID(ctx context.Context, recipeID int64) (*domain.Recipe, error)
	List(ctx context.Context, f repository.RecipeFilter) ([]domain.Recipe, int64, error)
}

type IngredientReader interface {
	FindByIDs(ctx context.Context, ids []int64) (map[int64]domain.Ingredient, error)
}

type TagReader interface {
	FindByIDs(ctx context.Context, ids []int64) (map[int64]domain.Tag, error)
}

// MembershipReader answers is_favorited / is_in_shopping_cart for a viewer.
type MembershipReader interface {
	MemberAmong(ctx context.Context, kind domain.MembershipKind, userID int64, recipeIDs []int64) (map[int64]bool, error)
}

// FollowReader answers author.is_subscribed for a viewer.
type FollowReader interface {
	FollowedAmong(ctx context.Context, userID int64, authorIDs []int64) (map[int64]bool, error)
}

// ImageStore is satisfied by storage.Local and storage.S3.
type ImageStore = storage.ImageStore
