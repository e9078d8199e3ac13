package membership

import (
	"context"
	"errors"

	"foodgram/internal/domain"
)

// Service toggles a recipe in one of a user's recipe sets (favorites or the
// shopping cart). At most one row per (user, recipe) exists in each set.
type Service struct {
	store    Store
	recipes  RecipeLookup
	notifier Notifier
}

// NewService builds the toggle service. notifier may be nil.
func NewService(store Store, recipes RecipeLookup, notifier Notifier) *Service {
	return &Service{store: store, recipes: recipes, notifier: notifier}
}

// Add puts recipeID into userID's set of the given kind and returns the
// compact recipe projection.
func (s *Service) Add(ctx context.Context, kind domain.MembershipKind, userID, recipeID int64) (*domain.RecipeShort, error) {
	if !kind.Valid() {
		return nil, ErrUnknownKind
	}

	exists, err := s.store.Exists(ctx, kind, userID, recipeID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyMember
	}

	recipe, err := s.recipes.GetBasic(ctx, recipeID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}

	// A concurrent Add may pass the check above; the unique index rejects
	// the loser and the repository reports it as a conflict.
	if err := s.store.Add(ctx, kind, userID, recipeID); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, ErrAlreadyMember
		}
		return nil, err
	}

	short := domain.ShortOf(recipe)
	s.notify(kind, userID, ActionAdded, short)
	return &short, nil
}

// Remove takes recipeID out of userID's set. A missing recipe yields
// ErrRecipeNotFound, a recipe that is not in the set yields ErrNotMember.
func (s *Service) Remove(ctx context.Context, kind domain.MembershipKind, userID, recipeID int64) error {
	if !kind.Valid() {
		return ErrUnknownKind
	}

	recipe, err := s.recipes.GetBasic(ctx, recipeID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrRecipeNotFound
		}
		return err
	}

	removed, err := s.store.Remove(ctx, kind, userID, recipeID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotMember
	}

	s.notify(kind, userID, ActionRemoved, domain.ShortOf(recipe))
	return nil
}

func (s *Service) notify(kind domain.MembershipKind, userID int64, action string, recipe domain.RecipeShort) {
	if s.notifier == nil || kind != domain.KindShoppingCart {
		return
	}
	s.notifier.CartChanged(userID, action, recipe)
}
