package subscription

import (
	"context"
	"errors"

	"foodgram/internal/domain"
)

type Service struct {
	follows FollowStore
	users   UserReader
	recipes RecipeReader
}

func NewService(follows FollowStore, users UserReader, recipes RecipeReader) *Service {
	return &Service{follows: follows, users: users, recipes: recipes}
}

// Subscribe makes userID follow authorID. recipesLimit bounds the recipe
// preview in the returned author (<= 0 means all).
func (s *Service) Subscribe(ctx context.Context, userID, authorID int64, recipesLimit int) (*AuthorResponse, error) {
	if userID == authorID {
		return nil, domain.NewValidationError("author", "you cannot subscribe to yourself")
	}

	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrAuthorNotFound
		}
		return nil, err
	}

	if err := s.follows.Create(ctx, userID, authorID); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.NewValidationError("author", "you are already subscribed to this author")
		}
		return nil, err
	}

	resp, err := s.describe(ctx, []domain.User{*author}, recipesLimit)
	if err != nil {
		return nil, err
	}
	return &resp[0], nil
}

func (s *Service) Unsubscribe(ctx context.Context, userID, authorID int64) error {
	if _, err := s.users.GetByID(ctx, authorID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrAuthorNotFound
		}
		return err
	}

	if err := s.follows.Delete(ctx, userID, authorID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrNotSubscribed
		}
		return err
	}
	return nil
}

// List returns a page of the authors userID follows.
func (s *Service) List(ctx context.Context, userID int64, limit, offset, recipesLimit int) ([]AuthorResponse, int64, error) {
	authors, total, err := s.follows.ListAuthors(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	out, err := s.describe(ctx, authors, recipesLimit)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (s *Service) describe(ctx context.Context, authors []domain.User, recipesLimit int) ([]AuthorResponse, error) {
	ids := make([]int64, 0, len(authors))
	for _, a := range authors {
		ids = append(ids, a.ID)
	}
	counts, err := s.recipes.CountByAuthors(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]AuthorResponse, 0, len(authors))
	for i := range authors {
		recipes, err := s.recipes.ListByAuthor(ctx, authors[i].ID, recipesLimit)
		if err != nil {
			return nil, err
		}
		out = append(out, toAuthorResponse(&authors[i], recipes, counts[authors[i].ID]))
	}
	return out, nil
}
