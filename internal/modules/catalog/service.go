package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"foodgram/internal/domain"
)

var (
	ErrTagNotFound        = fmt.Errorf("tag: %w", domain.ErrNotFound)
	ErrIngredientNotFound = fmt.Errorf("ingredient: %w", domain.ErrNotFound)
)

type TagReader interface {
	List(ctx context.Context) ([]domain.Tag, error)
	GetByID(ctx context.Context, id int64) (*domain.Tag, error)
}

type IngredientReader interface {
	Search(ctx context.Context, prefix string) ([]domain.Ingredient, error)
	GetByID(ctx context.Context, id int64) (*domain.Ingredient, error)
}

// Service serves the read-only reference lists recipes are built from.
type Service struct {
	tags        TagReader
	ingredients IngredientReader
}

func NewService(tags TagReader, ingredients IngredientReader) *Service {
	return &Service{tags: tags, ingredients: ingredients}
}

func (s *Service) ListTags(ctx context.Context) ([]domain.Tag, error) {
	return s.tags.List(ctx)
}

func (s *Service) GetTag(ctx context.Context, id int64) (*domain.Tag, error) {
	tag, err := s.tags.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, ErrTagNotFound
	}
	return tag, err
}

// SearchIngredients matches name prefixes case-insensitively; an empty
// prefix lists everything.
func (s *Service) SearchIngredients(ctx context.Context, prefix string) ([]domain.Ingredient, error) {
	return s.ingredients.Search(ctx, strings.TrimSpace(prefix))
}

func (s *Service) GetIngredient(ctx context.Context, id int64) (*domain.Ingredient, error) {
	ing, err := s.ingredients.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, ErrIngredientNotFound
	}
	return ing, err
}
