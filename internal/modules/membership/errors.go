package membership

import (
	"errors"
	"fmt"

	"foodgram/internal/domain"
)

var (
	ErrAlreadyMember  = fmt.Errorf("recipe is already in the list: %w", domain.ErrConflict)
	ErrNotMember      = errors.New("recipe is not in the list")
	ErrRecipeNotFound = fmt.Errorf("recipe: %w", domain.ErrNotFound)
	ErrUnknownKind    = errors.New("unknown membership kind")
)
