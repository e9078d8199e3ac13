package subscription

import (
	"errors"
	"fmt"

	"foodgram/internal/domain"
)

var (
	ErrAuthorNotFound = fmt.Errorf("author: %w", domain.ErrNotFound)
	ErrNotSubscribed  = errors.New("you are not subscribed to this author")
)
