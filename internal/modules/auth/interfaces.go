package auth

import (
	"context"
	"time"

	"foodgram/internal/domain"
)

// UserRepositoryInterface lists only the methods the auth service uses.
type UserRepositoryInterface interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmailOrUsername(ctx context.Context, email, username string) (emailTaken, usernameTaken bool, err error)
	UpdatePassword(ctx context.Context, userID int64, hash string) error
	List(ctx context.Context, limit, offset int) ([]domain.User, int64, error)
}

type FollowReader interface {
	FollowedAmong(ctx context.Context, userID int64, authorIDs []int64) (map[int64]bool, error)
}

type TokenIssuer interface {
	GenerateToken(userID int64) (string, error)
}

// TokenRevoker remembers logged-out token ids until they expire.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
}
