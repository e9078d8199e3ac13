package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"foodgram/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

// reservedUsernames collide with /users/<name> routes.
var reservedUsernames = map[string]bool{"me": true, "subscriptions": true, "set_password": true}

// Service contains user account and token logic.
type Service struct {
	users   UserRepositoryInterface
	follows FollowReader
	tokens  TokenIssuer
	revoker TokenRevoker
	cost    int
}

func NewService(users UserRepositoryInterface, follows FollowReader, tokens TokenIssuer, revoker TokenRevoker) *Service {
	return &Service{
		users:   users,
		follows: follows,
		tokens:  tokens,
		revoker: revoker,
		cost:    bcrypt.DefaultCost,
	}
}

// Register creates a user. Field validation is done by the caller; this
// checks reserved names and uniqueness.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	username := strings.TrimSpace(req.Username)
	if reservedUsernames[strings.ToLower(username)] {
		return nil, domain.NewValidationError("username", "this username is not allowed")
	}

	emailTaken, usernameTaken, err := s.users.ExistsByEmailOrUsername(ctx, req.Email, username)
	if err != nil {
		return nil, err
	}
	if emailTaken {
		return nil, domain.NewValidationError("email", "a user with that email already exists")
	}
	if usernameTaken {
		return nil, domain.NewValidationError("username", "a user with that username already exists")
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        req.Email,
		Username:     username,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.NewValidationError("email", "a user with that email or username already exists")
		}
		return nil, err
	}
	return user, nil
}

// Login checks email and password and issues a token.
func (s *Service) Login(ctx context.Context, req LoginRequest) (string, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.tokens.GenerateToken(user.ID)
}

// Logout revokes the token id for the rest of its lifetime.
func (s *Service) Logout(ctx context.Context, tokenID string, remaining time.Duration) error {
	if s.revoker == nil {
		return nil
	}
	return s.revoker.Revoke(ctx, tokenID, remaining)
}

func (s *Service) SetPassword(ctx context.Context, userID int64, req SetPasswordRequest) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return domain.NewValidationError("current_password", "wrong password")
	}
	if req.CurrentPassword == req.NewPassword {
		return domain.NewValidationError("new_password", "new password must differ from the current one")
	}

	hash, err := s.hashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, userID, hash)
}

// GetUser returns the profile of id as seen by viewerID (0 = anonymous).
func (s *Service) GetUser(ctx context.Context, viewerID, id int64) (*domain.Profile, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	followed, err := s.follows.FollowedAmong(ctx, viewerID, []int64{id})
	if err != nil {
		return nil, err
	}
	p := domain.ProfileOf(user, followed[id])
	return &p, nil
}

func (s *Service) ListUsers(ctx context.Context, viewerID int64, limit, offset int) ([]domain.Profile, int64, error) {
	users, total, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]int64, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	followed, err := s.follows.FollowedAmong(ctx, viewerID, ids)
	if err != nil {
		return nil, 0, err
	}

	out := make([]domain.Profile, 0, len(users))
	for i := range users {
		out = append(out, domain.ProfileOf(&users[i], followed[users[i].ID]))
	}
	return out, total, nil
}

func (s *Service) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
