package repository

import (
	"context"
	"time"

	"foodgram/internal/domain"

	"gorm.io/gorm"
)

// membershipRow maps onto both favorites and shopping_cart_entries; the
// table is chosen per call from the membership kind.
type membershipRow struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	UserID    int64     `gorm:"column:user_id"`
	RecipeID  int64     `gorm:"column:recipe_id"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

type MembershipRepository struct {
	db *gorm.DB
}

func NewMembershipRepository(db *gorm.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

func (r *MembershipRepository) Exists(ctx context.Context, kind domain.MembershipKind, userID, recipeID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table(kind.Table()).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error
	return count > 0, err
}

// Add inserts the membership. The unique index decides races: a duplicate
// comes back as domain.ErrConflict.
func (r *MembershipRepository) Add(ctx context.Context, kind domain.MembershipKind, userID, recipeID int64) error {
	row := &membershipRow{UserID: userID, RecipeID: recipeID, CreatedAt: time.Now().UTC()}
	err := r.db.WithContext(ctx).Table(kind.Table()).Create(row).Error
	return translate(err, kind.String())
}

// Remove deletes the membership and reports whether a row existed.
func (r *MembershipRepository) Remove(ctx context.Context, kind domain.MembershipKind, userID, recipeID int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Table(kind.Table()).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&membershipRow{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// MemberAmong returns which of recipeIDs are in userID's set of the given kind.
func (r *MembershipRepository) MemberAmong(ctx context.Context, kind domain.MembershipKind, userID int64, recipeIDs []int64) (map[int64]bool, error) {
	out := make(map[int64]bool, len(recipeIDs))
	if userID == 0 || len(recipeIDs) == 0 {
		return out, nil
	}
	var ids []int64
	err := r.db.WithContext(ctx).
		Table(kind.Table()).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

func (r *MembershipRepository) Count(ctx context.Context, kind domain.MembershipKind, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table(kind.Table()).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}
