package domain

import (
	"fmt"
	"time"
)

// Favorite and ShoppingCartEntry share one shape; each is unique per (user, recipe).
type Favorite struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	UserID    int64     `json:"user_id" gorm:"not null;index;uniqueIndex:idx_favorite_user_recipe"`
	RecipeID  int64     `json:"recipe_id" gorm:"not null;index;uniqueIndex:idx_favorite_user_recipe"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	User   *User   `json:"-" gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Recipe *Recipe `json:"-" gorm:"foreignKey:RecipeID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (Favorite) TableName() string { return "favorites" }

type ShoppingCartEntry struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	UserID    int64     `json:"user_id" gorm:"not null;index;uniqueIndex:idx_cart_user_recipe"`
	RecipeID  int64     `json:"recipe_id" gorm:"not null;index;uniqueIndex:idx_cart_user_recipe"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	User   *User   `json:"-" gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Recipe *Recipe `json:"-" gorm:"foreignKey:RecipeID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (ShoppingCartEntry) TableName() string { return "shopping_cart_entries" }

// MembershipKind selects which per-user recipe set a toggle operates on.
type MembershipKind int

const (
	KindFavorite MembershipKind = iota + 1
	KindShoppingCart
)

// Table is the storage table behind the kind.
func (k MembershipKind) Table() string {
	switch k {
	case KindFavorite:
		return Favorite{}.TableName()
	case KindShoppingCart:
		return ShoppingCartEntry{}.TableName()
	}
	panic(fmt.Sprintf("unknown membership kind %d", int(k)))
}

func (k MembershipKind) String() string {
	switch k {
	case KindFavorite:
		return "favorites"
	case KindShoppingCart:
		return "shopping cart"
	}
	return "unknown"
}

func (k MembershipKind) Valid() bool {
	return k == KindFavorite || k == KindShoppingCart
}
