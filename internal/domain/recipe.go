package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts are numbers on the wire, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

var (
	MinAmount = decimal.RequireFromString("0.1")
	MaxAmount = decimal.RequireFromString("99999.99")
)

const (
	AmountScale    = 2
	MinCookingTime = 1
)

// Ingredient is reference data: (Name, MeasurementUnit) is unique.
type Ingredient struct {
	ID              int64  `json:"id" gorm:"primaryKey"`
	Name            string `json:"name" gorm:"size:200;not null;index;uniqueIndex:idx_ingredient_name_unit"`
	MeasurementUnit string `json:"measurement_unit" gorm:"size:200;not null;uniqueIndex:idx_ingredient_name_unit"`
}

func (Ingredient) TableName() string { return "ingredients" }

type Tag struct {
	ID    int64   `json:"id" gorm:"primaryKey"`
	Name  string  `json:"name" gorm:"size:200;not null"`
	Color *string `json:"color" gorm:"size:7"`
	Slug  string  `json:"slug" gorm:"size:200;not null;uniqueIndex:idx_tag_slug"`
}

func (Tag) TableName() string { return "tags" }

type Recipe struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	AuthorID    int64     `json:"author_id" gorm:"not null;index"`
	Name        string    `json:"name" gorm:"size:200;not null"`
	Text        string    `json:"text" gorm:"type:text;not null"`
	CookingTime int       `json:"cooking_time" gorm:"not null;check:chk_recipe_cooking_time,cooking_time >= 1"`
	Image       string    `json:"image" gorm:"size:500"`
	PubDate     time.Time `json:"pub_date" gorm:"autoCreateTime;index"`

	Author      *User              `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Tags        []Tag              `json:"tags,omitempty" gorm:"many2many:recipe_tags;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Ingredients []RecipeIngredient `json:"ingredients,omitempty" gorm:"foreignKey:RecipeID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (Recipe) TableName() string { return "recipes" }

// RecipeTag is the join row behind Recipe.Tags.
type RecipeTag struct {
	RecipeID int64 `gorm:"primaryKey;autoIncrement:false"`
	TagID    int64 `gorm:"primaryKey;autoIncrement:false"`
}

func (RecipeTag) TableName() string { return "recipe_tags" }

type RecipeIngredient struct {
	ID           int64           `json:"id" gorm:"primaryKey"`
	RecipeID     int64           `json:"recipe_id" gorm:"not null;index;uniqueIndex:idx_recipe_ingredient"`
	IngredientID int64           `json:"ingredient_id" gorm:"not null;index;uniqueIndex:idx_recipe_ingredient"`
	Amount       decimal.Decimal `json:"amount" gorm:"type:numeric(7,2);not null"`

	Ingredient *Ingredient `json:"ingredient,omitempty" gorm:"foreignKey:IngredientID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (RecipeIngredient) TableName() string { return "recipe_ingredients" }

// IngredientLine is one requested ingredient of a recipe write.
type IngredientLine struct {
	IngredientID int64
	Amount       decimal.Decimal
}

// RecipeDraft carries the scalar fields and relations of a create/update.
// Image is the already-stored image URL; empty on update keeps the old one.
type RecipeDraft struct {
	Name        string
	Text        string
	CookingTime int
	Image       string
	TagIDs      []int64
	Ingredients []IngredientLine
}

// RecipeShort is the compact projection returned by membership toggles and
// embedded in subscription listings.
type RecipeShort struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

func ShortOf(r *Recipe) RecipeShort {
	return RecipeShort{ID: r.ID, Name: r.Name, Image: r.Image, CookingTime: r.CookingTime}
}
