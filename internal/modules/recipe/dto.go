package recipe

import (
	"time"

	"foodgram/internal/domain"

	"github.com/shopspring/decimal"
)

type IngredientAmountRequest struct {
	ID     int64           `json:"id"`
	Amount decimal.Decimal `json:"amount"`
}

// RecipeRequest is the body of POST /recipes and PATCH /recipes/:id.
// Image is a base64 data URL; empty on update keeps the current image.
type RecipeRequest struct {
	Ingredients []IngredientAmountRequest `json:"ingredients"`
	Tags        []int64                   `json:"tags"`
	Image       string                    `json:"image"`
	Name        string                    `json:"name"`
	Text        string                    `json:"text"`
	CookingTime int                       `json:"cooking_time"`
}

type IngredientAmountResponse struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	MeasurementUnit string          `json:"measurement_unit"`
	Amount          decimal.Decimal `json:"amount"`
}

type RecipeResponse struct {
	ID               int64                      `json:"id"`
	Tags             []domain.Tag               `json:"tags"`
	Author           domain.Profile             `json:"author"`
	Ingredients      []IngredientAmountResponse `json:"ingredients"`
	IsFavorited      bool                       `json:"is_favorited"`
	IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
	Name             string                     `json:"name"`
	Image            string                     `json:"image"`
	Text             string                     `json:"text"`
	CookingTime      int                        `json:"cooking_time"`
	PubDate          time.Time                  `json:"pub_date"`
}

// ListQuery carries the recipe list filters from the query string.
type ListQuery struct {
	AuthorID         int64
	TagSlugs         []string
	IsFavorited      bool
	IsInShoppingCart bool
	Limit            int
	Offset           int
}

type viewerFlags struct {
	favorited  map[int64]bool
	inCart     map[int64]bool
	subscribed map[int64]bool
}

func toRecipeResponse(r *domain.Recipe, flags viewerFlags) RecipeResponse {
	tags := r.Tags
	if tags == nil {
		tags = []domain.Tag{}
	}

	lines := make([]IngredientAmountResponse, 0, len(r.Ingredients))
	for _, ri := range r.Ingredients {
		line := IngredientAmountResponse{ID: ri.IngredientID, Amount: ri.Amount}
		if ri.Ingredient != nil {
			line.Name = ri.Ingredient.Name
			line.MeasurementUnit = ri.Ingredient.MeasurementUnit
		}
		lines = append(lines, line)
	}

	var author domain.Profile
	if r.Author != nil {
		author = domain.ProfileOf(r.Author, flags.subscribed[r.AuthorID])
	}

	return RecipeResponse{
		ID:               r.ID,
		Tags:             tags,
		Author:           author,
		Ingredients:      lines,
		IsFavorited:      flags.favorited[r.ID],
		IsInShoppingCart: flags.inCart[r.ID],
		Name:             r.Name,
		Image:            r.Image,
		Text:             r.Text,
		CookingTime:      r.CookingTime,
		PubDate:          r.PubDate,
	}
}
