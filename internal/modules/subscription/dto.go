package subscription

import "foodgram/internal/domain"

// AuthorResponse is a followed author with a preview of their recipes.
type AuthorResponse struct {
	domain.Profile
	Recipes      []domain.RecipeShort `json:"recipes"`
	RecipesCount int64                `json:"recipes_count"`
}

func toAuthorResponse(u *domain.User, recipes []domain.Recipe, count int64) AuthorResponse {
	shorts := make([]domain.RecipeShort, 0, len(recipes))
	for i := range recipes {
		shorts = append(shorts, domain.ShortOf(&recipes[i]))
	}
	return AuthorResponse{
		Profile:      domain.ProfileOf(u, true),
		Recipes:      shorts,
		RecipesCount: count,
	}
}
