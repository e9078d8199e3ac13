package recipe

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"unicode/utf8"

	"foodgram/internal/domain"
	"foodgram/internal/pkg/storage"
	"foodgram/internal/repository"
)

// Service composes recipes: validates the request, stores the image and
// writes the recipe with its tags and ingredient lines atomically.
type Service struct {
	recipes     RecipeRepository
	ingredients IngredientReader
	tags        TagReader
	memberships MembershipReader
	follows     FollowReader
	images      ImageStore
}

func NewService(
	recipes RecipeRepository,
	ingredients IngredientReader,
	tags TagReader,
	memberships MembershipReader,
	follows FollowReader,
	images ImageStore,
) *Service {
	return &Service{
		recipes:     recipes,
		ingredients: ingredients,
		tags:        tags,
		memberships: memberships,
		follows:     follows,
		images:      images,
	}
}

func (s *Service) Create(ctx context.Context, authorID int64, req RecipeRequest) (*RecipeResponse, error) {
	draft, img, err := s.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	if img != nil {
		url, err := s.images.Save(ctx, img)
		if err != nil {
			return nil, fmt.Errorf("save image: %w", err)
		}
		draft.Image = url
	}

	created, err := s.recipes.Create(ctx, authorID, draft)
	if err != nil {
		s.discardImage(ctx, draft.Image)
		return nil, err
	}

	return s.Get(ctx, authorID, created.ID)
}

// Update fully replaces name, text, cooking time, tags and ingredient lines.
// The image is replaced only when the request carries one.
func (s *Service) Update(ctx context.Context, recipeID, authorID int64, req RecipeRequest) (*RecipeResponse, error) {
	draft, img, err := s.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	if img != nil {
		url, err := s.images.Save(ctx, img)
		if err != nil {
			return nil, fmt.Errorf("save image: %w", err)
		}
		draft.Image = url
	}

	_, oldImage, err := s.recipes.Update(ctx, recipeID, draft)
	if err != nil {
		// "recipe: not found" and "ingredient N: not found" both pass through.
		s.discardImage(ctx, draft.Image)
		return nil, err
	}
	if draft.Image != "" && oldImage != "" && oldImage != draft.Image {
		s.discardImage(ctx, oldImage)
	}

	return s.Get(ctx, authorID, recipeID)
}

func (s *Service) Delete(ctx context.Context, recipeID int64) error {
	deleted, err := s.recipes.Delete(ctx, recipeID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrRecipeNotFound
		}
		return err
	}
	s.discardImage(ctx, deleted.Image)
	return nil
}

// Get returns the read projection of a recipe for viewerID (0 = anonymous).
func (s *Service) Get(ctx context.Context, viewerID, recipeID int64) (*RecipeResponse, error) {
	r, err := s.recipes.GetByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}

	flags, err := s.viewerFlags(ctx, viewerID, []domain.Recipe{*r})
	if err != nil {
		return nil, err
	}
	resp := toRecipeResponse(r, flags)
	return &resp, nil
}

// List returns a page of recipes. Membership filters apply only to an
// authenticated viewer.
func (s *Service) List(ctx context.Context, viewerID int64, q ListQuery) ([]RecipeResponse, int64, error) {
	f := repository.RecipeFilter{
		AuthorID: q.AuthorID,
		TagSlugs: q.TagSlugs,
		Limit:    q.Limit,
		Offset:   q.Offset,
	}
	if viewerID != 0 && q.IsFavorited {
		f.FavoritedBy = viewerID
	}
	if viewerID != 0 && q.IsInShoppingCart {
		f.InCartOf = viewerID
	}

	recipes, total, err := s.recipes.List(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	flags, err := s.viewerFlags(ctx, viewerID, recipes)
	if err != nil {
		return nil, 0, err
	}

	out := make([]RecipeResponse, 0, len(recipes))
	for i := range recipes {
		out = append(out, toRecipeResponse(&recipes[i], flags))
	}
	return out, total, nil
}

func (s *Service) viewerFlags(ctx context.Context, viewerID int64, recipes []domain.Recipe) (viewerFlags, error) {
	ids := make([]int64, 0, len(recipes))
	authorIDs := make([]int64, 0, len(recipes))
	for _, r := range recipes {
		ids = append(ids, r.ID)
		authorIDs = append(authorIDs, r.AuthorID)
	}

	var (
		flags viewerFlags
		err   error
	)
	if flags.favorited, err = s.memberships.MemberAmong(ctx, domain.KindFavorite, viewerID, ids); err != nil {
		return flags, err
	}
	if flags.inCart, err = s.memberships.MemberAmong(ctx, domain.KindShoppingCart, viewerID, ids); err != nil {
		return flags, err
	}
	if flags.subscribed, err = s.follows.FollowedAmong(ctx, viewerID, authorIDs); err != nil {
		return flags, err
	}
	return flags, nil
}

// prepare validates req in a fixed order and returns the draft to persist
// plus the decoded image, if any. Nothing is written here.
func (s *Service) prepare(ctx context.Context, req RecipeRequest) (domain.RecipeDraft, *storage.Image, error) {
	var draft domain.RecipeDraft

	name := strings.TrimSpace(req.Name)
	switch {
	case name == "":
		return draft, nil, domain.NewValidationError("name", msgBlank)
	case utf8.RuneCountInString(name) > maxNameLength:
		return draft, nil, domain.NewValidationError("name", msgTooLong)
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return draft, nil, domain.NewValidationError("text", msgBlank)
	}
	if req.CookingTime < domain.MinCookingTime {
		return draft, nil, domain.NewValidationError("cooking_time", msgCookingTime)
	}

	if len(req.Tags) == 0 {
		return draft, nil, domain.NewValidationError("tags", msgTagsRequired)
	}
	seenTags := make(map[int64]bool, len(req.Tags))
	for _, id := range req.Tags {
		if seenTags[id] {
			return draft, nil, domain.NewValidationError("tags", msgDuplicateTag)
		}
		seenTags[id] = true
	}

	if len(req.Ingredients) == 0 {
		return draft, nil, domain.NewValidationError("ingredients", msgIngredientsNeeded)
	}
	seenIngr := make(map[int64]bool, len(req.Ingredients))
	ingredientIDs := make([]int64, 0, len(req.Ingredients))
	for _, line := range req.Ingredients {
		if seenIngr[line.ID] {
			return draft, nil, domain.NewValidationError("ingredients", msgDuplicateIngr)
		}
		seenIngr[line.ID] = true
		ingredientIDs = append(ingredientIDs, line.ID)
	}

	tags, err := s.tags.FindByIDs(ctx, req.Tags)
	if err != nil {
		return draft, nil, err
	}
	for _, id := range req.Tags {
		if _, ok := tags[id]; !ok {
			return draft, nil, domain.NewValidationError("tags", "unknown tag id "+strconv.FormatInt(id, 10))
		}
	}

	known, err := s.ingredients.FindByIDs(ctx, ingredientIDs)
	if err != nil {
		return draft, nil, err
	}
	for _, id := range ingredientIDs {
		if _, ok := known[id]; !ok {
			return draft, nil, fmt.Errorf("ingredient %d: %w", id, domain.ErrNotFound)
		}
	}

	lines := make([]domain.IngredientLine, 0, len(req.Ingredients))
	for _, line := range req.Ingredients {
		if err := checkAmount(line); err != nil {
			return draft, nil, err
		}
		lines = append(lines, domain.IngredientLine{IngredientID: line.ID, Amount: line.Amount})
	}

	var img *storage.Image
	if req.Image != "" {
		img, err = storage.DecodeDataURL(req.Image)
		if err != nil {
			return draft, nil, domain.NewValidationError("image", err.Error())
		}
	}

	draft = domain.RecipeDraft{
		Name:        name,
		Text:        text,
		CookingTime: req.CookingTime,
		TagIDs:      req.Tags,
		Ingredients: lines,
	}
	return draft, img, nil
}

func checkAmount(line IngredientAmountRequest) error {
	a := line.Amount
	switch {
	case a.Sign() <= 0:
		return domain.NewValidationError("amount", msgAmountNotPositive)
	case a.LessThan(domain.MinAmount) || a.GreaterThan(domain.MaxAmount):
		return domain.NewValidationError("amount", msgAmountRange)
	case !a.Equal(a.Round(domain.AmountScale)):
		return domain.NewValidationError("amount", msgAmountPrecision)
	}
	return nil
}

// discardImage removes an image that is no longer referenced. Failures are
// logged; the recipe write has already been decided.
func (s *Service) discardImage(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := s.images.Delete(context.WithoutCancel(ctx), url); err != nil {
		log.Printf("recipe_image_cleanup_failed url=%s error=%q", url, err)
	}
}
