package repository

import (
	"context"
	"fmt"
	"strconv"

	"foodgram/internal/domain"

	"gorm.io/gorm"
)

type RecipeRepository struct {
	db *gorm.DB
}

func NewRecipeRepository(db *gorm.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

// RecipeFilter narrows List. Zero values disable a filter.
type RecipeFilter struct {
	AuthorID    int64
	TagSlugs    []string
	FavoritedBy int64
	InCartOf    int64
	Limit       int
	Offset      int
}

// Create inserts the recipe row, its tag links and its ingredient lines in a
// single transaction. Any failure leaves no trace of the recipe.
func (r *RecipeRepository) Create(ctx context.Context, authorID int64, draft domain.RecipeDraft) (*domain.Recipe, error) {
	recipe := &domain.Recipe{
		AuthorID:    authorID,
		Name:        draft.Name,
		Text:        draft.Text,
		CookingTime: draft.CookingTime,
		Image:       draft.Image,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Author", "Tags", "Ingredients").Create(recipe).Error; err != nil {
			return err
		}
		return writeComposition(tx, recipe.ID, draft)
	})
	if err != nil {
		return nil, translate(err, "recipe")
	}
	return recipe, nil
}

// Update replaces the scalar fields, the tag set and every ingredient line of
// an existing recipe in one transaction. It returns the recipe and the image
// URL it had before the update.
func (r *RecipeRepository) Update(ctx context.Context, recipeID int64, draft domain.RecipeDraft) (*domain.Recipe, string, error) {
	var (
		recipe   domain.Recipe
		oldImage string
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&recipe, recipeID).Error; err != nil {
			return err
		}
		oldImage = recipe.Image

		recipe.Name = draft.Name
		recipe.Text = draft.Text
		recipe.CookingTime = draft.CookingTime
		if draft.Image != "" {
			recipe.Image = draft.Image
		}

		if err := tx.Where("recipe_id = ?", recipeID).Delete(&domain.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&domain.RecipeTag{}).Error; err != nil {
			return err
		}
		if err := writeComposition(tx, recipeID, draft); err != nil {
			return err
		}

		return tx.Model(&domain.Recipe{ID: recipeID}).Updates(map[string]any{
			"name":         recipe.Name,
			"text":         recipe.Text,
			"cooking_time": recipe.CookingTime,
			"image":        recipe.Image,
		}).Error
	})
	if err != nil {
		return nil, "", translate(err, "recipe")
	}
	return &recipe, oldImage, nil
}

// writeComposition links tags and inserts ingredient lines for recipeID.
// Tags and ingredients are resolved inside tx so a concurrent delete of the
// reference rows aborts the whole write.
func writeComposition(tx *gorm.DB, recipeID int64, draft domain.RecipeDraft) error {
	var tagIDs []int64
	if err := tx.Model(&domain.Tag{}).Where("id IN ?", draft.TagIDs).Pluck("id", &tagIDs).Error; err != nil {
		return err
	}
	known := make(map[int64]bool, len(tagIDs))
	for _, id := range tagIDs {
		known[id] = true
	}

	links := make([]domain.RecipeTag, 0, len(draft.TagIDs))
	for _, id := range draft.TagIDs {
		if !known[id] {
			return domain.NewValidationError("tags", "unknown tag id "+strconv.FormatInt(id, 10))
		}
		links = append(links, domain.RecipeTag{RecipeID: recipeID, TagID: id})
	}
	if err := tx.Create(&links).Error; err != nil {
		return err
	}

	ingredientIDs := make([]int64, 0, len(draft.Ingredients))
	for _, line := range draft.Ingredients {
		ingredientIDs = append(ingredientIDs, line.IngredientID)
	}
	var found []int64
	if err := tx.Model(&domain.Ingredient{}).Where("id IN ?", ingredientIDs).Pluck("id", &found).Error; err != nil {
		return err
	}
	exists := make(map[int64]bool, len(found))
	for _, id := range found {
		exists[id] = true
	}

	rows := make([]domain.RecipeIngredient, 0, len(draft.Ingredients))
	for _, line := range draft.Ingredients {
		if !exists[line.IngredientID] {
			return fmt.Errorf("ingredient %d: %w", line.IngredientID, domain.ErrNotFound)
		}
		rows = append(rows, domain.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: line.IngredientID,
			Amount:       line.Amount,
		})
	}
	return tx.Omit("Ingredient").Create(&rows).Error
}

// Delete removes the recipe and everything that references it. It returns the
// deleted recipe so callers can release its image.
func (r *RecipeRepository) Delete(ctx context.Context, recipeID int64) (*domain.Recipe, error) {
	var recipe domain.Recipe
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&recipe, recipeID).Error; err != nil {
			return err
		}
		for _, model := range []any{
			&domain.RecipeIngredient{},
			&domain.RecipeTag{},
			&domain.Favorite{},
			&domain.ShoppingCartEntry{},
		} {
			if err := tx.Where("recipe_id = ?", recipeID).Delete(model).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&domain.Recipe{}, recipeID).Error
	})
	if err != nil {
		return nil, translate(err, "recipe")
	}
	return &recipe, nil
}

// AuthorID returns the author of the recipe.
func (r *RecipeRepository) AuthorID(ctx context.Context, recipeID int64) (int64, error) {
	var recipe domain.Recipe
	err := r.db.WithContext(ctx).Select("id", "author_id").First(&recipe, recipeID).Error
	if err != nil {
		return 0, translate(err, "recipe")
	}
	return recipe.AuthorID, nil
}

// GetBasic loads the recipe row without relations.
func (r *RecipeRepository) GetBasic(ctx context.Context, recipeID int64) (*domain.Recipe, error) {
	var recipe domain.Recipe
	if err := r.db.WithContext(ctx).First(&recipe, recipeID).Error; err != nil {
		return nil, translate(err, "recipe")
	}
	return &recipe, nil
}

// GetByID loads the recipe with author, tags and ingredient lines.
func (r *RecipeRepository) GetByID(ctx context.Context, recipeID int64) (*domain.Recipe, error) {
	var recipe domain.Recipe
	err := withRelations(r.db.WithContext(ctx)).First(&recipe, recipeID).Error
	if err != nil {
		return nil, translate(err, "recipe")
	}
	return &recipe, nil
}

// List returns one page of recipes matching f, newest first, and the total.
func (r *RecipeRepository) List(ctx context.Context, f RecipeFilter) ([]domain.Recipe, int64, error) {
	db := r.db.WithContext(ctx)
	scope := func(q *gorm.DB) *gorm.DB {
		if f.AuthorID != 0 {
			q = q.Where("recipes.author_id = ?", f.AuthorID)
		}
		if len(f.TagSlugs) > 0 {
			sub := db.Table("recipe_tags").
				Select("recipe_tags.recipe_id").
				Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
				Where("tags.slug IN ?", f.TagSlugs)
			q = q.Where("recipes.id IN (?)", sub)
		}
		if f.FavoritedBy != 0 {
			q = q.Where("recipes.id IN (?)", db.Table("favorites").Select("recipe_id").Where("user_id = ?", f.FavoritedBy))
		}
		if f.InCartOf != 0 {
			q = q.Where("recipes.id IN (?)", db.Table("shopping_cart_entries").Select("recipe_id").Where("user_id = ?", f.InCartOf))
		}
		return q
	}

	var total int64
	if err := db.Model(&domain.Recipe{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recipes []domain.Recipe
	q := withRelations(db.Model(&domain.Recipe{}).Scopes(scope)).
		Order("recipes.pub_date DESC, recipes.id DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	if err := q.Find(&recipes).Error; err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}

// ListByAuthor returns the newest recipes of an author; limit <= 0 means all.
func (r *RecipeRepository) ListByAuthor(ctx context.Context, authorID int64, limit int) ([]domain.Recipe, error) {
	var recipes []domain.Recipe
	q := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("pub_date DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// CountByAuthors returns the number of recipes per author id.
func (r *RecipeRepository) CountByAuthors(ctx context.Context, authorIDs []int64) (map[int64]int64, error) {
	out := make(map[int64]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		AuthorID int64
		Total    int64
	}
	err := r.db.WithContext(ctx).Model(&domain.Recipe{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.AuthorID] = row.Total
	}
	return out, nil
}

func withRelations(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.id ASC") }).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("recipe_ingredients.id ASC") }).
		Preload("Ingredients.Ingredient")
}
