package repository

import (
	"context"
	"strings"

	"foodgram/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type IngredientRepository struct {
	db *gorm.DB
}

func NewIngredientRepository(db *gorm.DB) *IngredientRepository {
	return &IngredientRepository{db: db}
}

// Search lists ingredients whose name starts with prefix (case-insensitive).
// An empty prefix lists everything.
func (r *IngredientRepository) Search(ctx context.Context, prefix string) ([]domain.Ingredient, error) {
	var items []domain.Ingredient
	q := r.db.WithContext(ctx).Model(&domain.Ingredient{})
	if p := strings.TrimSpace(prefix); p != "" {
		q = q.Where("LOWER(name) LIKE ? ESCAPE '\\'", escapeLike(strings.ToLower(p))+"%")
	}
	if err := q.Order("name ASC, measurement_unit ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *IngredientRepository) GetByID(ctx context.Context, id int64) (*domain.Ingredient, error) {
	var ing domain.Ingredient
	if err := r.db.WithContext(ctx).First(&ing, id).Error; err != nil {
		return nil, translate(err, "ingredient")
	}
	return &ing, nil
}

// FindByIDs returns the ingredients that exist among ids, keyed by id.
func (r *IngredientRepository) FindByIDs(ctx context.Context, ids []int64) (map[int64]domain.Ingredient, error) {
	out := make(map[int64]domain.Ingredient, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var items []domain.Ingredient
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	for _, it := range items {
		out[it.ID] = it
	}
	return out, nil
}

// EnsureMany inserts ingredients, skipping (name, unit) pairs that already
// exist. Returns how many rows were created.
func (r *IngredientRepository) EnsureMany(ctx context.Context, items []domain.Ingredient) (int64, error) {
	if len(items) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}, {Name: "measurement_unit"}},
			DoNothing: true,
		}).
		CreateInBatches(items, 500)
	return res.RowsAffected, res.Error
}

type TagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) *TagRepository {
	return &TagRepository{db: db}
}

func (r *TagRepository) List(ctx context.Context) ([]domain.Tag, error) {
	var tags []domain.Tag
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *TagRepository) GetByID(ctx context.Context, id int64) (*domain.Tag, error) {
	var tag domain.Tag
	if err := r.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		return nil, translate(err, "tag")
	}
	return &tag, nil
}

func (r *TagRepository) FindByIDs(ctx context.Context, ids []int64) (map[int64]domain.Tag, error) {
	out := make(map[int64]domain.Tag, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var tags []domain.Tag
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, err
	}
	for _, t := range tags {
		out[t.ID] = t
	}
	return out, nil
}

// EnsureMany inserts tags, skipping slugs that already exist.
func (r *TagRepository) EnsureMany(ctx context.Context, tags []domain.Tag) (int64, error) {
	if len(tags) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "slug"}}, DoNothing: true}).
		Create(&tags)
	return res.RowsAffected, res.Error
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(s)
}
