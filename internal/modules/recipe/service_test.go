package recipe

import (
	"context"
	"errors"
	"testing"

	"foodgram/internal/domain"
	"foodgram/internal/pkg/storage"
	"foodgram/internal/repository"
	"foodgram/internal/testdb"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const pixelPNG = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII="

type fixture struct {
	db      *gorm.DB
	svc     *Service
	author  domain.User
	other   domain.User
	tags    []domain.Tag
	ingr    []domain.Ingredient
	members *repository.MembershipRepository
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()
	db := testdb.New(t)

	f := &fixture{
		db:     db,
		author: domain.User{Email: "author@example.com", Username: "author", FirstName: "Ann", LastName: "Author", PasswordHash: "x"},
		other:  domain.User{Email: "other@example.com", Username: "other", FirstName: "Otto", LastName: "Other", PasswordHash: "x"},
		tags: []domain.Tag{
			{Name: "Breakfast", Slug: "breakfast"},
			{Name: "Lunch", Slug: "lunch"},
			{Name: "Dinner", Slug: "dinner"},
		},
		ingr: []domain.Ingredient{
			{Name: "flour", MeasurementUnit: "g"},
			{Name: "milk", MeasurementUnit: "ml"},
			{Name: "egg", MeasurementUnit: "pcs"},
		},
	}
	require.NoError(t, db.Create(&f.author).Error)
	require.NoError(t, db.Create(&f.other).Error)
	require.NoError(t, db.Create(&f.tags).Error)
	require.NoError(t, db.Create(&f.ingr).Error)

	f.members = repository.NewMembershipRepository(db)
	f.svc = NewService(
		repository.NewRecipeRepository(db),
		repository.NewIngredientRepository(db),
		repository.NewTagRepository(db),
		f.members,
		repository.NewFollowRepository(db),
		storage.NewLocal(t.TempDir(), "/media"),
	)
	return f
}

func (f *fixture) request(lines ...IngredientAmountRequest) RecipeRequest {
	if len(lines) == 0 {
		lines = []IngredientAmountRequest{
			{ID: f.ingr[0].ID, Amount: decimal.RequireFromString("100")},
			{ID: f.ingr[1].ID, Amount: decimal.RequireFromString("2.5")},
		}
	}
	return RecipeRequest{
		Name:        "Pancakes",
		Text:        "Mix and fry.",
		CookingTime: 20,
		Tags:        []int64{f.tags[0].ID, f.tags[1].ID},
		Ingredients: lines,
	}
}

func amount(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestCreate_ReadBackMatchesRequest(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.author.ID, f.request())
	require.NoError(t, err)

	got, err := f.svc.Get(ctx, 0, created.ID)
	require.NoError(t, err)

	assert.Equal(t, "Pancakes", got.Name)
	assert.Equal(t, f.author.ID, got.Author.ID)
	require.Len(t, got.Tags, 2)
	assert.Equal(t, "breakfast", got.Tags[0].Slug)
	assert.Equal(t, "lunch", got.Tags[1].Slug)

	require.Len(t, got.Ingredients, 2)
	assert.Equal(t, f.ingr[0].ID, got.Ingredients[0].ID)
	assert.Equal(t, "flour", got.Ingredients[0].Name)
	assert.Equal(t, "g", got.Ingredients[0].MeasurementUnit)
	assert.True(t, amount("100").Equal(got.Ingredients[0].Amount))
	assert.True(t, amount("2.5").Equal(got.Ingredients[1].Amount))
	assert.False(t, got.IsFavorited)
	assert.False(t, got.IsInShoppingCart)
	assert.False(t, got.PubDate.IsZero())
}

func TestCreate_ValidationFailuresWriteNothing(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(r *RecipeRequest)
		field  string
	}{
		{"blank name", func(r *RecipeRequest) { r.Name = "   " }, "name"},
		{"blank text", func(r *RecipeRequest) { r.Text = "" }, "text"},
		{"zero cooking time", func(r *RecipeRequest) { r.CookingTime = 0 }, "cooking_time"},
		{"no tags", func(r *RecipeRequest) { r.Tags = nil }, "tags"},
		{"duplicate tag", func(r *RecipeRequest) { r.Tags = []int64{f.tags[0].ID, f.tags[0].ID} }, "tags"},
		{"unknown tag", func(r *RecipeRequest) { r.Tags = []int64{9999} }, "tags"},
		{"no ingredients", func(r *RecipeRequest) { r.Ingredients = nil }, "ingredients"},
		{"duplicate ingredient", func(r *RecipeRequest) {
			r.Ingredients = []IngredientAmountRequest{
				{ID: f.ingr[0].ID, Amount: amount("1")},
				{ID: f.ingr[0].ID, Amount: amount("2")},
			}
		}, "ingredients"},
		{"zero amount", func(r *RecipeRequest) { r.Ingredients[1].Amount = decimal.Zero }, "amount"},
		{"negative amount", func(r *RecipeRequest) { r.Ingredients[0].Amount = amount("-3") }, "amount"},
		{"below minimum", func(r *RecipeRequest) { r.Ingredients[0].Amount = amount("0.05") }, "amount"},
		{"too precise", func(r *RecipeRequest) { r.Ingredients[0].Amount = amount("1.125") }, "amount"},
		{"bad image", func(r *RecipeRequest) { r.Image = "not an image" }, "image"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := f.request()
			tc.mutate(&req)

			_, err := f.svc.Create(ctx, f.author.ID, req)
			ve, ok := domain.AsValidationError(err)
			require.True(t, ok, "expected validation error, got %v", err)
			assert.Equal(t, tc.field, ve.Field)

			assert.Zero(t, countRows(t, f.db, &domain.Recipe{}))
			assert.Zero(t, countRows(t, f.db, &domain.RecipeIngredient{}))
			assert.Zero(t, countRows(t, f.db, &domain.RecipeTag{}))
		})
	}
}

func TestCreate_UnknownIngredientIsNotFound(t *testing.T) {
	f := setupFixture(t)

	req := f.request(
		IngredientAmountRequest{ID: f.ingr[0].ID, Amount: amount("1")},
		IngredientAmountRequest{ID: 424242, Amount: decimal.Zero},
	)
	_, err := f.svc.Create(context.Background(), f.author.ID, req)

	// Resolution is checked before amounts.
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Zero(t, countRows(t, f.db, &domain.Recipe{}))
}

func TestCreate_StoresImage(t *testing.T) {
	f := setupFixture(t)

	req := f.request()
	req.Image = pixelPNG
	created, err := f.svc.Create(context.Background(), f.author.ID, req)
	require.NoError(t, err)
	assert.Contains(t, created.Image, "/media/recipes/")
	assert.Contains(t, created.Image, ".png")
}

func TestUpdate_ReplacesTagsAndLines(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.author.ID, f.request())
	require.NoError(t, err)

	upd := f.request(IngredientAmountRequest{ID: f.ingr[2].ID, Amount: amount("3")})
	upd.Name = "Omelette"
	upd.Tags = []int64{f.tags[2].ID}

	got, err := f.svc.Update(ctx, created.ID, f.author.ID, upd)
	require.NoError(t, err)

	assert.Equal(t, "Omelette", got.Name)
	require.Len(t, got.Tags, 1)
	assert.Equal(t, "dinner", got.Tags[0].Slug)
	require.Len(t, got.Ingredients, 1)
	assert.Equal(t, "egg", got.Ingredients[0].Name)
	assert.True(t, amount("3").Equal(got.Ingredients[0].Amount))

	assert.Equal(t, int64(1), countRows(t, f.db, &domain.RecipeIngredient{}))
	assert.Equal(t, int64(1), countRows(t, f.db, &domain.RecipeTag{}))
	assert.Equal(t, created.PubDate.Unix(), got.PubDate.Unix())
}

func TestUpdate_FailureKeepsPreviousComposition(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.author.ID, f.request())
	require.NoError(t, err)

	bad := f.request(IngredientAmountRequest{ID: 777, Amount: amount("1")})
	bad.Name = "Changed"
	_, err = f.svc.Update(ctx, created.ID, f.author.ID, bad)
	require.ErrorIs(t, err, domain.ErrNotFound)

	got, err := f.svc.Get(ctx, 0, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pancakes", got.Name)
	assert.Len(t, got.Ingredients, 2)
	assert.Len(t, got.Tags, 2)
}

func TestUpdate_MissingRecipe(t *testing.T) {
	f := setupFixture(t)
	_, err := f.svc.Update(context.Background(), 999, f.author.ID, f.request())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete_CascadesMemberships(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.author.ID, f.request())
	require.NoError(t, err)
	require.NoError(t, f.members.Add(ctx, domain.KindFavorite, f.other.ID, created.ID))
	require.NoError(t, f.members.Add(ctx, domain.KindShoppingCart, f.other.ID, created.ID))

	require.NoError(t, f.svc.Delete(ctx, created.ID))

	assert.Zero(t, countRows(t, f.db, &domain.Recipe{}))
	assert.Zero(t, countRows(t, f.db, &domain.RecipeIngredient{}))
	assert.Zero(t, countRows(t, f.db, &domain.RecipeTag{}))
	assert.Zero(t, countRows(t, f.db, &domain.Favorite{}))
	assert.Zero(t, countRows(t, f.db, &domain.ShoppingCartEntry{}))

	assert.ErrorIs(t, f.svc.Delete(ctx, created.ID), ErrRecipeNotFound)
}

func TestGet_ViewerFlags(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.author.ID, f.request())
	require.NoError(t, err)
	require.NoError(t, f.members.Add(ctx, domain.KindFavorite, f.other.ID, created.ID))
	require.NoError(t, repository.NewFollowRepository(f.db).Create(ctx, f.other.ID, f.author.ID))

	got, err := f.svc.Get(ctx, f.other.ID, created.ID)
	require.NoError(t, err)
	assert.True(t, got.IsFavorited)
	assert.False(t, got.IsInShoppingCart)
	assert.True(t, got.Author.IsSubscribed)

	anon, err := f.svc.Get(ctx, 0, created.ID)
	require.NoError(t, err)
	assert.False(t, anon.IsFavorited)
	assert.False(t, anon.Author.IsSubscribed)
}

func TestList_Filters(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	breakfast := f.request()
	breakfast.Tags = []int64{f.tags[0].ID}
	r1, err := f.svc.Create(ctx, f.author.ID, breakfast)
	require.NoError(t, err)

	dinner := f.request()
	dinner.Name = "Stew"
	dinner.Tags = []int64{f.tags[2].ID}
	r2, err := f.svc.Create(ctx, f.other.ID, dinner)
	require.NoError(t, err)

	all, total, err := f.svc.List(ctx, 0, ListQuery{Limit: 6})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, all, 2)

	byTag, total, err := f.svc.List(ctx, 0, ListQuery{TagSlugs: []string{"dinner"}, Limit: 6})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, r2.ID, byTag[0].ID)

	byAuthor, _, err := f.svc.List(ctx, 0, ListQuery{AuthorID: f.author.ID, Limit: 6})
	require.NoError(t, err)
	require.Len(t, byAuthor, 1)
	assert.Equal(t, r1.ID, byAuthor[0].ID)

	require.NoError(t, f.members.Add(ctx, domain.KindShoppingCart, f.other.ID, r1.ID))
	inCart, total, err := f.svc.List(ctx, f.other.ID, ListQuery{IsInShoppingCart: true, Limit: 6})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.True(t, inCart[0].IsInShoppingCart)

	// Anonymous viewers cannot filter by membership.
	_, total, err = f.svc.List(ctx, 0, ListQuery{IsFavorited: true, Limit: 6})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	page, total, err := f.svc.List(ctx, 0, ListQuery{Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, page, 1)
}

// Mock collaborators for failure paths that a real database will not produce.

type MockRecipeRepository struct {
	mock.Mock
}

func (m *MockRecipeRepository) Create(ctx context.Context, authorID int64, draft domain.RecipeDraft) (*domain.Recipe, error) {
	args := m.Called(ctx, authorID, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) Update(ctx context.Context, recipeID int64, draft domain.RecipeDraft) (*domain.Recipe, string, error) {
	args := m.Called(ctx, recipeID, draft)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*domain.Recipe), args.String(1), args.Error(2)
}

func (m *MockRecipeRepository) Delete(ctx context.Context, recipeID int64) (*domain.Recipe, error) {
	args := m.Called(ctx, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) GetByID(ctx context.Context, recipeID int64) (*domain.Recipe, error) {
	args := m.Called(ctx, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) List(ctx context.Context, f repository.RecipeFilter) ([]domain.Recipe, int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]domain.Recipe), args.Get(1).(int64), args.Error(2)
}

type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) Save(ctx context.Context, img *storage.Image) (string, error) {
	args := m.Called(ctx, img)
	return args.String(0), args.Error(1)
}

func (m *MockImageStore) Delete(ctx context.Context, url string) error {
	args := m.Called(ctx, url)
	return args.Error(0)
}

func TestCreate_TransactionFailureDiscardsImage(t *testing.T) {
	f := setupFixture(t)
	recipes := new(MockRecipeRepository)
	images := new(MockImageStore)

	svc := NewService(recipes, f.svc.ingredients, f.svc.tags, f.members, f.svc.follows, images)

	images.On("Save", mock.Anything, mock.Anything).Return("https://cdn/recipes/a.png", nil)
	recipes.On("Create", mock.Anything, f.author.ID, mock.Anything).Return(nil, errors.New("connection reset"))
	images.On("Delete", mock.Anything, "https://cdn/recipes/a.png").Return(nil)

	req := f.request()
	req.Image = pixelPNG
	_, err := svc.Create(context.Background(), f.author.ID, req)
	require.Error(t, err)

	images.AssertExpectations(t)
	recipes.AssertExpectations(t)
}

func TestUpdate_ReplacedImageIsDeletedAfterCommit(t *testing.T) {
	f := setupFixture(t)
	recipes := new(MockRecipeRepository)
	images := new(MockImageStore)

	svc := NewService(recipes, f.svc.ingredients, f.svc.tags, f.members, f.svc.follows, images)

	images.On("Save", mock.Anything, mock.Anything).Return("https://cdn/new.png", nil)
	recipes.On("Update", mock.Anything, int64(5), mock.Anything).Return(&domain.Recipe{ID: 5}, "https://cdn/old.png", nil)
	images.On("Delete", mock.Anything, "https://cdn/old.png").Return(nil)
	recipes.On("GetByID", mock.Anything, int64(5)).Return(&domain.Recipe{ID: 5, AuthorID: f.author.ID, Name: "x"}, nil)

	req := f.request()
	req.Image = pixelPNG
	_, err := svc.Update(context.Background(), 5, f.author.ID, req)
	require.NoError(t, err)

	images.AssertExpectations(t)
	images.AssertNotCalled(t, "Delete", mock.Anything, "https://cdn/new.png")
}
