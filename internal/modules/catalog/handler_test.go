package catalog

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"foodgram/internal/domain"
	"foodgram/internal/repository"
	"foodgram/internal/testdb"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) (*gin.Engine, []domain.Tag, []domain.Ingredient) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testdb.New(t)

	color := "#E26C2D"
	tags := []domain.Tag{
		{Name: "Breakfast", Slug: "breakfast", Color: &color},
		{Name: "Dinner", Slug: "dinner"},
	}
	require.NoError(t, db.Create(&tags).Error)
	ingredients := []domain.Ingredient{
		{Name: "Sugar", MeasurementUnit: "g"},
		{Name: "salt", MeasurementUnit: "g"},
		{Name: "sugar syrup", MeasurementUnit: "ml"},
		{Name: "100% juice", MeasurementUnit: "ml"},
	}
	require.NoError(t, db.Create(&ingredients).Error)

	svc := NewService(repository.NewTagRepository(db), repository.NewIngredientRepository(db))
	r := gin.New()
	NewHandler(svc).RegisterPublicRoutes(r.Group("/api"))
	return r, tags, ingredients
}

func getJSON(t *testing.T, r http.Handler, path string, out any) int {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	if out != nil && w.Code == http.StatusOK {
		env := struct {
			Data json.RawMessage `json:"data"`
		}{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		require.NoError(t, json.Unmarshal(env.Data, out))
	}
	return w.Code
}

func TestTags(t *testing.T) {
	r, tags, _ := setupRouter(t)

	var list []domain.Tag
	require.Equal(t, http.StatusOK, getJSON(t, r, "/api/tags", &list))
	require.Len(t, list, 2)
	assert.Equal(t, "breakfast", list[0].Slug)
	require.NotNil(t, list[0].Color)
	assert.Nil(t, list[1].Color)

	var one domain.Tag
	require.Equal(t, http.StatusOK, getJSON(t, r, "/api/tags/"+strconv.FormatInt(tags[1].ID, 10), &one))
	assert.Equal(t, "Dinner", one.Name)

	assert.Equal(t, http.StatusNotFound, getJSON(t, r, "/api/tags/999", nil))
	assert.Equal(t, http.StatusBadRequest, getJSON(t, r, "/api/tags/zero", nil))
}

func TestIngredientSearch(t *testing.T) {
	r, _, ingredients := setupRouter(t)

	var found []domain.Ingredient
	require.Equal(t, http.StatusOK, getJSON(t, r, "/api/ingredients?name=sug", &found))
	require.Len(t, found, 2)
	assert.Equal(t, "Sugar", found[0].Name)
	assert.Equal(t, "sugar syrup", found[1].Name)

	found = nil
	require.Equal(t, http.StatusOK, getJSON(t, r, "/api/ingredients?name=100%25", &found))
	require.Len(t, found, 1)
	assert.Equal(t, "100% juice", found[0].Name)

	found = nil
	require.Equal(t, http.StatusOK, getJSON(t, r, "/api/ingredients?name=zzz", &found))
	assert.Empty(t, found)

	found = nil
	require.Equal(t, http.StatusOK, getJSON(t, r, "/api/ingredients", &found))
	assert.Len(t, found, 4)

	var one domain.Ingredient
	require.Equal(t, http.StatusOK, getJSON(t, r, "/api/ingredients/"+strconv.FormatInt(ingredients[1].ID, 10), &one))
	assert.Equal(t, "salt", one.Name)
	assert.Equal(t, http.StatusNotFound, getJSON(t, r, "/api/ingredients/12345", nil))
}
