package api_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
)

type recipeFixture struct {
	*testAPI
	author, other, staff *models.User
	lunch, dinner        *models.Tag
	flour, egg           *models.Ingredient
}

func newRecipeFixture(t *testing.T) *recipeFixture {
	a := newTestAPI(t)
	return &recipeFixture{
		testAPI: a,
		author:  testhelpers.CreateUser(t, a.db, "author"),
		other:   testhelpers.CreateUser(t, a.db, "other"),
		staff:   testhelpers.CreateStaff(t, a.db, "staff"),
		lunch:   testhelpers.CreateTag(t, a.db, "Lunch", "lunch", "#E26C2D"),
		dinner:  testhelpers.CreateTag(t, a.db, "Dinner", "dinner", "#49B64E"),
		flour:   testhelpers.CreateIngredient(t, a.db, "Flour", "g"),
		egg:     testhelpers.CreateIngredient(t, a.db, "Egg", "pcs"),
	}
}

func (f *recipeFixture) body() map[string]any {
	return map[string]any{
		"ingredients":  []map[string]any{{"id": f.flour.ID, "amount": 2}, {"id": f.egg.ID, "amount": 1}},
		"tags":         []uint{f.lunch.ID},
		"name":         "Pancakes",
		"text":         "Mix and fry.",
		"cooking_time": 15,
	}
}

func TestRecipeCRUD(t *testing.T) {
	f := newRecipeFixture(t)
	token := f.token(f.author)

	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodPost, "/api/recipes", "", f.body()).Code)

	w := f.do(http.MethodPost, "/api/recipes", token, f.body())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[types.RecipeResponse](t, w)
	assert.Equal(t, "Pancakes", created.Name)
	assert.Equal(t, f.author.ID, created.Author.ID)
	assert.Len(t, created.Ingredients, 2)
	path := fmt.Sprintf("/api/recipes/%d", created.ID)

	w = f.do(http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	raw := decode[map[string]any](t, w)
	assert.Equal(t, false, raw["is_favorited"])
	assert.Equal(t, false, raw["is_in_shopping_cart"])

	update := f.body()
	update["name"] = "Crepes"
	update["tags"] = []uint{f.dinner.ID}
	assert.Equal(t, http.StatusForbidden, f.do(http.MethodPatch, path, f.token(f.other), update).Code)

	w = f.do(http.MethodPatch, path, token, update)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[types.RecipeResponse](t, w)
	assert.Equal(t, "Crepes", updated.Name)
	require.Len(t, updated.Tags, 1)
	assert.Equal(t, "dinner", updated.Tags[0].Slug)

	assert.Equal(t, http.StatusForbidden, f.do(http.MethodDelete, path, f.token(f.other), nil).Code)
	assert.Equal(t, http.StatusNoContent, f.do(http.MethodDelete, path, f.token(f.staff), nil).Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, path, "", nil).Code)
}

func TestRecipeCreateValidation(t *testing.T) {
	f := newRecipeFixture(t)
	token := f.token(f.author)

	body := f.body()
	body["ingredients"] = []map[string]any{}
	w := f.do(http.MethodPost, "/api/recipes", token, body)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "ingredients", decode[map[string]string](t, w)["field"])

	body = f.body()
	body["tags"] = []uint{f.lunch.ID, f.lunch.ID}
	w = f.do(http.MethodPost, "/api/recipes", token, body)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "tags", decode[map[string]string](t, w)["field"])

	body = f.body()
	body["image"] = "data:image/png;base64,iVBORw0KGgo="
	w = f.do(http.MethodPost, "/api/recipes", token, body)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "image", decode[map[string]string](t, w)["field"])

	body = f.body()
	body["cooking_time"] = 0
	w = f.do(http.MethodPost, "/api/recipes", token, body)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "cooking_time", decode[map[string]string](t, w)["field"])

	var n int64
	require.NoError(t, f.db.Model(&models.Recipe{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestRecipeListFilters(t *testing.T) {
	f := newRecipeFixture(t)
	r1 := testhelpers.CreateRecipe(t, f.db, f.author, "R1", []*models.Tag{f.lunch})
	r2 := testhelpers.CreateRecipe(t, f.db, f.other, "R2", []*models.Tag{f.dinner})
	testhelpers.CreateRecipe(t, f.db, f.other, "R3", nil)
	token := f.token(f.author)

	w := f.do(http.MethodGet, "/api/recipes?tags=lunch,dinner", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[types.Paginated[types.RecipeResponse]](t, w)
	assert.EqualValues(t, 2, page.Count)

	w = f.do(http.MethodGet, "/api/recipes?tags=lunch&tags=dinner", "", nil)
	assert.EqualValues(t, 2, decode[types.Paginated[types.RecipeResponse]](t, w).Count)

	w = f.do(http.MethodGet, fmt.Sprintf("/api/recipes?author=%d", f.author.ID), "", nil)
	page = decode[types.Paginated[types.RecipeResponse]](t, w)
	require.EqualValues(t, 1, page.Count)
	assert.Equal(t, r1.ID, page.Results[0].ID)

	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodGet, "/api/recipes?author=x", "", nil).Code)

	require.Equal(t, http.StatusCreated, f.do(http.MethodPost, fmt.Sprintf("/api/recipes/%d/favorite", r2.ID), token, nil).Code)
	w = f.do(http.MethodGet, "/api/recipes?is_favorited=1", token, nil)
	page = decode[types.Paginated[types.RecipeResponse]](t, w)
	require.EqualValues(t, 1, page.Count)
	assert.True(t, page.Results[0].IsFavorited)

	w = f.do(http.MethodGet, "/api/recipes?is_favorited=1", "", nil)
	assert.EqualValues(t, 3, decode[types.Paginated[types.RecipeResponse]](t, w).Count)

	w = f.do(http.MethodGet, "/api/recipes/favorites", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode[types.Paginated[types.RecipeResponse]](t, w).Count)
}

func TestFavoriteAndCartEndpoints(t *testing.T) {
	f := newRecipeFixture(t)
	r := testhelpers.CreateRecipe(t, f.db, f.author, "Soup", []*models.Tag{f.lunch})
	token := f.token(f.other)
	fav := fmt.Sprintf("/api/recipes/%d/favorite", r.ID)

	w := f.do(http.MethodPost, fav, token, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	short := decode[types.RecipeShort](t, w)
	assert.Equal(t, "Soup", short.Name)
	assert.Equal(t, 10, short.CookingTime)

	assert.Equal(t, http.StatusConflict, f.do(http.MethodPost, fav, token, nil).Code)
	assert.Equal(t, http.StatusNoContent, f.do(http.MethodDelete, fav, token, nil).Code)
	assert.Equal(t, http.StatusNoContent, f.do(http.MethodDelete, fav, token, nil).Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodPost, "/api/recipes/999/favorite", token, nil).Code)

	cart := fmt.Sprintf("/api/recipes/%d/shopping_cart", r.ID)
	assert.Equal(t, http.StatusCreated, f.do(http.MethodPost, cart, token, nil).Code)
	assert.Equal(t, http.StatusConflict, f.do(http.MethodPost, cart, token, nil).Code)
	assert.Equal(t, http.StatusNoContent, f.do(http.MethodDelete, cart, token, nil).Code)
}

func TestDownloadShoppingCart(t *testing.T) {
	f := newRecipeFixture(t)
	r1 := testhelpers.CreateRecipe(t, f.db, f.author, "R1", []*models.Tag{f.lunch},
		testhelpers.Item{Ingredient: f.flour, Amount: 2}, testhelpers.Item{Ingredient: f.egg, Amount: 1})
	r2 := testhelpers.CreateRecipe(t, f.db, f.author, "R2", []*models.Tag{f.lunch},
		testhelpers.Item{Ingredient: f.flour, Amount: 3})
	token := f.token(f.other)
	for _, r := range []*models.Recipe{r1, r2} {
		require.Equal(t, http.StatusCreated, f.do(http.MethodPost, fmt.Sprintf("/api/recipes/%d/shopping_cart", r.ID), token, nil).Code)
	}

	w := f.do(http.MethodGet, "/api/recipes/download_shopping_cart", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="shopping_list.txt"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "Egg - 1pcs\nFlour - 5g\n", w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/api/recipes/download_shopping_cart", "", nil).Code)
}
