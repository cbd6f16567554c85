package api_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func TestTagEndpoints(t *testing.T) {
	a := newTestAPI(t)
	staff := a.token(testhelpers.CreateStaff(t, a.db, "staff"))
	user := a.token(testhelpers.CreateUser(t, a.db, "user"))
	body := map[string]string{"name": "Breakfast", "color": "#E26C2D", "slug": "breakfast"}

	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodPost, "/api/tags", "", body).Code)
	assert.Equal(t, http.StatusForbidden, a.do(http.MethodPost, "/api/tags", user, body).Code)

	w := a.do(http.MethodPost, "/api/tags", staff, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	tag := decode[models.Tag](t, w)
	assert.Equal(t, http.StatusConflict, a.do(http.MethodPost, "/api/tags", staff, body).Code)

	w = a.do(http.MethodPost, "/api/tags", staff, map[string]string{"name": "Bad", "color": "#12345", "slug": "bad"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "color", decode[map[string]string](t, w)["field"])

	w = a.do(http.MethodGet, "/api/tags", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Tag](t, w), 1)

	path := fmt.Sprintf("/api/tags/%d", tag.ID)
	w = a.do(http.MethodPatch, path, staff, map[string]string{"name": "Brunch", "color": "#abc", "slug": "brunch"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "brunch", decode[models.Tag](t, w).Slug)

	assert.Equal(t, http.StatusNoContent, a.do(http.MethodDelete, path, staff, nil).Code)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, path, "", nil).Code)
}

func TestIngredientEndpoints(t *testing.T) {
	a := newTestAPI(t)
	staff := a.token(testhelpers.CreateStaff(t, a.db, "staff"))
	author := testhelpers.CreateUser(t, a.db, "author")
	flour := testhelpers.CreateIngredient(t, a.db, "Flour", "g")
	testhelpers.CreateIngredient(t, a.db, "flax", "g")
	salt := testhelpers.CreateIngredient(t, a.db, "Salt", "g")
	testhelpers.CreateRecipe(t, a.db, author, "Bread", nil, testhelpers.Item{Ingredient: flour, Amount: 500})

	w := a.do(http.MethodGet, "/api/ingredients?name=Fl", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	found := decode[[]models.Ingredient](t, w)
	require.Len(t, found, 1)
	assert.Equal(t, "Flour", found[0].Name)

	w = a.do(http.MethodGet, "/api/ingredients", "", nil)
	assert.Len(t, decode[[]models.Ingredient](t, w), 3)

	w = a.do(http.MethodDelete, fmt.Sprintf("/api/ingredients/%d", flour.ID), staff, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, http.StatusNoContent, a.do(http.MethodDelete, fmt.Sprintf("/api/ingredients/%d", salt.ID), staff, nil).Code)

	w = a.do(http.MethodPost, "/api/ingredients", staff, map[string]string{"name": "Sugar", "measurement_unit": "g"})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	a := newTestAPI(t)
	w := a.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy","database":"ok"}`, w.Body.String())

	w = a.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "foodgram_api_requests_total")

	w = a.do(http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"not found"}`, w.Body.String())
}
