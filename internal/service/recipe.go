package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pageza/foodgram/backend/internal/errs"
	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/metrics"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/repository"
	"github.com/pageza/foodgram/backend/internal/storage"
	"github.com/pageza/foodgram/backend/internal/types"
	"github.com/pageza/foodgram/backend/internal/validation"
)

// RecipeQuery holds the list filters of GET /recipes. The two flags only
// apply to authenticated callers.
type RecipeQuery struct {
	AuthorID         *uint
	Tags             []string
	IsFavorited      bool
	IsInShoppingCart bool
}

// RecipeService handles recipes together with the caller's favorites and
// shopping cart.
type RecipeService struct {
	recipes     repository.RecipeRepository
	tags        repository.TagRepository
	ingredients repository.IngredientRepository
	favorites   repository.LinkRepository
	cart        repository.LinkRepository
	subs        repository.SubscriptionRepository
	images      storage.ImageStore
	now         func() time.Time
}

func NewRecipeService(repos *repository.Set, images storage.ImageStore) *RecipeService {
	return &RecipeService{
		recipes:     repos.Recipes,
		tags:        repos.Tags,
		ingredients: repos.Ingredients,
		favorites:   repos.Favorites,
		cart:        repos.ShoppingCart,
		subs:        repos.Subscriptions,
		images:      images,
		now:         time.Now,
	}
}

func (s *RecipeService) List(ctx context.Context, caller types.Caller, query RecipeQuery, page types.Page) ([]types.RecipeResponse, int64, error) {
	filter := repository.RecipeFilter{AuthorID: query.AuthorID, TagSlugs: query.Tags}
	if caller.IsAuthenticated() {
		if query.IsFavorited {
			filter.FavoritedBy = &caller.UserID
		}
		if query.IsInShoppingCart {
			filter.InCartOf = &caller.UserID
		}
	}
	return s.list(ctx, caller, filter, page)
}

// Favorites lists the recipes the caller has favorited.
func (s *RecipeService) Favorites(ctx context.Context, caller types.Caller, page types.Page) ([]types.RecipeResponse, int64, error) {
	if err := requireAuth(caller); err != nil {
		return nil, 0, err
	}
	return s.list(ctx, caller, repository.RecipeFilter{FavoritedBy: &caller.UserID}, page)
}

func (s *RecipeService) list(ctx context.Context, caller types.Caller, filter repository.RecipeFilter, page types.Page) ([]types.RecipeResponse, int64, error) {
	recipes, total, err := s.recipes.List(ctx, filter, page)
	if err != nil {
		return nil, 0, fmt.Errorf("list recipes: %w", err)
	}
	out, err := s.project(ctx, caller, recipes)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (s *RecipeService) Get(ctx context.Context, caller types.Caller, id uint) (*types.RecipeResponse, error) {
	recipe, err := s.recipes.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get recipe %d: %w", id, err)
	}
	out, err := s.project(ctx, caller, []models.Recipe{*recipe})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

func (s *RecipeService) Create(ctx context.Context, caller types.Caller, req types.RecipeWriteRequest) (*types.RecipeResponse, error) {
	if err := requireAuth(caller); err != nil {
		return nil, err
	}
	tagIDs, items, err := s.validateWrite(ctx, req)
	if err != nil {
		return nil, err
	}

	var image string
	if req.Image != "" {
		if image, err = storage.SaveDataURI(ctx, s.images, req.Image); err != nil {
			return nil, err
		}
	}

	authorID := caller.UserID
	recipe := &models.Recipe{
		AuthorID:    &authorID,
		Name:        req.Name,
		Text:        req.Text,
		Image:       image,
		CookingTime: req.CookingTime,
		PubDate:     s.now().UTC(),
	}
	if err := s.recipes.Create(ctx, recipe, tagIDs, items); err != nil {
		s.discardImage(ctx, image)
		return nil, fmt.Errorf("create recipe: %w", err)
	}
	metrics.RecipeWritten("create")
	logging.Ctx(ctx).Info().Uint("recipe_id", recipe.ID).Uint("author_id", authorID).Msg("recipe created")
	return s.Get(ctx, caller, recipe.ID)
}

// Update replaces every field and association of the recipe. An empty image
// keeps the current one.
func (s *RecipeService) Update(ctx context.Context, caller types.Caller, id uint, req types.RecipeWriteRequest) (*types.RecipeResponse, error) {
	if err := requireAuth(caller); err != nil {
		return nil, err
	}
	recipe, err := s.recipes.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update recipe %d: %w", id, err)
	}
	if err := canModify(caller, recipe); err != nil {
		return nil, err
	}
	tagIDs, items, err := s.validateWrite(ctx, req)
	if err != nil {
		return nil, err
	}

	oldImage := recipe.Image
	if req.Image != "" {
		if recipe.Image, err = storage.SaveDataURI(ctx, s.images, req.Image); err != nil {
			return nil, err
		}
	}
	recipe.Name = req.Name
	recipe.Text = req.Text
	recipe.CookingTime = req.CookingTime
	if err := s.recipes.Update(ctx, recipe, tagIDs, items); err != nil {
		if recipe.Image != oldImage {
			s.discardImage(ctx, recipe.Image)
		}
		return nil, fmt.Errorf("update recipe %d: %w", id, err)
	}
	if recipe.Image != oldImage {
		s.discardImage(ctx, oldImage)
	}
	metrics.RecipeWritten("update")
	return s.Get(ctx, caller, id)
}

func (s *RecipeService) Delete(ctx context.Context, caller types.Caller, id uint) error {
	if err := requireAuth(caller); err != nil {
		return err
	}
	recipe, err := s.recipes.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("delete recipe %d: %w", id, err)
	}
	if err := canModify(caller, recipe); err != nil {
		return err
	}
	if err := s.recipes.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete recipe %d: %w", id, err)
	}
	s.discardImage(ctx, recipe.Image)
	metrics.RecipeWritten("delete")
	logging.Ctx(ctx).Info().Uint("recipe_id", id).Msg("recipe deleted")
	return nil
}

// validateWrite checks the request and returns the tag ids and ingredient
// rows to store.
func (s *RecipeService) validateWrite(ctx context.Context, req types.RecipeWriteRequest) ([]uint, []models.RecipeIngredient, error) {
	if err := validation.Struct(req); err != nil {
		return nil, nil, err
	}

	ingredientIDs := make([]uint, 0, len(req.Ingredients))
	seen := make(map[uint]bool, len(req.Ingredients))
	for _, it := range req.Ingredients {
		if seen[it.ID] {
			return nil, nil, errs.Invalid("ingredients", "ingredient %d is listed more than once", it.ID)
		}
		seen[it.ID] = true
		ingredientIDs = append(ingredientIDs, it.ID)
	}
	found, err := s.ingredients.FindByIDs(ctx, ingredientIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("load ingredients: %w", err)
	}
	if missing := missingID(ingredientIDs, found, func(i models.Ingredient) uint { return i.ID }); missing != 0 {
		return nil, nil, errs.Invalid("ingredients", "ingredient %d does not exist", missing)
	}

	tagSeen := make(map[uint]bool, len(req.Tags))
	for _, id := range req.Tags {
		if tagSeen[id] {
			return nil, nil, errs.Invalid("tags", "tag %d is listed more than once", id)
		}
		tagSeen[id] = true
	}
	tags, err := s.tags.FindByIDs(ctx, req.Tags)
	if err != nil {
		return nil, nil, fmt.Errorf("load tags: %w", err)
	}
	if missing := missingID(req.Tags, tags, func(t models.Tag) uint { return t.ID }); missing != 0 {
		return nil, nil, errs.Invalid("tags", "tag %d does not exist", missing)
	}

	items := make([]models.RecipeIngredient, len(req.Ingredients))
	for i, it := range req.Ingredients {
		items[i] = models.RecipeIngredient{IngredientID: it.ID, Amount: it.Amount}
	}
	return req.Tags, items, nil
}

// missingID returns the first of want absent from got, or 0.
func missingID[T any](want []uint, got []T, id func(T) uint) uint {
	present := make(map[uint]bool, len(got))
	for _, g := range got {
		present[id(g)] = true
	}
	for _, w := range want {
		if !present[w] {
			return w
		}
	}
	return 0
}

func (s *RecipeService) discardImage(ctx context.Context, ref string) {
	if ref == "" || s.images == nil {
		return
	}
	if err := s.images.Delete(ctx, ref); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("image", ref).Msg("failed to delete recipe image")
	}
}

// project builds read projections for recipes, loading the caller's
// favorite, cart and subscription flags in one query each.
func (s *RecipeService) project(ctx context.Context, caller types.Caller, recipes []models.Recipe) ([]types.RecipeResponse, error) {
	recipeIDs := make([]uint, len(recipes))
	authorIDs := make([]uint, 0, len(recipes))
	for i := range recipes {
		recipeIDs[i] = recipes[i].ID
		if recipes[i].AuthorID != nil {
			authorIDs = append(authorIDs, *recipes[i].AuthorID)
		}
	}

	favorited, err := s.favorites.LinkedAmong(ctx, caller.UserID, recipeIDs)
	if err != nil {
		return nil, fmt.Errorf("load favorites: %w", err)
	}
	inCart, err := s.cart.LinkedAmong(ctx, caller.UserID, recipeIDs)
	if err != nil {
		return nil, fmt.Errorf("load shopping cart: %w", err)
	}
	followed, err := s.subs.FollowedAmong(ctx, caller.UserID, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("load subscriptions: %w", err)
	}

	out := make([]types.RecipeResponse, len(recipes))
	for i := range recipes {
		r := &recipes[i]
		resp := types.RecipeResponse{
			ID:               r.ID,
			Tags:             r.Tags,
			Ingredients:      make([]types.RecipeIngredientResponse, 0, len(r.Ingredients)),
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: inCart[r.ID],
			Name:             r.Name,
			Image:            r.Image,
			Text:             r.Text,
			CookingTime:      r.CookingTime,
			PubDate:          r.PubDate,
		}
		if resp.Tags == nil {
			resp.Tags = []models.Tag{}
		}
		if r.Author != nil {
			author := types.NewUserResponse(r.Author, followed[r.Author.ID])
			resp.Author = &author
		}
		for _, ri := range r.Ingredients {
			item := types.RecipeIngredientResponse{ID: ri.IngredientID, Amount: ri.Amount}
			if ri.Ingredient != nil {
				item.Name = ri.Ingredient.Name
				item.MeasurementUnit = ri.Ingredient.MeasurementUnit
			}
			resp.Ingredients = append(resp.Ingredients, item)
		}
		out[i] = resp
	}
	return out, nil
}

func (s *RecipeService) AddFavorite(ctx context.Context, caller types.Caller, recipeID uint) (*types.RecipeShort, error) {
	return s.addLink(ctx, caller, recipeID, s.favorites, "favorites")
}

func (s *RecipeService) RemoveFavorite(ctx context.Context, caller types.Caller, recipeID uint) error {
	return s.removeLink(ctx, caller, recipeID, s.favorites)
}

func (s *RecipeService) AddToCart(ctx context.Context, caller types.Caller, recipeID uint) (*types.RecipeShort, error) {
	return s.addLink(ctx, caller, recipeID, s.cart, "shopping cart")
}

func (s *RecipeService) RemoveFromCart(ctx context.Context, caller types.Caller, recipeID uint) error {
	return s.removeLink(ctx, caller, recipeID, s.cart)
}

func (s *RecipeService) addLink(ctx context.Context, caller types.Caller, recipeID uint, links repository.LinkRepository, what string) (*types.RecipeShort, error) {
	if err := requireAuth(caller); err != nil {
		return nil, err
	}
	recipe, err := s.recipes.FindByID(ctx, recipeID)
	if err != nil {
		return nil, fmt.Errorf("recipe %d: %w", recipeID, err)
	}
	if err := links.Add(ctx, caller.UserID, recipeID); err != nil {
		return nil, fmt.Errorf("add recipe %d to %s: %w", recipeID, what, err)
	}
	short := types.NewRecipeShort(recipe)
	return &short, nil
}

func (s *RecipeService) removeLink(ctx context.Context, caller types.Caller, recipeID uint, links repository.LinkRepository) error {
	if err := requireAuth(caller); err != nil {
		return err
	}
	if _, err := s.recipes.FindByID(ctx, recipeID); err != nil {
		return fmt.Errorf("recipe %d: %w", recipeID, err)
	}
	return links.Remove(ctx, caller.UserID, recipeID)
}

// ShoppingList sums the ingredients of every recipe in the caller's cart.
func (s *RecipeService) ShoppingList(ctx context.Context, caller types.Caller) ([]types.ShoppingListItem, error) {
	if err := requireAuth(caller); err != nil {
		return nil, err
	}
	items, err := s.recipes.ShoppingList(ctx, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("shopping list: %w", err)
	}
	return items, nil
}

// RenderShoppingList formats one "<name> - <amount><unit>" line per item.
func RenderShoppingList(items []types.ShoppingListItem) string {
	var b strings.Builder
	for _, it := range items {
		fmt.Fprintf(&b, "%s - %d%s\n", it.Name, it.Amount, it.MeasurementUnit)
	}
	return b.String()
}
