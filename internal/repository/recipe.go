package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

const shoppingListQuery = `
SELECT ingredients.name AS name,
       ingredients.measurement_unit AS measurement_unit,
       CAST(SUM(recipe_ingredients.amount) AS BIGINT) AS amount
FROM shopping_carts
JOIN recipe_ingredients ON recipe_ingredients.recipe_id = shopping_carts.recipe_id
JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id
WHERE shopping_carts.user_id = ?
GROUP BY ingredients.name, ingredients.measurement_unit
ORDER BY ingredients.name, ingredients.measurement_unit`

type GormRecipeRepository struct {
	db *gorm.DB
}

func NewRecipeRepository(db *gorm.DB) *GormRecipeRepository {
	return &GormRecipeRepository{db: db}
}

func withDetails(q *gorm.DB) *gorm.DB {
	return q.Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.id") }).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("recipe_ingredients.id") }).
		Preload("Ingredients.Ingredient")
}

// applyFilter uses subqueries so a recipe matching several tags is returned
// once.
func applyFilter(q *gorm.DB, f RecipeFilter) *gorm.DB {
	if f.AuthorID != nil {
		q = q.Where("recipes.author_id = ?", *f.AuthorID)
	}
	if len(f.TagSlugs) > 0 {
		q = q.Where(`recipes.id IN (SELECT recipe_tags.recipe_id FROM recipe_tags
			JOIN tags ON tags.id = recipe_tags.tag_id WHERE tags.slug IN ?)`, f.TagSlugs)
	}
	if f.FavoritedBy != nil {
		q = q.Where("recipes.id IN (SELECT recipe_id FROM favorites WHERE user_id = ?)", *f.FavoritedBy)
	}
	if f.InCartOf != nil {
		q = q.Where("recipes.id IN (SELECT recipe_id FROM shopping_carts WHERE user_id = ?)", *f.InCartOf)
	}
	return q
}

// List returns one page of recipes, newest first, and the total match count.
func (r *GormRecipeRepository) List(ctx context.Context, f RecipeFilter, page types.Page) ([]models.Recipe, int64, error) {
	filtered := func() *gorm.DB {
		return applyFilter(r.db.WithContext(ctx).Model(&models.Recipe{}), f)
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}

	var recipes []models.Recipe
	err := withDetails(filtered()).
		Order("recipes.pub_date DESC").Order("recipes.id DESC").
		Limit(page.Limit).Offset(page.Offset()).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, translateError(err)
	}
	return recipes, total, nil
}

func (r *GormRecipeRepository) FindByID(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := withDetails(r.db.WithContext(ctx)).First(&recipe, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &recipe, nil
}

func (r *GormRecipeRepository) Create(ctx context.Context, recipe *models.Recipe, tagIDs []uint, items []models.RecipeIngredient) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
			return translateError(err)
		}
		return replaceAssociations(tx, recipe.ID, tagIDs, items)
	})
}

// Update leaves pub_date and author untouched.
func (r *GormRecipeRepository) Update(ctx context.Context, recipe *models.Recipe, tagIDs []uint, items []models.RecipeIngredient) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Recipe{}).Where("id = ?", recipe.ID).Updates(map[string]any{
			"name":         recipe.Name,
			"text":         recipe.Text,
			"image":        recipe.Image,
			"cooking_time": recipe.CookingTime,
		})
		if err := requireRows(res); err != nil {
			return err
		}
		return replaceAssociations(tx, recipe.ID, tagIDs, items)
	})
}

// replaceAssociations clears and rebuilds the tag and ingredient sets of a
// recipe inside tx.
func replaceAssociations(tx *gorm.DB, recipeID uint, tagIDs []uint, items []models.RecipeIngredient) error {
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeTag{}).Error; err != nil {
		return translateError(err)
	}
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeIngredient{}).Error; err != nil {
		return translateError(err)
	}

	if len(tagIDs) > 0 {
		rows := make([]models.RecipeTag, 0, len(tagIDs))
		for _, id := range tagIDs {
			rows = append(rows, models.RecipeTag{RecipeID: recipeID, TagID: id})
		}
		if err := tx.Create(&rows).Error; err != nil {
			return translateError(err)
		}
	}

	if len(items) > 0 {
		rows := make([]models.RecipeIngredient, 0, len(items))
		for _, it := range items {
			rows = append(rows, models.RecipeIngredient{
				RecipeID:     recipeID,
				IngredientID: it.IngredientID,
				Amount:       it.Amount,
			})
		}
		if err := tx.Omit(clause.Associations).Create(&rows).Error; err != nil {
			return translateError(err)
		}
	}
	return nil
}

// Delete removes the recipe together with its tags, ingredients, favorites
// and cart entries.
func (r *GormRecipeRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{&models.RecipeTag{}, &models.RecipeIngredient{}, &models.Favorite{}, &models.ShoppingCart{}} {
			if err := tx.Where("recipe_id = ?", id).Delete(model).Error; err != nil {
				return translateError(err)
			}
		}
		return requireRows(tx.Delete(&models.Recipe{}, id))
	})
}

// ListByAuthor returns the newest recipes of an author. limit <= 0 returns
// all of them.
func (r *GormRecipeRepository) ListByAuthor(ctx context.Context, authorID uint, limit int) ([]models.Recipe, error) {
	q := r.db.WithContext(ctx).Where("author_id = ?", authorID).
		Order("pub_date DESC").Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var recipes []models.Recipe
	err := q.Find(&recipes).Error
	return recipes, translateError(err)
}

func (r *GormRecipeRepository) CountByAuthors(ctx context.Context, authorIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		AuthorID uint
		Total    int64
	}
	err := r.db.WithContext(ctx).Model(&models.Recipe{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error
	if err != nil {
		return nil, translateError(err)
	}
	for _, row := range rows {
		counts[row.AuthorID] = row.Total
	}
	return counts, nil
}

// ShoppingList sums the ingredient amounts of every recipe in the user's
// cart, grouped by name and measurement unit.
func (r *GormRecipeRepository) ShoppingList(ctx context.Context, userID uint) ([]types.ShoppingListItem, error) {
	var items []types.ShoppingListItem
	err := r.db.WithContext(ctx).Raw(shoppingListQuery, userID).Scan(&items).Error
	if err != nil {
		return nil, translateError(err)
	}
	return items, nil
}
