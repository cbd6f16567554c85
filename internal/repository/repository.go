// Package repository is the storage boundary of the service. Every
// implementation is backed by gorm and returns errs sentinels for missing
// rows and constraint violations.
package repository

import (
	"context"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

// RecipeFilter narrows recipe listings. Nil and empty fields do not filter.
// Tag slugs are OR-ed.
type RecipeFilter struct {
	AuthorID    *uint
	TagSlugs    []string
	FavoritedBy *uint
	InCartOf    *uint
}

// IngredientFilter matches ingredients whose name starts with NamePrefix,
// case-sensitively.
type IngredientFilter struct {
	NamePrefix string
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context, page types.Page) ([]models.User, int64, error)
	UpdatePassword(ctx context.Context, id uint, passwordHash string) error
}

type SubscriptionRepository interface {
	Create(ctx context.Context, userID, followingID uint) error
	Delete(ctx context.Context, userID, followingID uint) error
	FollowedAmong(ctx context.Context, userID uint, ids []uint) (map[uint]bool, error)
	ListFollowing(ctx context.Context, userID uint, page types.Page) ([]models.User, int64, error)
}

type TagRepository interface {
	List(ctx context.Context) ([]models.Tag, error)
	FindByID(ctx context.Context, id uint) (*models.Tag, error)
	FindByIDs(ctx context.Context, ids []uint) ([]models.Tag, error)
	Create(ctx context.Context, tag *models.Tag) error
	Update(ctx context.Context, tag *models.Tag) error
	Delete(ctx context.Context, id uint) error
}

type IngredientRepository interface {
	List(ctx context.Context, filter IngredientFilter) ([]models.Ingredient, error)
	FindByID(ctx context.Context, id uint) (*models.Ingredient, error)
	FindByIDs(ctx context.Context, ids []uint) ([]models.Ingredient, error)
	Create(ctx context.Context, ingredient *models.Ingredient) error
	CreateBatch(ctx context.Context, ingredients []models.Ingredient) (int, error)
	Update(ctx context.Context, ingredient *models.Ingredient) error
	Delete(ctx context.Context, id uint) error
}

type RecipeRepository interface {
	List(ctx context.Context, filter RecipeFilter, page types.Page) ([]models.Recipe, int64, error)
	FindByID(ctx context.Context, id uint) (*models.Recipe, error)
	// Create and Update write the recipe row, its tag set and its ingredient
	// set in one transaction. Existing associations are replaced.
	Create(ctx context.Context, recipe *models.Recipe, tagIDs []uint, items []models.RecipeIngredient) error
	Update(ctx context.Context, recipe *models.Recipe, tagIDs []uint, items []models.RecipeIngredient) error
	Delete(ctx context.Context, id uint) error
	ListByAuthor(ctx context.Context, authorID uint, limit int) ([]models.Recipe, error)
	CountByAuthors(ctx context.Context, authorIDs []uint) (map[uint]int64, error)
	ShoppingList(ctx context.Context, userID uint) ([]types.ShoppingListItem, error)
}

// LinkRepository stores a set of (user, recipe) pairs such as favorites or
// a shopping cart.
type LinkRepository interface {
	Add(ctx context.Context, userID, recipeID uint) error
	// Remove succeeds when the pair does not exist.
	Remove(ctx context.Context, userID, recipeID uint) error
	LinkedAmong(ctx context.Context, userID uint, recipeIDs []uint) (map[uint]bool, error)
}
