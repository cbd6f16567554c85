package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/foodgram/backend/internal/models"
)

// GormLinkRepository stores (user, recipe) pairs in the table of T.
type GormLinkRepository[T any] struct {
	db      *gorm.DB
	newLink func(userID, recipeID uint) *T
}

func NewFavoriteRepository(db *gorm.DB) *GormLinkRepository[models.Favorite] {
	return &GormLinkRepository[models.Favorite]{
		db: db,
		newLink: func(userID, recipeID uint) *models.Favorite {
			return &models.Favorite{UserID: userID, RecipeID: recipeID}
		},
	}
}

func NewShoppingCartRepository(db *gorm.DB) *GormLinkRepository[models.ShoppingCart] {
	return &GormLinkRepository[models.ShoppingCart]{
		db: db,
		newLink: func(userID, recipeID uint) *models.ShoppingCart {
			return &models.ShoppingCart{UserID: userID, RecipeID: recipeID}
		},
	}
}

// Add relies on the table's unique (user_id, recipe_id) index, so concurrent
// duplicates yield exactly one row and errs.ErrAlreadyExists for the rest.
func (r *GormLinkRepository[T]) Add(ctx context.Context, userID, recipeID uint) error {
	return translateError(r.db.WithContext(ctx).Omit(clause.Associations).Create(r.newLink(userID, recipeID)).Error)
}

func (r *GormLinkRepository[T]) Remove(ctx context.Context, userID, recipeID uint) error {
	return translateError(r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(new(T)).Error)
}

func (r *GormLinkRepository[T]) LinkedAmong(ctx context.Context, userID uint, recipeIDs []uint) (map[uint]bool, error) {
	linked := make(map[uint]bool)
	if userID == 0 || len(recipeIDs) == 0 {
		return linked, nil
	}
	var found []uint
	err := r.db.WithContext(ctx).Model(new(T)).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &found).Error
	if err != nil {
		return nil, translateError(err)
	}
	for _, id := range found {
		linked[id] = true
	}
	return linked, nil
}
