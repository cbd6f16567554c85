package repository

import (
	"context"
	"fmt"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/errs"
	"github.com/pageza/foodgram/backend/internal/models"
)

const importBatchSize = 500

type GormIngredientRepository struct {
	db *gorm.DB
}

func NewIngredientRepository(db *gorm.DB) *GormIngredientRepository {
	return &GormIngredientRepository{db: db}
}

// List orders by name. The prefix comparison uses SUBSTR because LIKE is
// case-insensitive on SQLite.
func (r *GormIngredientRepository) List(ctx context.Context, filter IngredientFilter) ([]models.Ingredient, error) {
	q := r.db.WithContext(ctx).Model(&models.Ingredient{})
	if filter.NamePrefix != "" {
		q = q.Where("SUBSTR(name, 1, ?) = ?", utf8.RuneCountInString(filter.NamePrefix), filter.NamePrefix)
	}
	var ingredients []models.Ingredient
	err := q.Order("name").Order("id").Find(&ingredients).Error
	return ingredients, translateError(err)
}

func (r *GormIngredientRepository) FindByID(ctx context.Context, id uint) (*models.Ingredient, error) {
	var ing models.Ingredient
	if err := r.db.WithContext(ctx).First(&ing, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &ing, nil
}

func (r *GormIngredientRepository) FindByIDs(ctx context.Context, ids []uint) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	if len(ids) == 0 {
		return ingredients, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&ingredients).Error
	return ingredients, translateError(err)
}

func (r *GormIngredientRepository) Create(ctx context.Context, ingredient *models.Ingredient) error {
	return translateError(r.db.WithContext(ctx).Create(ingredient).Error)
}

// CreateBatch inserts ingredients in chunks and returns how many were written.
func (r *GormIngredientRepository) CreateBatch(ctx context.Context, ingredients []models.Ingredient) (int, error) {
	if len(ingredients) == 0 {
		return 0, nil
	}
	if err := r.db.WithContext(ctx).CreateInBatches(&ingredients, importBatchSize).Error; err != nil {
		return 0, translateError(err)
	}
	return len(ingredients), nil
}

func (r *GormIngredientRepository) Update(ctx context.Context, ingredient *models.Ingredient) error {
	return requireRows(r.db.WithContext(ctx).Model(&models.Ingredient{}).Where("id = ?", ingredient.ID).
		Updates(map[string]any{"name": ingredient.Name, "measurement_unit": ingredient.MeasurementUnit}))
}

// Delete fails with errs.ErrInUse while any recipe references the ingredient.
func (r *GormIngredientRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var refs int64
		if err := tx.Model(&models.RecipeIngredient{}).Where("ingredient_id = ?", id).Count(&refs).Error; err != nil {
			return translateError(err)
		}
		if refs > 0 {
			return fmt.Errorf("%w: ingredient %d is used by %d recipe(s)", errs.ErrInUse, id, refs)
		}
		return requireRows(tx.Delete(&models.Ingredient{}, id))
	})
}
