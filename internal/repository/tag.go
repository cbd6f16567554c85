package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/models"
)

type GormTagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) *GormTagRepository {
	return &GormTagRepository{db: db}
}

func (r *GormTagRepository) List(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	err := r.db.WithContext(ctx).Order("id").Find(&tags).Error
	return tags, translateError(err)
}

func (r *GormTagRepository) FindByID(ctx context.Context, id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &tag, nil
}

// FindByIDs returns the existing tags among ids; unknown ids are skipped.
func (r *GormTagRepository) FindByIDs(ctx context.Context, ids []uint) ([]models.Tag, error) {
	var tags []models.Tag
	if len(ids) == 0 {
		return tags, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&tags).Error
	return tags, translateError(err)
}

func (r *GormTagRepository) Create(ctx context.Context, tag *models.Tag) error {
	return translateError(r.db.WithContext(ctx).Create(tag).Error)
}

func (r *GormTagRepository) Update(ctx context.Context, tag *models.Tag) error {
	return requireRows(r.db.WithContext(ctx).Model(&models.Tag{}).Where("id = ?", tag.ID).
		Updates(map[string]any{"name": tag.Name, "color": tag.Color, "slug": tag.Slug}))
}

// Delete removes the tag from every recipe before deleting it.
func (r *GormTagRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tag_id = ?", id).Delete(&models.RecipeTag{}).Error; err != nil {
			return translateError(err)
		}
		return requireRows(tx.Delete(&models.Tag{}, id))
	})
}
