package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

type GormSubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *GormSubscriptionRepository {
	return &GormSubscriptionRepository{db: db}
}

// Create relies on idx_subscribe_user_following to reject duplicates.
func (r *GormSubscriptionRepository) Create(ctx context.Context, userID, followingID uint) error {
	sub := models.Subscribe{UserID: userID, FollowingID: followingID}
	return translateError(r.db.WithContext(ctx).Omit(clause.Associations).Create(&sub).Error)
}

func (r *GormSubscriptionRepository) Delete(ctx context.Context, userID, followingID uint) error {
	return translateError(r.db.WithContext(ctx).
		Where("user_id = ? AND following_id = ?", userID, followingID).
		Delete(&models.Subscribe{}).Error)
}

// FollowedAmong reports which of ids userID follows.
func (r *GormSubscriptionRepository) FollowedAmong(ctx context.Context, userID uint, ids []uint) (map[uint]bool, error) {
	followed := make(map[uint]bool)
	if userID == 0 || len(ids) == 0 {
		return followed, nil
	}
	var found []uint
	err := r.db.WithContext(ctx).Model(&models.Subscribe{}).
		Where("user_id = ? AND following_id IN ?", userID, ids).
		Pluck("following_id", &found).Error
	if err != nil {
		return nil, translateError(err)
	}
	for _, id := range found {
		followed[id] = true
	}
	return followed, nil
}

// ListFollowing pages through the users userID follows, ordered by id.
func (r *GormSubscriptionRepository) ListFollowing(ctx context.Context, userID uint, page types.Page) ([]models.User, int64, error) {
	following := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&models.User{}).
			Joins("JOIN subscriptions ON subscriptions.following_id = users.id").
			Where("subscriptions.user_id = ?", userID)
	}

	var total int64
	if err := following().Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}
	var users []models.User
	err := following().Select("users.*").Order("users.id").
		Limit(page.Limit).Offset(page.Offset()).Find(&users).Error
	if err != nil {
		return nil, 0, translateError(err)
	}
	return users, total, nil
}
