package repository

import (
	"context"
	"fmt"

	"MuseFM/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FavoriteRepository defines the interface for per-user favorites.
type FavoriteRepository interface {
	FindByUserID(ctx context.Context, userID string) ([]*model.Favorite, error)
	Upsert(ctx context.Context, favorite *model.Favorite) (*model.Favorite, error)
	Remove(ctx context.Context, userID, audioID string) error
}

// gormFavoriteRepository implements FavoriteRepository with GORM.
type gormFavoriteRepository struct {
	db *gorm.DB
}

// NewGormFavoriteRepository creates a GORM favorite repository.
func NewGormFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &gormFavoriteRepository{db: db}
}

// FindByUserID returns one user's favorites, newest first.
func (r *gormFavoriteRepository) FindByUserID(ctx context.Context, userID string) ([]*model.Favorite, error) {
	var list []*model.Favorite
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

// Upsert inserts a favorite or, when the (userId, audioId) pair already
// exists, overwrites its snapshot fields in place. The conflict resolution
// runs in the database, so concurrent favoriting of the same pair never
// creates duplicates.
func (r *gormFavoriteRepository) Upsert(ctx context.Context, favorite *model.Favorite) (*model.Favorite, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "audio_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "category", "duration", "audio_url"}),
		}).
		Create(favorite).Error
	if err != nil {
		return nil, fmt.Errorf("failed to upsert favorite (%s, %s): %w", favorite.UserID, favorite.AudioID, err)
	}

	var saved model.Favorite
	err = r.db.WithContext(ctx).
		Where("user_id = ? AND audio_id = ?", favorite.UserID, favorite.AudioID).
		First(&saved).Error
	if err != nil {
		return nil, fmt.Errorf("failed to reload favorite (%s, %s): %w", favorite.UserID, favorite.AudioID, err)
	}
	return &saved, nil
}

// Remove deletes one user's favorite. Removing a favorite that does not
// exist is not an error.
func (r *gormFavoriteRepository) Remove(ctx context.Context, userID, audioID string) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND audio_id = ?", userID, audioID).
		Delete(&model.Favorite{}).Error
	if err != nil {
		return fmt.Errorf("failed to remove favorite (%s, %s): %w", userID, audioID, err)
	}
	return nil
}
