package repository

import (
	"context"
	"fmt"

	"MuseFM/model"

	"gorm.io/gorm"
)

// MusicRepository defines the interface for music catalog operations.
type MusicRepository interface {
	Create(ctx context.Context, music *model.Music) error
	FindAll(ctx context.Context) ([]*model.Music, error)
	FindByCategory(ctx context.Context, category string) ([]*model.Music, error)
	FindTrending(ctx context.Context) ([]*model.Music, error)
	IncrementLikes(ctx context.Context, id string) (*model.Music, error)
	Delete(ctx context.Context, id string) (*model.Music, error)
}

// gormMusicRepository implements MusicRepository with GORM.
type gormMusicRepository struct {
	db *gorm.DB
}

// NewGormMusicRepository creates a GORM music repository.
func NewGormMusicRepository(db *gorm.DB) MusicRepository {
	return &gormMusicRepository{db: db}
}

// Create inserts a new music record. The ID is generated when empty.
func (r *gormMusicRepository) Create(ctx context.Context, music *model.Music) error {
	if music.ID == "" {
		music.ID = model.NewID()
	}
	if music.Tags == nil {
		music.Tags = []string{}
	}
	return r.db.WithContext(ctx).Create(music).Error
}

// FindAll returns the whole catalog, newest first.
func (r *gormMusicRepository) FindAll(ctx context.Context) ([]*model.Music, error) {
	var list []*model.Music
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

// FindByCategory returns music with an exactly matching category, newest
// first. Unlike the audio search this is not a relaxed pattern match.
func (r *gormMusicRepository) FindByCategory(ctx context.Context, category string) ([]*model.Music, error) {
	var list []*model.Music
	err := r.db.WithContext(ctx).
		Where("category = ?", category).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

// FindTrending returns the catalog sorted by like count descending, newest
// first as tiebreak.
func (r *gormMusicRepository) FindTrending(ctx context.Context) ([]*model.Music, error) {
	var list []*model.Music
	err := r.db.WithContext(ctx).
		Order("likes DESC, created_at DESC").
		Find(&list).Error
	return list, err
}

// IncrementLikes atomically bumps the like counter by one and returns the
// updated record, or (nil, nil) when no such record exists. The increment
// happens in SQL so concurrent likes never lose updates.
func (r *gormMusicRepository) IncrementLikes(ctx context.Context, id string) (*model.Music, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Music{}).
		Where("id = ?", id).
		UpdateColumn("likes", gorm.Expr("likes + ?", 1))
	if res.Error != nil {
		return nil, fmt.Errorf("failed to increment likes for music %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil // Music not found
	}

	var music model.Music
	if err := r.db.WithContext(ctx).First(&music, "id = ?", id).Error; err != nil {
		// The record can be deleted between the increment and the reload.
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to reload music %s after like: %w", id, err)
	}
	return &music, nil
}

// Delete removes a music record and returns it, or (nil, nil) when no such
// record exists.
func (r *gormMusicRepository) Delete(ctx context.Context, id string) (*model.Music, error) {
	var music model.Music
	err := r.db.WithContext(ctx).First(&music, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil // Music not found
		}
		return nil, err
	}

	if err := r.db.WithContext(ctx).Delete(&model.Music{}, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to delete music %s: %w", id, err)
	}
	return &music, nil
}
