package repository

import (
	"context"

	"plume/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowRepository defines the interface for follow-graph operations
type FollowRepository interface {
	Upsert(ctx context.Context, userID, authorID uint) error
	Delete(ctx context.Context, userID, authorID uint) (bool, error)
	Exists(ctx context.Context, userID, authorID uint) (bool, error)
	ListFollowing(ctx context.Context, userID uint, limit, offset int) ([]models.Follow, int64, error)
	ListFollowers(ctx context.Context, authorID uint, limit, offset int) ([]models.Follow, int64, error)
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository creates a new follow repository
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

// Upsert creates the edge if it does not exist. The ON CONFLICT DO NOTHING
// clause against the composite unique index makes concurrent follow requests
// race-safe without application-level locking.
func (r *followRepository) Upsert(ctx context.Context, userID, authorID uint) error {
	edge := models.Follow{UserID: userID, AuthorID: authorID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "author_id"}},
			DoNothing: true,
		}).
		Create(&edge).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Delete removes the exact edge. The boolean reports whether an edge existed.
func (r *followRepository) Delete(ctx context.Context, userID, authorID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *followRepository) Exists(ctx context.Context, userID, authorID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// ListFollowing returns the edges going out from userID (who they follow).
func (r *followRepository) ListFollowing(ctx context.Context, userID uint, limit, offset int) ([]models.Follow, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Follow{}).Where("user_id = ?", userID)
	return r.listEdges(base, "Author", limit, offset)
}

// ListFollowers returns the edges coming in to authorID (who follows them).
func (r *followRepository) ListFollowers(ctx context.Context, authorID uint, limit, offset int) ([]models.Follow, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Follow{}).Where("author_id = ?", authorID)
	return r.listEdges(base, "User", limit, offset)
}

func (r *followRepository) listEdges(base *gorm.DB, preload string, limit, offset int) ([]models.Follow, int64, error) {
	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var edges []models.Follow
	if err := base.Session(&gorm.Session{}).
		Preload(preload).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&edges).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return edges, total, nil
}
