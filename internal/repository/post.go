package repository

import (
	"context"
	"errors"

	"plume/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	ListAll(ctx context.Context, limit, offset int) ([]models.Post, int64, error)
	ListByGroup(ctx context.Context, groupID uint, limit, offset int) ([]models.Post, int64, error)
	ListByAuthor(ctx context.Context, authorID uint, limit, offset int) ([]models.Post, int64, error)
	ListFollowing(ctx context.Context, viewerID uint, limit, offset int) ([]models.Post, int64, error)
	CountByAuthor(ctx context.Context, authorID uint) (int64, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// feedOrder is the one ordering every feed scope uses: newest publication
// first, with id as the stable tie-break for timestamps that collide at
// second granularity.
const feedOrder = "pub_date DESC, id DESC"

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Group").
		First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) ListAll(ctx context.Context, limit, offset int) ([]models.Post, int64, error) {
	return r.listWhere(ctx, r.db.WithContext(ctx).Model(&models.Post{}), limit, offset)
}

func (r *postRepository) ListByGroup(ctx context.Context, groupID uint, limit, offset int) ([]models.Post, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Post{}).Where("group_id = ?", groupID)
	return r.listWhere(ctx, base, limit, offset)
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID uint, limit, offset int) ([]models.Post, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Post{}).Where("author_id = ?", authorID)
	return r.listWhere(ctx, base, limit, offset)
}

// ListFollowing returns posts whose author the viewer follows.
func (r *postRepository) ListFollowing(ctx context.Context, viewerID uint, limit, offset int) ([]models.Post, int64, error) {
	followed := r.db.Model(&models.Follow{}).Select("author_id").Where("user_id = ?", viewerID)
	base := r.db.WithContext(ctx).Model(&models.Post{}).Where("author_id IN (?)", followed)
	return r.listWhere(ctx, base, limit, offset)
}

func (r *postRepository) listWhere(_ context.Context, base *gorm.DB, limit, offset int) ([]models.Post, int64, error) {
	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var posts []models.Post
	if err := base.Session(&gorm.Session{}).
		Preload("Author").
		Preload("Group").
		Order(feedOrder).
		Limit(limit).
		Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return posts, total, nil
}

func (r *postRepository) CountByAuthor(ctx context.Context, authorID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("author_id = ?", authorID).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

// Update persists text, group and image changes. PubDate is immutable by the
// model's create-only field permission.
func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).
		Model(post).
		Select("text", "group_id", "image_path").
		Updates(map[string]interface{}{
			"text":       post.Text,
			"group_id":   post.GroupID,
			"image_path": post.ImagePath,
		}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Delete removes the post after orphaning its comments: post_id is cleared
// and the comment text survives.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Comment{}).
			Where("post_id = ?", id).
			Update("post_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
