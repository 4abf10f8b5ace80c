package service

import (
	"context"

	"plume/internal/models"
	"plume/internal/pagination"
	"plume/internal/repository"
)

// FollowService manages the follow graph between users.
type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
	pageSize   int
}

// NewFollowService returns a new FollowService.
func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository, pageSize int) *FollowService {
	return &FollowService{
		followRepo: followRepo,
		userRepo:   userRepo,
		pageSize:   pageSize,
	}
}

// Follow creates the edge user -> author. Self-follows and repeated follows
// are silent no-ops. Returns the author and whether the edge exists after
// the call.
func (s *FollowService) Follow(ctx context.Context, userID uint, authorUsername string) (*models.User, bool, error) {
	author, err := s.userRepo.GetByUsername(ctx, authorUsername)
	if err != nil {
		return nil, false, err
	}

	if author.ID == userID {
		return author, false, nil
	}

	if err := s.followRepo.Upsert(ctx, userID, author.ID); err != nil {
		return nil, false, err
	}
	return author, true, nil
}

// Unfollow removes the edge user -> author. A missing edge is NotFound.
func (s *FollowService) Unfollow(ctx context.Context, userID uint, authorUsername string) (*models.User, error) {
	author, err := s.userRepo.GetByUsername(ctx, authorUsername)
	if err != nil {
		return nil, err
	}

	removed, err := s.followRepo.Delete(ctx, userID, author.ID)
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, models.NewNotFoundError("Follow", authorUsername)
	}
	return author, nil
}

// IsFollowing reports whether user follows author. An anonymous viewer
// (userID zero) follows nobody.
func (s *FollowService) IsFollowing(ctx context.Context, userID, authorID uint) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	return s.followRepo.Exists(ctx, userID, authorID)
}

// Followings lists who the named user follows, newest edge first.
func (s *FollowService) Followings(ctx context.Context, username string, pageNumber int) (pagination.Page[models.Follow], error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return pagination.Page[models.Follow]{}, err
	}
	return s.edgePage(pageNumber, func(limit, offset int) ([]models.Follow, int64, error) {
		return s.followRepo.ListFollowing(ctx, user.ID, limit, offset)
	})
}

// Followers lists who follows the named user, newest edge first.
func (s *FollowService) Followers(ctx context.Context, username string, pageNumber int) (pagination.Page[models.Follow], error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return pagination.Page[models.Follow]{}, err
	}
	return s.edgePage(pageNumber, func(limit, offset int) ([]models.Follow, int64, error) {
		return s.followRepo.ListFollowers(ctx, user.ID, limit, offset)
	})
}

func (s *FollowService) edgePage(pageNumber int, list func(limit, offset int) ([]models.Follow, int64, error)) (pagination.Page[models.Follow], error) {
	if pageNumber < 1 {
		pageNumber = 1
	}
	limit, offset := pagination.Window(pageNumber, s.pageSize)
	edges, total, err := list(limit, offset)
	if err != nil {
		return pagination.Page[models.Follow]{}, err
	}

	clamped := pagination.Clamp(pageNumber, total, s.pageSize)
	if clamped != pageNumber {
		limit, offset = pagination.Window(clamped, s.pageSize)
		edges, total, err = list(limit, offset)
		if err != nil {
			return pagination.Page[models.Follow]{}, err
		}
	}
	return pagination.New(edges, clamped, s.pageSize, total), nil
}
