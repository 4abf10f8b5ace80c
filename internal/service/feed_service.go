package service

import (
	"context"

	"plume/internal/cache"
	"plume/internal/models"
	"plume/internal/pagination"
	"plume/internal/repository"
)

// ScopeKind selects the filter dimension of a feed.
type ScopeKind string

const (
	// ScopeAll is every post.
	ScopeAll ScopeKind = "all"
	// ScopeGroup is posts in one group, selected by slug.
	ScopeGroup ScopeKind = "group"
	// ScopeAuthor is posts by one author, selected by username.
	ScopeAuthor ScopeKind = "author"
	// ScopeFollowing is posts by authors the viewer follows.
	ScopeFollowing ScopeKind = "following"
)

// Scope describes which posts a feed request selects.
type Scope struct {
	Kind     ScopeKind
	Slug     string
	Username string
	ViewerID uint
}

// FeedService produces ordered, paginated views of posts for the four scopes.
// The All scope is read-through cached per page; every other scope always
// hits the store.
type FeedService struct {
	postRepo  repository.PostRepository
	groupRepo repository.GroupRepository
	userRepo  repository.UserRepository
	feedCache *cache.FeedCache
	pageSize  int
}

// NewFeedService returns a new FeedService. feedCache may be nil to disable
// caching entirely.
func NewFeedService(
	postRepo repository.PostRepository,
	groupRepo repository.GroupRepository,
	userRepo repository.UserRepository,
	feedCache *cache.FeedCache,
	pageSize int,
) *FeedService {
	return &FeedService{
		postRepo:  postRepo,
		groupRepo: groupRepo,
		userRepo:  userRepo,
		feedCache: feedCache,
		pageSize:  pageSize,
	}
}

// PageSize returns the configured page size.
func (s *FeedService) PageSize() int {
	return s.pageSize
}

// Compose builds one page of the feed for the given scope. Page numbers
// beyond the last page clamp to the last page; anything below 1 clamps to 1.
// Reads through the feed cache for ScopeAll, so results there may be up to
// one cache TTL stale.
func (s *FeedService) Compose(ctx context.Context, scope Scope, pageNumber int) (pagination.Page[models.Post], error) {
	if pageNumber < 1 {
		pageNumber = 1
	}

	switch scope.Kind {
	case ScopeAll:
		var page pagination.Page[models.Post]
		err := s.feedCache.Aside(ctx, cache.FeedPageKey(pageNumber), &page, func() error {
			var fetchErr error
			page, fetchErr = s.composePage(pageNumber, func(limit, offset int) ([]models.Post, int64, error) {
				return s.postRepo.ListAll(ctx, limit, offset)
			})
			return fetchErr
		})
		return page, err

	case ScopeGroup:
		group, err := s.groupRepo.GetBySlug(ctx, scope.Slug)
		if err != nil {
			return pagination.Page[models.Post]{}, err
		}
		return s.composePage(pageNumber, func(limit, offset int) ([]models.Post, int64, error) {
			return s.postRepo.ListByGroup(ctx, group.ID, limit, offset)
		})

	case ScopeAuthor:
		author, err := s.userRepo.GetByUsername(ctx, scope.Username)
		if err != nil {
			return pagination.Page[models.Post]{}, err
		}
		return s.composePage(pageNumber, func(limit, offset int) ([]models.Post, int64, error) {
			return s.postRepo.ListByAuthor(ctx, author.ID, limit, offset)
		})

	case ScopeFollowing:
		if scope.ViewerID == 0 {
			return pagination.Page[models.Post]{}, models.NewUnauthorizedError("Authentication required for the following feed")
		}
		return s.composePage(pageNumber, func(limit, offset int) ([]models.Post, int64, error) {
			return s.postRepo.ListFollowing(ctx, scope.ViewerID, limit, offset)
		})

	default:
		return pagination.Page[models.Post]{}, models.NewValidationError("Unknown feed scope")
	}
}

// composePage fetches the requested window and, when the request ran past
// the end of the result set, re-fetches the clamped last page.
func (s *FeedService) composePage(pageNumber int, list func(limit, offset int) ([]models.Post, int64, error)) (pagination.Page[models.Post], error) {
	limit, offset := pagination.Window(pageNumber, s.pageSize)
	posts, total, err := list(limit, offset)
	if err != nil {
		return pagination.Page[models.Post]{}, err
	}

	clamped := pagination.Clamp(pageNumber, total, s.pageSize)
	if clamped != pageNumber {
		limit, offset = pagination.Window(clamped, s.pageSize)
		posts, total, err = list(limit, offset)
		if err != nil {
			return pagination.Page[models.Post]{}, err
		}
	}
	return pagination.New(posts, clamped, s.pageSize, total), nil
}

// ClearCache purges every cached feed page. Mutations never do this
// implicitly; staleness within the TTL is an accepted trade-off.
func (s *FeedService) ClearCache(ctx context.Context) error {
	return s.feedCache.Clear(ctx)
}
