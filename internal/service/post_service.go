package service

import (
	"context"
	"strings"
	"time"

	"plume/internal/models"
	"plume/internal/repository"
)

// PostService implements the post lifecycle: create, edit, delete, detail.
type PostService struct {
	postRepo    repository.PostRepository
	groupRepo   repository.GroupRepository
	commentRepo repository.CommentRepository
}

// CreatePostInput carries the validated form fields for a new post.
// ImagePath is the stored media path, already written by the media store.
type CreatePostInput struct {
	AuthorID  uint
	Text      string
	GroupSlug string
	ImagePath string
}

// UpdatePostInput carries an edit. ImageSet distinguishes "keep the current
// image" from "replace it": files are not round-tripped on validation
// failure, so an edit without a new upload keeps the old path.
type UpdatePostInput struct {
	PostID      uint
	RequesterID uint
	Text        string
	GroupSlug   string
	ImagePath   string
	ImageSet    bool
}

// PostDetail is the post page payload: the post, its comments newest first,
// and how many posts the author has published in total.
type PostDetail struct {
	Post            models.Post      `json:"post"`
	Comments        []models.Comment `json:"comments"`
	AuthorPostCount int64            `json:"author_post_count"`
}

// NewPostService returns a new PostService.
func NewPostService(postRepo repository.PostRepository, groupRepo repository.GroupRepository, commentRepo repository.CommentRepository) *PostService {
	return &PostService{
		postRepo:    postRepo,
		groupRepo:   groupRepo,
		commentRepo: commentRepo,
	}
}

// Create validates and stores a new post. The publication timestamp is set
// here, once, and the author is always the creator.
func (s *PostService) Create(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if strings.TrimSpace(in.Text) == "" {
		return nil, models.NewValidationError("Text is required")
	}

	groupID, err := s.resolveGroup(ctx, in.GroupSlug)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Text:      in.Text,
		PubDate:   time.Now().UTC(),
		AuthorID:  in.AuthorID,
		GroupID:   groupID,
		ImagePath: in.ImagePath,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

// Update applies an edit. Only the author may edit; anyone else gets
// Forbidden, which the HTTP layer turns into a silent redirect.
func (s *PostService) Update(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != in.RequesterID {
		return nil, models.NewForbiddenError("Only the author can edit a post")
	}

	if strings.TrimSpace(in.Text) == "" {
		return nil, models.NewValidationError("Text is required")
	}

	groupID, err := s.resolveGroup(ctx, in.GroupSlug)
	if err != nil {
		return nil, err
	}

	post.Text = in.Text
	post.GroupID = groupID
	if in.ImageSet {
		post.ImagePath = in.ImagePath
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

// Delete removes the post when the requester is its author; otherwise it is
// a Forbidden no-op. The caller redirects to the requester's profile either
// way.
func (s *PostService) Delete(ctx context.Context, postID, requesterID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != requesterID {
		return models.NewForbiddenError("Only the author can delete a post")
	}
	return s.postRepo.Delete(ctx, postID)
}

// Detail loads the post page payload.
func (s *PostService) Detail(ctx context.Context, postID uint) (*PostDetail, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	count, err := s.postRepo.CountByAuthor(ctx, post.AuthorID)
	if err != nil {
		return nil, err
	}

	return &PostDetail{
		Post:            *post,
		Comments:        comments,
		AuthorPostCount: count,
	}, nil
}

func (s *PostService) resolveGroup(ctx context.Context, slug string) (*uint, error) {
	if slug == "" {
		return nil, nil
	}
	group, err := s.groupRepo.GetBySlug(ctx, slug)
	if err != nil {
		if models.IsNotFound(err) {
			return nil, models.NewValidationError("Unknown group: " + slug)
		}
		return nil, err
	}
	id := group.ID
	return &id, nil
}
