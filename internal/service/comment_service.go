package service

import (
	"context"
	"strings"
	"time"

	"plume/internal/models"
	"plume/internal/repository"
)

// CommentService attaches comments to posts and enforces the author-only
// delete permission.
type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

// AddCommentInput carries a new comment for a post.
type AddCommentInput struct {
	PostID   uint
	AuthorID uint
	Text     string
}

// NewCommentService returns a new CommentService.
func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
	}
}

// Add validates and stores a comment bound to the post and author.
func (s *CommentService) Add(ctx context.Context, in AddCommentInput) (*models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, in.PostID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Text) == "" {
		return nil, models.NewValidationError("Text is required")
	}

	postID := in.PostID
	comment := &models.Comment{
		Text:     in.Text,
		AuthorID: in.AuthorID,
		PostID:   &postID,
		Created:  time.Now().UTC(),
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByID(ctx, comment.ID)
}

// Delete removes the comment when the requester is its author; otherwise it
// is a Forbidden no-op. The returned post ID is the redirect target and is
// nil for orphaned comments whose post has been deleted.
func (s *CommentService) Delete(ctx context.Context, commentID, requesterID uint) (*uint, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}

	if comment.AuthorID != requesterID {
		return comment.PostID, models.NewForbiddenError("Only the author can delete a comment")
	}

	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return comment.PostID, err
	}
	return comment.PostID, nil
}
