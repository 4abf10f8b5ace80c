package server

import (
	"plume/internal/models"
	"plume/internal/service"

	"github.com/gofiber/fiber/v2"
)

// AddComment handles POST /posts/:id/comment/ and redirects back to the
// post's detail view.
func (s *Server) AddComment(c *fiber.Ctx) error {
	ctx := c.Context()

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	_, err = s.commentService.Add(ctx, service.AddCommentInput{
		PostID:   postID,
		AuthorID: currentUserID(c),
		Text:     c.FormValue("text"),
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return redirect(c, postDetailPath(postID))
}

// DeleteComment handles POST /posts/:commentId/delcomment/. A non-author
// request deletes nothing; either way the client lands back on the owning
// post. Comments orphaned by a post deletion have no post to land on, so
// those fall back to the index.
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	ctx := c.Context()

	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	postID, err := s.commentService.Delete(ctx, commentID, currentUserID(c))
	if err != nil && !models.IsForbidden(err) {
		return respondServiceError(c, err)
	}

	if postID == nil {
		return redirect(c, "/")
	}
	return redirect(c, postDetailPath(*postID))
}
