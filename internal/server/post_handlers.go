package server

import (
	"io"

	"plume/internal/models"
	"plume/internal/service"

	"github.com/gofiber/fiber/v2"
)

// PostDetail handles GET /posts/:id/ with the post, its comments newest
// first, the author's total post count, and whether the viewer follows the
// author.
func (s *Server) PostDetail(c *fiber.Ctx) error {
	ctx := c.Context()

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	detail, err := s.postService.Detail(ctx, postID)
	if err != nil {
		return respondServiceError(c, err)
	}

	following, err := s.followService.IsFollowing(ctx, currentUserID(c), detail.Post.AuthorID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"post":              detail.Post,
		"comments":          detail.Comments,
		"author_post_count": detail.AuthorPostCount,
		"following":         following,
	})
}

// CreatePost handles POST /create/. Multipart form with a required text
// field, an optional group slug, and an optional image upload. On success
// the client is redirected to the author's profile.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)

	imagePath, _, err := s.formImage(c)
	if err != nil {
		return respondServiceError(c, err)
	}

	_, err = s.postService.Create(ctx, service.CreatePostInput{
		AuthorID:  userID,
		Text:      c.FormValue("text"),
		GroupSlug: c.FormValue("group"),
		ImagePath: imagePath,
	})
	if err != nil {
		// The stored image is not kept for a post that never existed.
		if imagePath != "" {
			_ = s.mediaStore.Remove(imagePath)
		}
		return respondServiceError(c, err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return redirect(c, profilePath(user.Username))
}

// EditPost handles POST /posts/:id/edit/. Only the author may edit; anyone
// else is silently redirected to their own profile. A request without a new
// image keeps the current one.
func (s *Server) EditPost(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	imagePath, imageSet, err := s.formImage(c)
	if err != nil {
		return respondServiceError(c, err)
	}

	_, err = s.postService.Update(ctx, service.UpdatePostInput{
		PostID:      postID,
		RequesterID: userID,
		Text:        c.FormValue("text"),
		GroupSlug:   c.FormValue("group"),
		ImagePath:   imagePath,
		ImageSet:    imageSet,
	})
	if err != nil {
		if imagePath != "" {
			_ = s.mediaStore.Remove(imagePath)
		}
		if models.IsForbidden(err) {
			user, uerr := s.userRepo.GetByID(ctx, userID)
			if uerr != nil {
				return respondServiceError(c, uerr)
			}
			return redirect(c, profilePath(user.Username))
		}
		return respondServiceError(c, err)
	}

	return redirect(c, postDetailPath(postID))
}

// DeletePost handles POST /posts/:id/del/. A non-author request is a silent
// no-op; either way the client lands on the requester's profile.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.Delete(ctx, postID, userID); err != nil && !models.IsForbidden(err) {
		return respondServiceError(c, err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return redirect(c, profilePath(user.Username))
}

// formImage reads the optional "image" multipart field into the media store.
// The second return reports whether the field was present at all, so edits
// can tell "no new image" apart from "remove the image".
func (s *Server) formImage(c *fiber.Ctx) (string, bool, error) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return "", false, nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", true, models.NewValidationError("Could not read uploaded image")
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return "", true, models.NewValidationError("Could not read uploaded image")
	}

	path, err := s.mediaStore.Save(fileHeader.Filename, content)
	if err != nil {
		return "", true, err
	}
	return path, true, nil
}
