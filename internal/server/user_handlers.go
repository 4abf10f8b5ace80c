package server

import (
	"plume/internal/pagination"
	"plume/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Profile handles GET /profile/:username/ with the author, one page of
// their posts, their total post count, and whether the viewer follows them.
func (s *Server) Profile(c *fiber.Ctx) error {
	ctx := c.Context()
	username := c.Params("username")

	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return respondServiceError(c, err)
	}

	page, err := s.feedService.Compose(ctx, service.Scope{Kind: service.ScopeAuthor, Username: username}, parsePage(c))
	if err != nil {
		return respondServiceError(c, err)
	}

	following, err := s.followService.IsFollowing(ctx, currentUserID(c), author.ID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"author":     author,
		"page":       page,
		"post_count": page.TotalItems,
		"following":  following,
	})
}

// Authors handles GET /authors/ and lists every user with at least one
// published post, ordered by username.
func (s *Server) Authors(c *fiber.Ctx) error {
	ctx := c.Context()
	pageNumber := parsePage(c)
	pageSize := s.feedService.PageSize()

	limit, offset := pagination.Window(pageNumber, pageSize)
	authors, total, err := s.userRepo.ListAuthors(ctx, limit, offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	clamped := pagination.Clamp(pageNumber, total, pageSize)
	if clamped != pageNumber {
		limit, offset = pagination.Window(clamped, pageSize)
		authors, total, err = s.userRepo.ListAuthors(ctx, limit, offset)
		if err != nil {
			return respondServiceError(c, err)
		}
	}

	return c.JSON(pagination.New(authors, clamped, pageSize, total))
}
