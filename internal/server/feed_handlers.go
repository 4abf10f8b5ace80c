package server

import (
	"plume/internal/models"
	"plume/internal/service"

	"github.com/gofiber/fiber/v2"
)

// FeedIndex handles GET / and serves one page of the unfiltered feed,
// newest first. Pages are served through the feed cache, so mutations may
// take up to one TTL to appear.
func (s *Server) FeedIndex(c *fiber.Ctx) error {
	page, err := s.feedService.Compose(c.Context(), service.Scope{Kind: service.ScopeAll}, parsePage(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(page)
}

// GroupFeed handles GET /group/:slug/ with the group's posts plus the group
// itself for the page header.
func (s *Server) GroupFeed(c *fiber.Ctx) error {
	ctx := c.Context()
	slug := c.Params("slug")

	group, err := s.groupRepo.GetBySlug(ctx, slug)
	if err != nil {
		return respondServiceError(c, err)
	}

	page, err := s.feedService.Compose(ctx, service.Scope{Kind: service.ScopeGroup, Slug: slug}, parsePage(c))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"group": group,
		"page":  page,
	})
}

// FollowFeed handles GET /follow/ and serves posts from authors the viewer
// follows. Requires authentication.
func (s *Server) FollowFeed(c *fiber.Ctx) error {
	scope := service.Scope{Kind: service.ScopeFollowing, ViewerID: currentUserID(c)}
	page, err := s.feedService.Compose(c.Context(), scope, parsePage(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(page)
}

// ClearFeedCache handles POST /cache/clear/ and purges every cached feed
// page. This is the only purge path besides TTL expiry.
func (s *Server) ClearFeedCache(c *fiber.Ctx) error {
	if err := s.feedService.ClearCache(c.Context()); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}
	return c.JSON(fiber.Map{"status": "cleared"})
}
