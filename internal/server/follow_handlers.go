package server

import (
	"github.com/gofiber/fiber/v2"
)

// FollowAuthor handles POST /profile/:username/follow/. Following yourself
// or an author you already follow changes nothing; the client always lands
// on the author's profile.
func (s *Server) FollowAuthor(c *fiber.Ctx) error {
	author, _, err := s.followService.Follow(c.Context(), currentUserID(c), c.Params("username"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return redirect(c, profilePath(author.Username))
}

// UnfollowAuthor handles POST /profile/:username/unfollow/. Unfollowing an
// author you do not follow is NotFound.
func (s *Server) UnfollowAuthor(c *fiber.Ctx) error {
	author, err := s.followService.Unfollow(c.Context(), currentUserID(c), c.Params("username"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return redirect(c, profilePath(author.Username))
}

// Followings handles GET /profile/:username/followings/ and lists the
// authors the named user follows, newest edge first.
func (s *Server) Followings(c *fiber.Ctx) error {
	page, err := s.followService.Followings(c.Context(), c.Params("username"), parsePage(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(page)
}

// Followers handles GET /profile/:username/followers/ and lists who follows
// the named user, newest edge first.
func (s *Server) Followers(c *fiber.Ctx) error {
	page, err := s.followService.Followers(c.Context(), c.Params("username"), parsePage(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(page)
}
