package server

import (
	"inkwell/internal/service"
	"inkwell/internal/storage"

	"github.com/gofiber/fiber/v2"
)

// GetPosts handles GET /api/posts
// Query parameters: q (free text search), sort (new|old|popular), page.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	page, err := s.postService.ListPosts(c.Context(), service.ListPostsInput{
		Query: c.Query("q"),
		Sort:  c.Query("sort"),
		Page:  parsePage(c),
	})
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(page)
}

// GetCategoryPosts handles GET /api/categories/:slug/posts
func (s *Server) GetCategoryPosts(c *fiber.Ctx) error {
	page, err := s.postService.ListPosts(c.Context(), service.ListPostsInput{
		CategorySlug: c.Params("slug"),
		Query:        c.Query("q"),
		Sort:         c.Query("sort"),
		Page:         parsePage(c),
	})
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(page)
}

// GetPost handles GET /api/posts/:id/:slug
// Each successful fetch counts one view.
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	detail, err := s.postService.GetPost(c.Context(), id, c.Params("slug"))
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(detail)
}

// CreatePost handles POST /api/posts
// Accepts a multipart form with title, content, category and an optional image.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	imagePath, err := s.formImage(c, "image", storage.KindPost)
	if err != nil {
		return handleServiceError(c, err)
	}

	post, err := s.postService.CreatePost(c.Context(), service.CreatePostInput{
		UserID:       currentUserID(c),
		Title:        c.FormValue("title"),
		Slug:         c.FormValue("slug"),
		Content:      c.FormValue("content"),
		CategorySlug: c.FormValue("category"),
		ImagePath:    imagePath,
	})
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost handles PUT /api/posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	imagePath, err := s.formImage(c, "image", storage.KindPost)
	if err != nil {
		return handleServiceError(c, err)
	}

	post, err := s.postService.UpdatePost(c.Context(), service.UpdatePostInput{
		UserID:       currentUserID(c),
		PostID:       id,
		Title:        c.FormValue("title"),
		Slug:         c.FormValue("slug"),
		Content:      c.FormValue("content"),
		CategorySlug: c.FormValue("category"),
		ImagePath:    imagePath,
		RemoveImage:  c.FormValue("remove_image") == "true",
	})
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.Context(), currentUserID(c), id); err != nil {
		return handleServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Post deleted",
	})
}

// LikePost handles POST /api/posts/:id/like
func (s *Server) LikePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	likes, err := s.postService.LikePost(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"likes": likes,
	})
}
