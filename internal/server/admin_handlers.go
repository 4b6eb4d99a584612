package server

import (
	"context"
	"time"

	"campfire/internal/models"
	"campfire/internal/service"

	"github.com/gofiber/fiber/v2"
)

type postRequest struct {
	Title   string `json:"title" form:"title"`
	Content string `json:"content" form:"content"`
}

// GetAdminModels handles GET /api/admin/models
// @Summary List registered model admins
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} admin.ModelAdmin
// @Router /admin/models [get]
func (s *Server) GetAdminModels(c *fiber.Ctx) error {
	return c.JSON(s.adminRegistry.All())
}

// GetAdminPosts handles GET /api/admin/posts
// @Summary Post changelist
// @Description Rows carry only list_display columns plus links for list_display_links
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param q query string false "Search over search_fields"
// @Param updated query string false "today, past_7_days, this_month or this_year"
// @Param o query string false "Ordering field, prefix with - for descending"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} admin.ChangeList
// @Failure 400 {object} models.ErrorResponse
// @Router /admin/posts [get]
func (s *Server) GetAdminPosts(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	cl, err := s.postAdmin.ChangeList(ctx, service.ChangeListParams{
		Query:    c.Query("q"),
		Updated:  c.Query("updated"),
		Ordering: c.Query("o"),
		Limit:    c.QueryInt("limit", 0),
		Offset:   c.QueryInt("offset", 0),
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(cl)
}

// GetAdminPost handles GET /api/admin/posts/:id
// @Summary Post change view
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} models.Post
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/posts/{id} [get]
func (s *Server) GetAdminPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	post, err := s.postAdmin.Get(ctx, id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(post)
}

// CreateAdminPost handles POST /api/admin/posts
// @Summary Create post
// @Tags admin
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Security BearerAuth
// @Param request body object{title=string,content=string} true "Post"
// @Success 201 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Router /admin/posts [post]
func (s *Server) CreateAdminPost(c *fiber.Ctx) error {
	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	post, err := s.postAdmin.Create(ctx, service.PostInput{Title: req.Title, Content: req.Content})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdateAdminPost handles PUT /api/admin/posts/:id
// @Summary Update post
// @Tags admin
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body object{title=string,content=string} true "Post"
// @Success 200 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/posts/{id} [put]
func (s *Server) UpdateAdminPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	post, err := s.postAdmin.Update(ctx, id, service.PostInput{Title: req.Title, Content: req.Content})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(post)
}

// DeleteAdminPost handles DELETE /api/admin/posts/:id
// @Summary Delete post
// @Tags admin
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/posts/{id} [delete]
func (s *Server) DeleteAdminPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	if err := s.postAdmin.Delete(ctx, id); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
