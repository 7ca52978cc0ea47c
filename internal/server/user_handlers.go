package server

import (
	"time"

	"inkwell/internal/models"
	"inkwell/internal/service"
	"inkwell/internal/storage"

	"github.com/gofiber/fiber/v2"
)

// accountResponse is the owner-facing user payload. The public User
// serialization drops the email, so the account endpoints add it back.
type accountResponse struct {
	*models.User
	Email string `json:"email"`
}

// GetMyProfile handles GET /api/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	user, err := s.userService.GetUser(c.Context(), currentUserID(c))
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(accountResponse{User: user, Email: user.Email})
}

// UpdateMyProfile handles PUT /api/users/me
// Accepts a multipart form with bio, location, website, birth_date and an
// optional avatar image.
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	avatarPath, err := s.formImage(c, "avatar", storage.KindAvatar)
	if err != nil {
		return handleServiceError(c, err)
	}

	var birthDate *time.Time
	if raw := c.FormValue("birth_date"); raw != "" {
		parsed, parseErr := time.Parse("2006-01-02", raw)
		if parseErr != nil {
			s.images.Remove(avatarPath)
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("birth_date must be in YYYY-MM-DD format"))
		}
		birthDate = &parsed
	}

	user, err := s.userService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		UserID:       currentUserID(c),
		Bio:          c.FormValue("bio"),
		Location:     c.FormValue("location"),
		Website:      c.FormValue("website"),
		BirthDate:    birthDate,
		AvatarPath:   avatarPath,
		RemoveAvatar: c.FormValue("remove_avatar") == "true",
	})
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(accountResponse{User: user, Email: user.Email})
}
