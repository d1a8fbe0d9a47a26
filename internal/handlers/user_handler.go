package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/sahilm98/askora/internal/models"
	"github.com/sahilm98/askora/internal/services"
)

// 5 MB is plenty for an avatar.
const maxAvatarSize = 5 << 20

type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) Profile(c *fiber.Ctx) error {
	profile, err := h.users.Profile(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(profile)
}

func (h *UserHandler) Top(c *fiber.Ctx) error {
	users, err := h.users.Top(c.Context(), int64(c.QueryInt("limit", 10)))
	if err != nil {
		return fail(c, err)
	}
	if users == nil {
		users = []models.User{}
	}
	return c.JSON(fiber.Map{"users": users})
}

func (h *UserHandler) UpdateMe(c *fiber.Ctx) error {
	userID, _ := currentUser(c)

	var input services.ProfileInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c)
	}

	user, err := h.users.UpdateProfile(c.Context(), userID, input)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Profile updated successfully",
		"user":    user,
	})
}

func (h *UserHandler) UploadAvatar(c *fiber.Ctx) error {
	userID, _ := currentUser(c)

	header, err := c.FormFile("avatar")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "avatar file is required"})
	}
	if header.Size > maxAvatarSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "avatar must be at most 5 MB"})
	}
	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "avatar must be an image"})
	}

	file, err := header.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "failed to read avatar file"})
	}
	defer file.Close()

	url, err := h.users.UploadAvatar(c.Context(), userID, header.Filename, file, header.Size, contentType)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Avatar updated successfully",
		"avatar":  url,
	})
}

func (h *UserHandler) RemoveAvatar(c *fiber.Ctx) error {
	userID, _ := currentUser(c)

	if err := h.users.RemoveAvatar(c.Context(), userID); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Avatar removed"})
}

func (h *UserHandler) Follow(c *fiber.Ctx) error {
	userID, _ := currentUser(c)

	if err := h.users.Follow(c.Context(), userID, c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "User followed"})
}

func (h *UserHandler) Unfollow(c *fiber.Ctx) error {
	userID, _ := currentUser(c)

	if err := h.users.Unfollow(c.Context(), userID, c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "User unfollowed"})
}

func (h *UserHandler) Following(c *fiber.Ctx) error {
	users, err := h.users.Following(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	if users == nil {
		users = []models.User{}
	}
	return c.JSON(fiber.Map{"users": users})
}

func (h *UserHandler) Followers(c *fiber.Ctx) error {
	users, err := h.users.Followers(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	if users == nil {
		users = []models.User{}
	}
	return c.JSON(fiber.Map{"users": users})
}
