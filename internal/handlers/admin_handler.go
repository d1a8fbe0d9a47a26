package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/sahilm98/askora/internal/models"
	"github.com/sahilm98/askora/internal/services"
)

type AdminHandler struct {
	admin     *services.AdminService
	questions *services.QuestionService
}

func NewAdminHandler(admin *services.AdminService, questions *services.QuestionService) *AdminHandler {
	return &AdminHandler{admin: admin, questions: questions}
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	page := int64(c.QueryInt("page", 1))
	limit := int64(c.QueryInt("limit", 20))

	users, total, err := h.admin.ListUsers(c.Context(), page, limit)
	if err != nil {
		return fail(c, err)
	}
	if users == nil {
		users = []models.User{}
	}
	return c.JSON(fiber.Map{
		"users": users,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

func (h *AdminHandler) GetUser(c *fiber.Ctx) error {
	user, err := h.admin.GetUser(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(user)
}

func (h *AdminHandler) SetRole(c *fiber.Ctx) error {
	var request struct {
		Role string `json:"role"`
	}
	if err := c.BodyParser(&request); err != nil {
		return badRequest(c)
	}

	user, err := h.admin.SetRole(c.Context(), c.Params("id"), request.Role)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Role updated successfully",
		"user":    user,
	})
}

func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.admin.Stats(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(stats)
}

func (h *AdminHandler) Pin(c *fiber.Ctx) error {
	return h.setFlag(c, h.questions.SetPinned, true, "Question pinned")
}

func (h *AdminHandler) Unpin(c *fiber.Ctx) error {
	return h.setFlag(c, h.questions.SetPinned, false, "Question unpinned")
}

func (h *AdminHandler) Lock(c *fiber.Ctx) error {
	return h.setFlag(c, h.questions.SetLocked, true, "Question locked")
}

func (h *AdminHandler) Unlock(c *fiber.Ctx) error {
	return h.setFlag(c, h.questions.SetLocked, false, "Question unlocked")
}

func (h *AdminHandler) setFlag(c *fiber.Ctx, set func(ctx context.Context, id string, value bool) error, value bool, message string) error {
	if err := set(c.Context(), c.Params("id"), value); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": message})
}
