package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sahilm98/askora/internal/models"
	"github.com/sahilm98/askora/internal/services"
)

type CommentHandler struct {
	comments *services.CommentService
}

func NewCommentHandler(comments *services.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

func (h *CommentHandler) ListForQuestion(c *fiber.Ctx) error {
	return h.list(c, models.TargetQuestion)
}

func (h *CommentHandler) ListForAnswer(c *fiber.Ctx) error {
	return h.list(c, models.TargetAnswer)
}

func (h *CommentHandler) list(c *fiber.Ctx, targetType string) error {
	comments, err := h.comments.ListForTarget(c.Context(), targetType, c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	return c.JSON(fiber.Map{"comments": comments})
}

func (h *CommentHandler) Create(c *fiber.Ctx) error {
	userID, _ := currentUser(c)

	var request struct {
		TargetType string `json:"target_type"`
		TargetID   string `json:"target_id"`
		Body       string `json:"body"`
	}
	if err := c.BodyParser(&request); err != nil {
		return badRequest(c)
	}

	comment, err := h.comments.Create(c.Context(), userID, request.TargetType, request.TargetID, request.Body)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Comment posted successfully",
		"comment": comment,
	})
}

func (h *CommentHandler) Update(c *fiber.Ctx) error {
	userID, role := currentUser(c)

	var request struct {
		Body string `json:"body"`
	}
	if err := c.BodyParser(&request); err != nil {
		return badRequest(c)
	}

	comment, err := h.comments.Update(c.Context(), c.Params("id"), userID, role, request.Body)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Comment updated successfully",
		"comment": comment,
	})
}

func (h *CommentHandler) Delete(c *fiber.Ctx) error {
	userID, role := currentUser(c)

	if err := h.comments.Delete(c.Context(), c.Params("id"), userID, role); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Comment deleted successfully"})
}
