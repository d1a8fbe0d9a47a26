package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sahilm98/askora/internal/models"
	"github.com/sahilm98/askora/internal/services"
)

type AnswerHandler struct {
	answers *services.AnswerService
}

func NewAnswerHandler(answers *services.AnswerService) *AnswerHandler {
	return &AnswerHandler{answers: answers}
}

func (h *AnswerHandler) ListForQuestion(c *fiber.Ctx) error {
	answers, err := h.answers.ListForQuestion(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	if answers == nil {
		answers = []models.Answer{}
	}
	return c.JSON(fiber.Map{"answers": answers})
}

func (h *AnswerHandler) Create(c *fiber.Ctx) error {
	userID, _ := currentUser(c)

	var request struct {
		Body string `json:"body"`
	}
	if err := c.BodyParser(&request); err != nil {
		return badRequest(c)
	}

	answer, err := h.answers.Create(c.Context(), c.Params("id"), userID, request.Body)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Answer posted successfully",
		"answer":  answer,
	})
}

func (h *AnswerHandler) Update(c *fiber.Ctx) error {
	userID, role := currentUser(c)

	var request struct {
		Body string `json:"body"`
	}
	if err := c.BodyParser(&request); err != nil {
		return badRequest(c)
	}

	answer, err := h.answers.Update(c.Context(), c.Params("id"), userID, role, request.Body)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Answer updated successfully",
		"answer":  answer,
	})
}

func (h *AnswerHandler) Delete(c *fiber.Ctx) error {
	userID, role := currentUser(c)

	if err := h.answers.Delete(c.Context(), c.Params("id"), userID, role); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Answer deleted successfully"})
}

func (h *AnswerHandler) Verify(c *fiber.Ctx) error {
	userID, _ := currentUser(c)

	answer, err := h.answers.Verify(c.Context(), c.Params("id"), userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Answer verified",
		"answer":  answer,
	})
}

func (h *AnswerHandler) Unverify(c *fiber.Ctx) error {
	answer, err := h.answers.Unverify(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Answer verification removed",
		"answer":  answer,
	})
}
