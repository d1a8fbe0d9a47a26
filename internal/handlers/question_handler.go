package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sahilm98/askora/internal/models"
	"github.com/sahilm98/askora/internal/services"
)

type QuestionHandler struct {
	questions *services.QuestionService
}

func NewQuestionHandler(questions *services.QuestionService) *QuestionHandler {
	return &QuestionHandler{questions: questions}
}

func (h *QuestionHandler) List(c *fiber.Ctx) error {
	params := services.ListQuestionsParams{
		Tag:    c.Query("tag"),
		Author: c.Query("author"),
		Search: c.Query("search"),
		Sort:   c.Query("sort"),
		Page:   int64(c.QueryInt("page", 1)),
		Limit:  int64(c.QueryInt("limit", 20)),
	}

	questions, total, err := h.questions.List(c.Context(), params)
	if err != nil {
		return fail(c, err)
	}
	if questions == nil {
		questions = []models.Question{}
	}

	return c.JSON(fiber.Map{
		"questions": questions,
		"total":     total,
		"page":      params.Page,
		"limit":     params.Limit,
	})
}

func (h *QuestionHandler) Get(c *fiber.Ctx) error {
	viewerID, _ := currentUser(c)

	question, err := h.questions.Get(c.Context(), c.Params("id"), viewerID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(question)
}

func (h *QuestionHandler) Create(c *fiber.Ctx) error {
	userID, _ := currentUser(c)

	var input services.QuestionInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c)
	}

	question, err := h.questions.Create(c.Context(), userID, input)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message":  "Question created successfully",
		"question": question,
	})
}

func (h *QuestionHandler) Update(c *fiber.Ctx) error {
	userID, role := currentUser(c)

	var input services.QuestionInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c)
	}

	question, err := h.questions.Update(c.Context(), c.Params("id"), userID, role, input)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message":  "Question updated successfully",
		"question": question,
	})
}

func (h *QuestionHandler) Delete(c *fiber.Ctx) error {
	userID, role := currentUser(c)

	if err := h.questions.Delete(c.Context(), c.Params("id"), userID, role); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Question deleted successfully"})
}

func (h *QuestionHandler) Accept(c *fiber.Ctx) error {
	userID, _ := currentUser(c)

	question, err := h.questions.Accept(c.Context(), c.Params("id"), c.Params("answerId"), userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message":  "Answer accepted",
		"question": question,
	})
}

func (h *QuestionHandler) Unaccept(c *fiber.Ctx) error {
	userID, _ := currentUser(c)

	if err := h.questions.Unaccept(c.Context(), c.Params("id"), userID); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Accepted answer removed"})
}
