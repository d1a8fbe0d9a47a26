package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sahilm98/askora/internal/services"
)

type VoteHandler struct {
	votes *services.VoteService
}

func NewVoteHandler(votes *services.VoteService) *VoteHandler {
	return &VoteHandler{votes: votes}
}

func (h *VoteHandler) Cast(c *fiber.Ctx) error {
	userID, _ := currentUser(c)

	var input services.VoteInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c)
	}

	result, err := h.votes.Cast(c.Context(), userID, input)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": result.Message,
		"votes":   result.Votes,
	})
}

func (h *VoteHandler) Remove(c *fiber.Ctx) error {
	userID, _ := currentUser(c)

	var request struct {
		TargetType string `json:"target_type"`
		TargetID   string `json:"target_id"`
	}
	if err := c.BodyParser(&request); err != nil {
		return badRequest(c)
	}

	result, err := h.votes.Remove(c.Context(), userID, request.TargetType, request.TargetID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": result.Message,
		"votes":   result.Votes,
	})
}
