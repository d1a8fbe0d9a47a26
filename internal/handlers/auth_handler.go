package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sahilm98/askora/internal/services"
)

type AuthHandler struct {
	auth *services.AuthService
}

func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var request struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&request); err != nil {
		return badRequest(c)
	}

	user, err := h.auth.Register(c.Context(), request.Username, request.Email, request.Password)
	if err != nil {
		return fail(c, err)
	}

	token, err := h.auth.GenerateJWT(user.ID.Hex(), user.Role)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "User registered successfully",
		"user":    user,
		"token":   token,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&request); err != nil {
		return badRequest(c)
	}

	token, role, err := h.auth.Login(c.Context(), request.Email, request.Password)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"token": token,
		"role":  role,
	})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, _ := currentUser(c)

	user, err := h.auth.Me(c.Context(), userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(user)
}
