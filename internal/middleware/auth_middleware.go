package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Locals keys set by the auth middleware.
const (
	LocalUserID = "user_id"
	LocalRole   = "role"
)

// Protected validates the bearer JWT and stores user_id and role in the
// request locals for the next handlers.
func Protected(secret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, role, ok := parseToken(c.Get("Authorization"), secret)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or missing token"})
		}

		c.Locals(LocalUserID, userID)
		c.Locals(LocalRole, role)
		return c.Next()
	}
}

// OptionalAuth stores user_id and role when a valid bearer token is present
// and silently continues otherwise. Used on public reads that personalize
// behavior for signed-in users, like per-viewer view counting.
func OptionalAuth(secret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if userID, role, ok := parseToken(c.Get("Authorization"), secret); ok {
			c.Locals(LocalUserID, userID)
			c.Locals(LocalRole, role)
		}
		return c.Next()
	}
}

// parseToken validates the Authorization header and extracts the user_id and
// role claims.
func parseToken(header string, secret []byte) (userID, role string, ok bool) {
	tokenString := strings.TrimPrefix(header, "Bearer ")
	if tokenString == "" {
		return "", "", false
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil || !token.Valid {
		return "", "", false
	}

	claims, claimsOK := token.Claims.(jwt.MapClaims)
	if !claimsOK {
		return "", "", false
	}

	userID, userExists := claims["user_id"].(string)
	role, roleExists := claims["role"].(string)
	if !userExists || !roleExists {
		return "", "", false
	}
	return userID, role, true
}
