package middleware

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("middleware-test-secret")

func makeToken(t *testing.T, secret []byte, userID, role string, ttl time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(ttl).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)
	return signed
}

func echoIdentity(c *fiber.Ctx) error {
	userID, _ := c.Locals(LocalUserID).(string)
	role, _ := c.Locals(LocalRole).(string)
	return c.JSON(fiber.Map{"user_id": userID, "role": role})
}

func testApp() *fiber.App {
	app := fiber.New()
	app.Get("/private", Protected(testSecret), echoIdentity)
	app.Get("/maybe", OptionalAuth(testSecret), echoIdentity)
	app.Get("/admin", Protected(testSecret), RequireRole("admin"), echoIdentity)
	app.Get("/verify", Protected(testSecret), RequireRole("expert", "admin"), echoIdentity)
	return app
}

func TestProtectedMissingToken(t *testing.T) {
	app := testApp()

	req := httptest.NewRequest("GET", "/private", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestProtectedGarbageToken(t *testing.T) {
	app := testApp()

	req := httptest.NewRequest("GET", "/private", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestProtectedExpiredToken(t *testing.T) {
	app := testApp()
	token := makeToken(t, testSecret, "u1", "user", -time.Minute)

	req := httptest.NewRequest("GET", "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestProtectedWrongSecret(t *testing.T) {
	app := testApp()
	token := makeToken(t, []byte("some-other-secret"), "u1", "user", time.Hour)

	req := httptest.NewRequest("GET", "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestProtectedValidToken(t *testing.T) {
	app := testApp()
	token := makeToken(t, testSecret, "u1", "expert", time.Hour)

	req := httptest.NewRequest("GET", "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "u1", body["user_id"])
	assert.Equal(t, "expert", body["role"])
}

func TestOptionalAuthAnonymous(t *testing.T) {
	app := testApp()

	req := httptest.NewRequest("GET", "/maybe", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Empty(t, body["user_id"])
	assert.Empty(t, body["role"])
}

func TestOptionalAuthWithToken(t *testing.T) {
	app := testApp()
	token := makeToken(t, testSecret, "u2", "user", time.Hour)

	req := httptest.NewRequest("GET", "/maybe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "u2", body["user_id"])
}

func TestOptionalAuthBadTokenIsIgnored(t *testing.T) {
	app := testApp()

	req := httptest.NewRequest("GET", "/maybe", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireRoleDenied(t *testing.T) {
	app := testApp()
	token := makeToken(t, testSecret, "u3", "user", time.Hour)

	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRequireRoleAllowed(t *testing.T) {
	app := testApp()
	token := makeToken(t, testSecret, "u3", "admin", time.Hour)

	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireRoleAnyOf(t *testing.T) {
	app := testApp()

	for role, want := range map[string]int{
		"expert": fiber.StatusOK,
		"admin":  fiber.StatusOK,
		"user":   fiber.StatusForbidden,
	} {
		token := makeToken(t, testSecret, "u4", role, time.Hour)
		req := httptest.NewRequest("GET", "/verify", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, want, resp.StatusCode, "role %q", role)
	}
}
