package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/sahilm98/askora/internal/db"
)

func TestHealth(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("reports mongo up", func(mt *mtest.T) {
		prev := db.MongoClient
		db.MongoClient = mt.Client
		defer func() { db.MongoClient = prev }()

		mt.AddMockResponses(mtest.CreateSuccessResponse())

		app := fiber.New()
		app.Get("/health", Health)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
		require.NoError(mt, err)
		assert.Equal(mt, http.StatusOK, resp.StatusCode)

		body := decodeBody(mt, resp)
		assert.Equal(mt, "ok", body["status"])
		assert.Equal(mt, "up", body["mongo"])
	})

	mt.Run("reports mongo down", func(mt *mtest.T) {
		prev := db.MongoClient
		db.MongoClient = mt.Client
		defer func() { db.MongoClient = prev }()

		// No queued response, so the ping fails.
		app := fiber.New()
		app.Get("/health", Health)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
		require.NoError(mt, err)
		assert.Equal(mt, http.StatusServiceUnavailable, resp.StatusCode)

		body := decodeBody(mt, resp)
		assert.Equal(mt, "degraded", body["status"])
		assert.Equal(mt, "down", body["mongo"])
	})
}
