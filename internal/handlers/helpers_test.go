package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const (
	usersNS     = "askora.users"
	questionsNS = "askora.questions"
	votesNS     = "askora.votes"
)

var handlerSecret = []byte("handler-test-secret")

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func makeToken(t require.TestingT, userID, role string) string {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(handlerSecret)
	require.NoError(t, err)
	return signed
}

func decodeBody(mt *mtest.T, resp *http.Response) map[string]interface{} {
	mt.Helper()
	defer resp.Body.Close()
	var body map[string]interface{}
	require.NoError(mt, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func noDoc(ns string) bson.D {
	return mtest.CreateCursorResponse(0, ns, mtest.FirstBatch)
}

func foundDoc(ns string, doc bson.D) bson.D {
	return mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, doc)
}

func updateOK() bson.D {
	return mtest.CreateSuccessResponse(
		bson.E{Key: "n", Value: 1},
		bson.E{Key: "nModified", Value: 1},
	)
}

func userDoc(id primitive.ObjectID, username, email, password, role string) bson.D {
	now := time.Now()
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "username", Value: username},
		{Key: "email", Value: email},
		{Key: "password", Value: password},
		{Key: "role", Value: role},
		{Key: "created_at", Value: now},
		{Key: "updated_at", Value: now},
	}
}

func questionDoc(id, asker primitive.ObjectID, votes int) bson.D {
	now := time.Now()
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "title", Value: "How do glaciers move?"},
		{Key: "body", Value: "They are solid ice, yet they flow."},
		{Key: "asker", Value: asker},
		{Key: "votes", Value: votes},
		{Key: "views", Value: 0},
		{Key: "is_pinned", Value: false},
		{Key: "is_locked", Value: false},
		{Key: "created_at", Value: now},
		{Key: "updated_at", Value: now},
	}
}
