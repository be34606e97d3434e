package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// registerUser registers an extra account and returns id and token
func (e *testEnv) registerUser(t *testing.T, username, email string) (string, string) {
	t.Helper()
	w := e.do(t, http.MethodPost, "/auth/register", gin.H{
		"username": username,
		"email":    email,
		"password": "Abcdef1!",
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Data struct {
			User struct {
				ID string `json:"id"`
			} `json:"user"`
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data.User.ID, resp.Data.AccessToken
}

// createGift records a gift for the given token and returns its ID
func (e *testEnv) createGift(t *testing.T, token, title, category string) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/gifts", gin.H{
		"url":      "https://example.com/" + title,
		"title":    title,
		"category": category,
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var gift struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &gift))
	return gift.ID
}

func TestCreateAndGetGift(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	userID, token := env.registerAlice(t)
	giftID := env.createGift(t, token, "book", "books")

	w := env.do(t, http.MethodGet, "/gifts/"+giftID, nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	m := decodeMap(t, w)
	assert.Equal(t, "book", m["title"])
	assert.Equal(t, userID, m["user_id"], "a created gift belongs to its caller")
}

func TestCreateGift_RequiresToken(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	w := env.do(t, http.MethodPost, "/gifts", gin.H{
		"url": "https://example.com/g", "title": "book",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateGift_DeactivatedCaller(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	id, token := env.registerAlice(t)

	user, err := env.users.FindByID(context.Background(), id)
	require.NoError(t, err)
	user.IsActive = false
	require.NoError(t, env.users.Save(context.Background(), user))

	// Mutations re-check the store, so the still-valid token is rejected
	w := env.do(t, http.MethodPost, "/gifts", gin.H{
		"url": "https://example.com/g", "title": "book",
	}, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Reads stay on stateless trust until the token expires
	w = env.do(t, http.MethodGet, "/gifts", nil, token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListGifts_Filters(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	aliceID, aliceToken := env.registerAlice(t)
	_, bobToken := env.registerUser(t, "bob", "b@x.com")
	env.createGift(t, aliceToken, "novel", "books")
	env.createGift(t, bobToken, "puzzle", "games")

	var gifts []map[string]any
	w := env.do(t, http.MethodGet, "/gifts", nil, aliceToken)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &gifts))
	assert.Len(t, gifts, 2)

	w = env.do(t, http.MethodGet, "/gifts?category=books", nil, aliceToken)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &gifts))
	require.Len(t, gifts, 1)
	assert.Equal(t, "novel", gifts[0]["title"])

	w = env.do(t, http.MethodGet, "/gifts?user_id="+aliceID, nil, bobToken)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &gifts))
	require.Len(t, gifts, 1)
	assert.Equal(t, "novel", gifts[0]["title"])
}

func TestUpdateGift_OwnershipEnforced(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	_, aliceToken := env.registerAlice(t)
	_, bobToken := env.registerUser(t, "bob", "b@x.com")
	giftID := env.createGift(t, aliceToken, "book", "books")

	// A non-owner cannot mutate
	w := env.do(t, http.MethodPatch, "/gifts/"+giftID, gin.H{"title": "stolen"}, bobToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// The owner can
	w = env.do(t, http.MethodPatch, "/gifts/"+giftID, gin.H{"title": "hardcover"}, aliceToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hardcover", decodeMap(t, w)["title"])
}

func TestUpdateGift_AdminOverride(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	_, aliceToken := env.registerAlice(t)
	adminID, _ := env.registerUser(t, "root", "root@x.com")
	giftID := env.createGift(t, aliceToken, "book", "books")

	// Promote and log in again so the token carries the admin role
	admin, err := env.users.FindByID(context.Background(), adminID)
	require.NoError(t, err)
	admin.Role = "admin"
	require.NoError(t, env.users.Save(context.Background(), admin))
	w := env.do(t, http.MethodPost, "/auth/login", gin.H{"email": "root@x.com", "password": "Abcdef1!"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	w = env.do(t, http.MethodPatch, "/gifts/"+giftID, gin.H{"title": "moderated"}, resp.Data.AccessToken)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDeleteGift(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	_, token := env.registerAlice(t)
	giftID := env.createGift(t, token, "book", "books")

	w := env.do(t, http.MethodDelete, "/gifts/"+giftID, nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	m := decodeMap(t, w)
	assert.Equal(t, "Gift deleted successfully", m["message"])

	w = env.do(t, http.MethodGet, "/gifts/"+giftID, nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetGift_Missing(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	_, token := env.registerAlice(t)

	w := env.do(t, http.MethodGet, "/gifts/no-such-id", nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
