package api

import (
	"bytes"
	"context"
	"encoding/json"
	"gift_registry/internal/auth"
	"gift_registry/internal/middleware"
	"gift_registry/internal/store"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

// testEnv wires the full route table over in-memory stores. The Redis client
// points at a closed port: cache reads miss, writes are dropped, which is the
// handlers' degraded path when Redis is away.
type testEnv struct {
	router *gin.Engine
	svc    *auth.Service
	users  *store.MemoryUsers
	gifts  *store.MemoryGifts
}

func newTestEnv() *testEnv {
	gin.SetMode(gin.TestMode)
	users := store.NewMemoryUsers()
	gifts := store.NewMemoryGifts()
	users.AttachGifts(gifts)
	svc := auth.NewService(users, testSecret, time.Hour, bcrypt.MinCost)
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})

	r := gin.New()
	r.POST("/auth/register", RegisterHandler(svc, rdb))
	r.POST("/auth/login", LoginHandler(svc))

	authGroup := r.Group("/auth")
	authGroup.Use(middleware.TokenAuthMiddleware(testSecret))
	authGroup.GET("/profile", ProfileHandler(svc))
	authGroup.GET("/users", ListUsersHandler(svc, rdb))
	authGroup.GET("/users/:id", GetUserHandler(svc))
	authGroup.PATCH("/users/:id", UpdateUserHandler(svc, rdb))
	authGroup.DELETE("/users/:id", DeleteUserHandler(svc, rdb))

	giftGroup := r.Group("/gifts")
	giftGroup.Use(middleware.TokenAuthMiddleware(testSecret))
	giftGroup.GET("", ListGiftsHandler(gifts, rdb))
	giftGroup.GET("/:id", GetGiftHandler(gifts))
	giftGroup.POST("", middleware.RequireActiveUser(svc), CreateGiftHandler(gifts, rdb))
	giftGroup.PATCH("/:id", middleware.RequireActiveUser(svc), UpdateGiftHandler(gifts, rdb))
	giftGroup.DELETE("/:id", middleware.RequireActiveUser(svc), DeleteGiftHandler(gifts, rdb))

	return &testEnv{router: r, svc: svc, users: users, gifts: gifts}
}

// do issues a JSON request against the test router
func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// registerAlice registers the standard test account and returns id and token
func (e *testEnv) registerAlice(t *testing.T) (string, string) {
	t.Helper()
	w := e.do(t, http.MethodPost, "/auth/register", gin.H{
		"username": "alice",
		"email":    "a@x.com",
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

// decodeMap parses a response body into a generic map
func decodeMap(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	return m
}

func TestRegisterEndpoint(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	w := env.do(t, http.MethodPost, "/auth/register", gin.H{
		"username": "alice",
		"email":    "a@x.com",
		"password": "Abcdef1!",
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	m := decodeMap(t, w)
	assert.Equal(t, true, m["success"])
	data := m["data"].(map[string]any)
	user := data["user"].(map[string]any)
	assert.Equal(t, "a@x.com", user["email"])
	assert.Equal(t, "user", user["role"])

	// The projection never carries credentials
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "passwordHash")

	// The token verifies against the signing secret
	token := data["access_token"].(string)
	require.NotEmpty(t, token)
	claims, err := auth.ParseToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, user["id"], claims.Subject)
}

func TestRegisterEndpoint_DuplicateEmail(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	env.registerAlice(t)

	w := env.do(t, http.MethodPost, "/auth/register", gin.H{
		"username": "alice2",
		"email":    "a@x.com",
		"password": "Abcdef1!",
	}, "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRegisterEndpoint_Validation(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	cases := []struct {
		name string
		body gin.H
	}{
		{"short username", gin.H{"username": "ab", "email": "a@x.com", "password": "Abcdef1!"}},
		{"bad email", gin.H{"username": "alice", "email": "not-an-email", "password": "Abcdef1!"}},
		{"short password", gin.H{"username": "alice", "email": "a@x.com", "password": "Ab1!"}},
		{"no uppercase", gin.H{"username": "alice", "email": "a@x.com", "password": "abcdef1!"}},
		{"no digit or special", gin.H{"username": "alice", "email": "a@x.com", "password": "Abcdefgh"}},
		{"missing password", gin.H{"username": "alice", "email": "a@x.com"}},
	}
	for _, tc := range cases {
		w := env.do(t, http.MethodPost, "/auth/register", tc.body, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, "case %q", tc.name)
	}
}

func TestLoginEndpoint(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	env.registerAlice(t)

	w := env.do(t, http.MethodPost, "/auth/login", gin.H{
		"email":    "a@x.com",
		"password": "Abcdef1!",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	m := decodeMap(t, w)
	assert.Equal(t, true, m["success"])
	data := m["data"].(map[string]any)
	user := data["user"].(map[string]any)
	assert.Equal(t, "a@x.com", user["email"])
	assert.NotContains(t, user, "password")
	assert.NotEmpty(t, data["access_token"])
}

func TestLoginEndpoint_Failures(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	id, _ := env.registerAlice(t)

	// Unregistered email
	w := env.do(t, http.MethodPost, "/auth/login", gin.H{"email": "nobody@x.com", "password": "Abcdef1!"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Wrong password
	w = env.do(t, http.MethodPost, "/auth/login", gin.H{"email": "a@x.com", "password": "WrongPass1!"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Deactivated account, correct password
	user, err := env.users.FindByID(context.Background(), id)
	require.NoError(t, err)
	user.IsActive = false
	require.NoError(t, env.users.Save(context.Background(), user))
	w = env.do(t, http.MethodPost, "/auth/login", gin.H{"email": "a@x.com", "password": "Abcdef1!"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProfileEndpoint(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	_, token := env.registerAlice(t)

	w := env.do(t, http.MethodGet, "/auth/profile", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	m := decodeMap(t, w)
	user := m["data"].(map[string]any)
	assert.Equal(t, "a@x.com", user["email"])
	assert.NotContains(t, user, "password")

	// No token at all
	w = env.do(t, http.MethodGet, "/auth/profile", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListUsersEndpoint_NoSecretLeak(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	_, token := env.registerAlice(t)
	env.do(t, http.MethodPost, "/auth/register", gin.H{
		"username": "bob", "email": "b@x.com", "password": "Abcdef1!",
	}, "")

	w := env.do(t, http.MethodGet, "/auth/users", nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	var users []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	require.Len(t, users, 2)
	for _, u := range users {
		assert.NotContains(t, u, "password")
		assert.NotContains(t, u, "passwordHash")
	}
}

func TestGetUserEndpoint_MissingIsUnauthorized(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	_, token := env.registerAlice(t)

	// A missing user reads as unauthorized, not not-found
	w := env.do(t, http.MethodGet, "/auth/users/no-such-id", nil, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdateUserEndpoint_PasswordIgnored(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	id, token := env.registerAlice(t)
	before, err := env.users.FindByID(context.Background(), id)
	require.NoError(t, err)

	w := env.do(t, http.MethodPatch, "/auth/users/"+id, gin.H{
		"username": "bob",
		"password": "Hijacked1!",
	}, token)
	require.Equal(t, http.StatusOK, w.Code)

	after, err := env.users.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "bob", after.Username)
	assert.Equal(t, before.Password, after.Password, "the password field must be silently dropped")

	// The original password still logs in
	w = env.do(t, http.MethodPost, "/auth/login", gin.H{"email": "a@x.com", "password": "Abcdef1!"}, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDeleteUserEndpoint(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	id, token := env.registerAlice(t)

	w := env.do(t, http.MethodDelete, "/auth/users/"+id, nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	m := decodeMap(t, w)
	assert.Equal(t, true, m["success"])
	assert.Equal(t, "User deleted successfully", m["message"])

	// The profile path re-reads the store, so the deleted identity is gone
	// even though the token itself is still within its validity window
	w = env.do(t, http.MethodGet, "/auth/profile", nil, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
