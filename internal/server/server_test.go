package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"taskly-be/internal/config"
	"taskly-be/internal/jwt"
	"taskly-be/internal/models"
	"taskly-be/internal/repository"
	"taskly-be/internal/storage"
)

const testSecret = "test-secret"

type testAPI struct {
	t       *testing.T
	handler http.Handler
	store   *storage.Storage
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Port:            "0",
		Env:             "test",
		StoreDriver:     config.DriverMemory,
		JWTSecret:       testSecret,
		JWTTTL:          1,
		BcryptCost:      bcrypt.MinCost,
		ClientURL:       "http://localhost:5173",
		ShutdownTimeout: time.Second,
	}
	store := storage.NewMemory()
	srv, err := New(cfg, zap.NewNop(), store)
	require.NoError(t, err)

	return &testAPI{t: t, handler: srv.Handler(), store: store}
}

func (a *testAPI) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)
	return w
}

func (a *testAPI) signup(name, email, password string) string {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/v1/auth/signup", "", gin.H{"name": name, "email": email, "password": password})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())

	var resp models.TokenResponse
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(a.t, resp.Success)
	require.NotEmpty(a.t, resp.Token)
	return resp.Token
}

func (a *testAPI) createTask(token string, body gin.H) models.TaskResponse {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/v1/tasks", token, body)
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())

	var resp models.TaskResponse
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestSignup_OncePerEmail(t *testing.T) {
	api := newTestAPI(t)
	api.signup("Alice", "alice@example.com", "pw")

	w := api.do(http.MethodPost, "/api/v1/auth/signup", "", gin.H{"name": "Alice", "email": "ALICE@Example.com", "password": "pw"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Email already registered"}`, w.Body.String())

	w = api.do(http.MethodPost, "/api/v1/auth/signup", "", gin.H{"email": "bob@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"All fields are required"}`, w.Body.String())
}

func TestLogin_FailuresAreByteIdentical(t *testing.T) {
	api := newTestAPI(t)
	api.signup("Alice", "alice@example.com", "pw")

	ok := api.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "alice@example.com", "password": "pw"})
	require.Equal(t, http.StatusOK, ok.Code)
	assert.NotEmpty(t, decode[models.TokenResponse](t, ok).Token)

	wrongPassword := api.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "alice@example.com", "password": "bad"})
	unknownEmail := api.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "nobody@example.com", "password": "pw"})

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	assert.Equal(t, wrongPassword.Body.Bytes(), unknownEmail.Body.Bytes())
	assert.JSONEq(t, `{"success":false,"message":"Invalid credentials"}`, wrongPassword.Body.String())
}

func TestProfile(t *testing.T) {
	api := newTestAPI(t)
	token := api.signup("Alice", "alice@example.com", "pw")

	w := api.do(http.MethodGet, "/api/v1/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
	profile := decode[models.ProfileResponse](t, w)
	assert.Equal(t, "Alice", profile.Data.Name)
	assert.Equal(t, "alice@example.com", profile.Data.Email)

	w = api.do(http.MethodPut, "/api/v1/me", token, gin.H{"name": "Alicia", "password": "new-pw"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"message":"Profile updated successfully"}`, w.Body.String())

	w = api.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "alice@example.com", "password": "new-pw"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = api.do(http.MethodPut, "/api/v1/me", token, gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"No valid fields to update"}`, w.Body.String())
}

func TestProfile_TokenForMissingUser(t *testing.T) {
	api := newTestAPI(t)
	token, err := jwt.NewJWTService(testSecret, time.Hour).GenerateToken("ghost")
	require.NoError(t, err)

	w := api.do(http.MethodGet, "/api/v1/me", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTasks_CrossUserIsNotFound(t *testing.T) {
	api := newTestAPI(t)
	alice := api.signup("Alice", "alice@example.com", "pw")
	bob := api.signup("Bob", "bob@example.com", "pw")

	task := api.createTask(alice, gin.H{"title": "Alice only"})
	path := "/api/v1/tasks/" + task.Data.ID

	for _, tc := range []struct {
		method string
		body   interface{}
	}{
		{http.MethodGet, nil},
		{http.MethodPut, gin.H{"title": "stolen"}},
		{http.MethodDelete, nil},
	} {
		w := api.do(tc.method, path, bob, tc.body)
		assert.Equal(t, http.StatusNotFound, w.Code, tc.method)
		assert.JSONEq(t, `{"success":false,"message":"Task not found"}`, w.Body.String(), tc.method)
	}

	w := api.do(http.MethodGet, path, alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Alice only", decode[models.TaskResponse](t, w).Data.Title)

	w = api.do(http.MethodGet, "/api/v1/tasks", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(0), decode[models.TaskListResponse](t, w).Total)
}

func TestTasks_Pagination(t *testing.T) {
	api := newTestAPI(t)
	token := api.signup("Alice", "alice@example.com", "pw")

	for i := 1; i <= 12; i++ {
		api.createTask(token, gin.H{"title": fmt.Sprintf("task %d", i)})
	}

	page := func(n int) models.TaskListResponse {
		w := api.do(http.MethodGet, fmt.Sprintf("/api/v1/tasks?page=%d&limit=5", n), token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		return decode[models.TaskListResponse](t, w)
	}

	first := page(1)
	assert.Equal(t, int64(12), first.Total)
	assert.Equal(t, 3, first.Pages)
	assert.Len(t, first.Data, 5)
	assert.Equal(t, "task 12", first.Data[0].Title)

	assert.Len(t, page(3).Data, 2)

	fourth := page(4)
	assert.Equal(t, 4, fourth.Page)
	assert.Empty(t, fourth.Data)

	w := api.do(http.MethodGet, "/api/v1/tasks?page=4&limit=5", token, nil)
	assert.Contains(t, w.Body.String(), `"data":[]`)
}

func TestTasks_StatusLifecycleAndSearch(t *testing.T) {
	api := newTestAPI(t)
	token := api.signup("Alice", "alice@example.com", "pw")

	created := api.createTask(token, gin.H{"title": "Buy Milk", "description": "semi-skimmed"})
	assert.Equal(t, "pending", string(created.Data.Status))
	api.createTask(token, gin.H{"title": "Call mum", "status": "in-progress"})

	path := "/api/v1/tasks/" + created.Data.ID
	w := api.do(http.MethodPut, path, token, gin.H{"status": "completed"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "completed", string(decode[models.TaskResponse](t, w).Data.Status))

	w = api.do(http.MethodGet, path, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[models.TaskResponse](t, w).Data
	assert.Equal(t, "completed", string(got.Status))
	assert.Equal(t, "semi-skimmed", got.Description)

	w = api.do(http.MethodGet, "/api/v1/tasks?search=milk", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[models.TaskListResponse](t, w)
	require.Len(t, list.Data, 1)
	assert.Equal(t, "Buy Milk", list.Data[0].Title)

	w = api.do(http.MethodGet, "/api/v1/tasks?status=in-progress", token, nil)
	list = decode[models.TaskListResponse](t, w)
	require.Len(t, list.Data, 1)
	assert.Equal(t, "Call mum", list.Data[0].Title)

	w = api.do(http.MethodDelete, path, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"message":"Task deleted successfully"}`, w.Body.String())

	w = api.do(http.MethodGet, path, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTasks_CreateValidation(t *testing.T) {
	api := newTestAPI(t)
	token := api.signup("Alice", "alice@example.com", "pw")

	w := api.do(http.MethodPost, "/api/v1/tasks", token, gin.H{"description": "no title"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Title is required"}`, w.Body.String())
}

func TestAuthGate_BadTokensHaveNoSideEffects(t *testing.T) {
	api := newTestAPI(t)
	token := api.signup("Alice", "alice@example.com", "pw")

	expired, err := jwt.NewJWTService(testSecret, -time.Minute).GenerateToken("someone")
	require.NoError(t, err)
	tampered := tamperSignature(token)

	for name, bad := range map[string]string{"expired": expired, "tampered": tampered, "missing": ""} {
		w := api.do(http.MethodPost, "/api/v1/tasks", bad, gin.H{"title": "should not exist"})
		assert.Equal(t, http.StatusUnauthorized, w.Code, name)
		assert.Contains(t, w.Body.String(), `"success":false`, name)
	}

	userID, err := jwt.NewJWTService(testSecret, time.Hour).VerifyToken(token)
	require.NoError(t, err)
	total, err := api.store.Tasks.Count(context.Background(), repository.OwnedBy(userID))
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

// tamperSignature changes one full-width character of the signature segment
func tamperSignature(token string) string {
	b := []byte(token)
	i := len(b) - 5
	if b[i] == 'A' {
		b[i] = 'B'
	} else {
		b[i] = 'A'
	}
	return string(b)
}

func TestHealthAndUnknownRoute(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodGet, "/api/v1/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	health := decode[models.HealthResponse](t, w)
	assert.True(t, health.Success)
	assert.Equal(t, "OK", health.Status)

	w = api.do(http.MethodGet, "/api/v1/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Route not found"}`, w.Body.String())
}

func TestRun_StopsWhenContextEnds(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		Port:            "0",
		StoreDriver:     config.DriverMemory,
		JWTSecret:       testSecret,
		JWTTTL:          1,
		BcryptCost:      bcrypt.MinCost,
		ShutdownTimeout: time.Second,
	}
	srv, err := New(cfg, zap.NewNop(), storage.NewMemory())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
