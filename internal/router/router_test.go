package router

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Vennela009/task-management-api/internal/config"
	"github.com/Vennela009/task-management-api/internal/handler"
	"github.com/Vennela009/task-management-api/internal/middleware"
	"github.com/Vennela009/task-management-api/internal/model"
	"github.com/Vennela009/task-management-api/internal/service"
)

type memUserStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[string]model.User
}

func (s *memUserStore) Create(_ context.Context, u model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(u.Username)
	if _, exists := s.users[key]; exists {
		return model.User{}, model.ErrUserAlreadyExists
	}
	s.nextID++
	u.ID = s.nextID
	s.users[key] = u
	return u, nil
}

func (s *memUserStore) FindByUsername(_ context.Context, username string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, exists := s.users[strings.ToLower(strings.TrimSpace(username))]
	if !exists {
		return model.User{}, model.ErrUserNotFound
	}
	return u, nil
}

func (s *memUserStore) FindByID(_ context.Context, id int64) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return model.User{}, model.ErrUserNotFound
}

func (s *memUserStore) List(_ context.Context) ([]model.AuthUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.AuthUser, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, model.AuthUser{ID: u.ID, Username: u.Username, Role: u.Role})
	}
	return out, nil
}

type memTaskStore struct {
	mu     sync.Mutex
	nextID int64
	tasks  map[int64]model.Task
}

func (s *memTaskStore) Create(_ context.Context, t model.Task) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	t.ID = s.nextID
	s.tasks[t.ID] = t
	return t, nil
}

func (s *memTaskStore) ListByAssignee(_ context.Context, assigneeID int64) ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Task, 0)
	for _, t := range s.tasks {
		if t.AssigneeID == assigneeID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *memTaskStore) FindByID(_ context.Context, id int64) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, exists := s.tasks[id]
	if !exists {
		return model.Task{}, model.ErrTaskNotFound
	}
	return t, nil
}

func (s *memTaskStore) Update(_ context.Context, t model.Task) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[t.ID]; !exists {
		return model.Task{}, model.ErrTaskNotFound
	}
	s.tasks[t.ID] = t
	return t, nil
}

func (s *memTaskStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[id]; !exists {
		return model.ErrTaskNotFound
	}
	delete(s.tasks, id)
	return nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &config.Config{
		ServerPort:       "0",
		RequestTimeout:   30 * time.Second,
		JWTSecret:        "test-secret",
		BcryptCost:       bcrypt.MinCost,
		CORSOrigins:      []string{"*"},
		RateLimitRPM:     10000,
		AuthRateLimitRPM: 10000,
	}

	tokens, err := service.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	require.NoError(t, err)
	hasher := service.NewPasswordHasher(cfg.BcryptCost)
	authService, err := service.NewAuthService(&memUserStore{users: map[string]model.User{}}, hasher, tokens)
	require.NoError(t, err)
	taskService := service.NewTaskService(&memTaskStore{tasks: map[int64]model.Task{}})

	authMiddleware := middleware.NewAuthMiddleware(authService)
	authHandler := handler.NewAuthHandler(authService)
	taskHandler := handler.NewTaskHandler(taskService)
	userHandler := handler.NewUserHandler(authService)

	server := httptest.NewServer(New(cfg, authMiddleware, authHandler, taskHandler, userHandler))
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url string, payload any) *http.Response {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func authedRequest(t *testing.T, method string, url string, body []byte, token string) *http.Response {
	t.Helper()

	var reader io.Reader = bytes.NewReader([]byte{})
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func registerAndLogin(t *testing.T, serverURL string, username string, role string) string {
	t.Helper()

	registerResp := postJSON(t, serverURL+"/register", map[string]string{
		"username": username,
		"password": "pw1",
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, registerResp.StatusCode)

	loginResp := postJSON(t, serverURL+"/login", map[string]string{
		"username": username,
		"password": "pw1",
	})
	require.Equal(t, http.StatusOK, loginResp.StatusCode)

	var parsed model.TokenResponse
	require.NoError(t, json.NewDecoder(loginResp.Body).Decode(&parsed))
	require.NotEmpty(t, parsed.Token)
	return parsed.Token
}

func TestRegisterLoginAndProtectedAccess(t *testing.T) {
	server := newTestServer(t)

	token := registerAndLogin(t, server.URL, "alice", "member")

	listResp := authedRequest(t, http.MethodGet, server.URL+"/tasks", nil, token)
	require.Equal(t, http.StatusOK, listResp.StatusCode)

	missingResp := authedRequest(t, http.MethodGet, server.URL+"/tasks", nil, "")
	require.Equal(t, http.StatusUnauthorized, missingResp.StatusCode)

	garbageResp := authedRequest(t, http.MethodGet, server.URL+"/tasks", nil, "garbage")
	require.Equal(t, http.StatusUnauthorized, garbageResp.StatusCode)
}

func TestRegisterDuplicateReturnsConflict(t *testing.T) {
	server := newTestServer(t)

	first := postJSON(t, server.URL+"/register", map[string]string{"username": "alice", "password": "pw1"})
	require.Equal(t, http.StatusCreated, first.StatusCode)

	second := postJSON(t, server.URL+"/register", map[string]string{"username": "alice", "password": "pw2"})
	require.Equal(t, http.StatusConflict, second.StatusCode)
}

func TestLoginFailuresShareShape(t *testing.T) {
	server := newTestServer(t)

	registerResp := postJSON(t, server.URL+"/register", map[string]string{"username": "alice", "password": "pw1"})
	require.Equal(t, http.StatusCreated, registerResp.StatusCode)

	wrongPassword := postJSON(t, server.URL+"/login", map[string]string{"username": "alice", "password": "nope"})
	unknownUser := postJSON(t, server.URL+"/login", map[string]string{"username": "nobody", "password": "nope"})

	require.Equal(t, http.StatusUnauthorized, wrongPassword.StatusCode)
	require.Equal(t, http.StatusUnauthorized, unknownUser.StatusCode)

	var bodyA, bodyB model.ErrorResponse
	require.NoError(t, json.NewDecoder(wrongPassword.Body).Decode(&bodyA))
	require.NoError(t, json.NewDecoder(unknownUser.Body).Decode(&bodyB))
	require.Equal(t, bodyA, bodyB)
}

func TestTaskLifecycle(t *testing.T) {
	server := newTestServer(t)

	token := registerAndLogin(t, server.URL, "alice", "member")

	createBody, err := json.Marshal(map[string]string{"title": "write report", "description": "q3 numbers"})
	require.NoError(t, err)
	createResp := authedRequest(t, http.MethodPost, server.URL+"/tasks", createBody, token)
	require.Equal(t, http.StatusCreated, createResp.StatusCode)

	var created model.Task
	require.NoError(t, json.NewDecoder(createResp.Body).Decode(&created))
	require.NotZero(t, created.ID)
	require.Equal(t, "pending", created.Status)

	getResp := authedRequest(t, http.MethodGet, server.URL+"/tasks/1", nil, token)
	require.Equal(t, http.StatusOK, getResp.StatusCode)

	updateBody, err := json.Marshal(map[string]string{"title": "write report", "status": "done"})
	require.NoError(t, err)
	updateResp := authedRequest(t, http.MethodPut, server.URL+"/tasks/1", updateBody, token)
	require.Equal(t, http.StatusOK, updateResp.StatusCode)

	var updated model.Task
	require.NoError(t, json.NewDecoder(updateResp.Body).Decode(&updated))
	require.Equal(t, "done", updated.Status)

	deleteResp := authedRequest(t, http.MethodDelete, server.URL+"/tasks/1", nil, token)
	require.Equal(t, http.StatusOK, deleteResp.StatusCode)

	var deleted model.MessageResponse
	require.NoError(t, json.NewDecoder(deleteResp.Body).Decode(&deleted))
	require.Equal(t, "Task deleted successfully", deleted.Message)

	missingResp := authedRequest(t, http.MethodGet, server.URL+"/tasks/1", nil, token)
	require.Equal(t, http.StatusNotFound, missingResp.StatusCode)

	var notFound model.MessageResponse
	require.NoError(t, json.NewDecoder(missingResp.Body).Decode(&notFound))
	require.Equal(t, "Task not found", notFound.Message)
}

func TestTaskListScopedToAssignee(t *testing.T) {
	server := newTestServer(t)

	aliceToken := registerAndLogin(t, server.URL, "alice", "member")
	bobToken := registerAndLogin(t, server.URL, "bob", "member")

	createBody, err := json.Marshal(map[string]string{"title": "alice task"})
	require.NoError(t, err)
	createResp := authedRequest(t, http.MethodPost, server.URL+"/tasks", createBody, aliceToken)
	require.Equal(t, http.StatusCreated, createResp.StatusCode)

	var bobTasks []model.Task
	bobList := authedRequest(t, http.MethodGet, server.URL+"/tasks", nil, bobToken)
	require.Equal(t, http.StatusOK, bobList.StatusCode)
	require.NoError(t, json.NewDecoder(bobList.Body).Decode(&bobTasks))
	require.Empty(t, bobTasks)

	var aliceTasks []model.Task
	aliceList := authedRequest(t, http.MethodGet, server.URL+"/tasks", nil, aliceToken)
	require.Equal(t, http.StatusOK, aliceList.StatusCode)
	require.NoError(t, json.NewDecoder(aliceList.Body).Decode(&aliceTasks))
	require.Len(t, aliceTasks, 1)
}

func TestAdminOnlyUserListing(t *testing.T) {
	server := newTestServer(t)

	memberToken := registerAndLogin(t, server.URL, "alice", "member")
	adminToken := registerAndLogin(t, server.URL, "root", "admin")

	memberResp := authedRequest(t, http.MethodGet, server.URL+"/users", nil, memberToken)
	require.Equal(t, http.StatusForbidden, memberResp.StatusCode)

	adminResp := authedRequest(t, http.MethodGet, server.URL+"/users", nil, adminToken)
	require.Equal(t, http.StatusOK, adminResp.StatusCode)

	var users []model.AuthUser
	require.NoError(t, json.NewDecoder(adminResp.Body).Decode(&users))
	require.Len(t, users, 2)
	for _, u := range users {
		require.NotEmpty(t, u.Username)
	}
}

func TestMeEndpoint(t *testing.T) {
	server := newTestServer(t)

	token := registerAndLogin(t, server.URL, "alice", "member")

	resp := authedRequest(t, http.MethodGet, server.URL+"/me", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var me model.AuthUser
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&me))
	require.Equal(t, "alice", me.Username)
	require.Equal(t, "member", me.Role)
}

func TestHealthEndpoint(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
