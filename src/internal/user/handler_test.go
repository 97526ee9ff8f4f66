package user

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"activity-tracking-svc/src/internal/config"
	"activity-tracking-svc/src/internal/models"
	"activity-tracking-svc/src/internal/query"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockService struct {
	addResult    *User
	addErr       error
	all          []User
	byID         *User
	updated      *User
	removed      bool
	err          error
	receivedPage int
}

func (m *mockService) Add(ctx context.Context, item *User) (*User, error) {
	return m.addResult, m.addErr
}

func (m *mockService) GetAll(ctx context.Context, q *query.Query) ([]User, error) {
	m.receivedPage = q.Pagination.Page
	return m.all, m.err
}

func (m *mockService) GetByID(ctx context.Context, id string, q *query.Query) (*User, error) {
	return m.byID, m.err
}

func (m *mockService) Update(ctx context.Context, item *User) (*User, error) {
	return m.updated, m.err
}

func (m *mockService) Remove(ctx context.Context, id string) (bool, error) {
	return m.removed, m.err
}

type mockCache struct {
	store map[string][]byte
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.store == nil {
		return nil, nil
	}
	return m.store[key], nil
}

func (m *mockCache) Set(ctx context.Context, key string, value any) error {
	if m.store == nil {
		m.store = map[string][]byte{}
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.store[key] = data
	return nil
}

func (m *mockCache) Invalidate(ctx context.Context, key string) error {
	delete(m.store, key)
	return nil
}

func newTestRouter(service Service) (*gin.Engine, *mockCache) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Configuration{}
	cfg.App.Timeout = 5

	cache := &mockCache{}
	h := NewHandler(cfg, service, cache)

	router := gin.New()
	router.POST("/api/v1/users", h.AddUser)
	router.GET("/api/v1/users", h.GetAllUsers)
	router.GET("/api/v1/users/:user_id", h.GetUserByID)
	router.PATCH("/api/v1/users/:user_id", h.UpdateUser)
	router.DELETE("/api/v1/users/:user_id", h.RemoveUser)
	return router, cache
}

func TestAddUserCreated(t *testing.T) {
	createdAt := time.Now().UTC()
	service := &mockService{addResult: &User{
		ID:        "5c86d00c2239a48ea20a0134",
		Name:      "Lorem",
		Email:     "lorem@mail.com",
		CreatedAt: &createdAt,
	}}
	router, _ := newTestRouter(service)

	body := strings.NewReader(`{"name":"Lorem","email":"lorem@mail.com"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", body)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var result User
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	assert.Equal(t, "5c86d00c2239a48ea20a0134", result.ID)
	assert.Equal(t, "lorem@mail.com", result.Email)
}

func TestAddUserValidationFailure(t *testing.T) {
	service := &mockService{addErr: models.NewValidationError("Required fields were not provided...",
		"User validation failed: Name, Email required!")}
	router, _ := newTestRouter(service)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", strings.NewReader(`{}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)

	var apiErr models.ApiError
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Code)
	assert.Contains(t, apiErr.Description, "Name, Email")
}

func TestAddUserConflict(t *testing.T) {
	service := &mockService{addErr: models.NewConflictError("User already has an account...")}
	router, _ := newTestRouter(service)

	body := strings.NewReader(`{"name":"Lorem","email":"lorem@mail.com"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", body)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusConflict, rr.Code)
}

func TestGetAllUsersOK(t *testing.T) {
	service := &mockService{all: []User{{ID: "5c86d00c2239a48ea20a0134", Name: "Lorem"}}}
	router, _ := newTestRouter(service)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users?page=2&limit=10", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var result []User
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	assert.Len(t, result, 1)
	assert.Equal(t, 2, service.receivedPage)
}

func TestGetUserByIDNotFound(t *testing.T) {
	router, _ := newTestRouter(&mockService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/5c86d00c2239a48ea20a0134", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)

	var apiErr models.ApiError
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &apiErr))
	assert.Equal(t, "User not found!", apiErr.Message)
}

func TestGetUserByIDCachesResult(t *testing.T) {
	service := &mockService{byID: &User{ID: "5c86d00c2239a48ea20a0134", Name: "Lorem"}}
	router, cache := newTestRouter(service)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/5c86d00c2239a48ea20a0134", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, cache.store, "users:5c86d00c2239a48ea20a0134")
}

func TestUpdateUserNotFound(t *testing.T) {
	router, _ := newTestRouter(&mockService{})

	body := strings.NewReader(`{"name":"Lorem"}`)
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/users/5c86d00c2239a48ea20a0134", body)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRemoveUserNoContent(t *testing.T) {
	router, _ := newTestRouter(&mockService{removed: true})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/users/5c86d00c2239a48ea20a0134", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rr.Body.String())
}

func TestRemoveUserNotFound(t *testing.T) {
	router, _ := newTestRouter(&mockService{removed: false})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/users/5c86d00c2239a48ea20a0134", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRepositoryErrorMapsTo500(t *testing.T) {
	service := &mockService{err: models.NewRepositoryError("An internal error has occurred in the database!",
		"Please try again later...")}
	router, _ := newTestRouter(service)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusInternalServerError, rr.Code)
}
