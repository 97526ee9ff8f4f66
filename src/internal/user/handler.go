package user

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"activity-tracking-svc/src/internal/cache"
	"activity-tracking-svc/src/internal/config"
	"activity-tracking-svc/src/internal/models"
	"activity-tracking-svc/src/internal/query"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Handler interface {
	AddUser(c *gin.Context)
	GetAllUsers(c *gin.Context)
	GetUserByID(c *gin.Context)
	UpdateUser(c *gin.Context)
	RemoveUser(c *gin.Context)
}

type handler struct {
	config       *config.Configuration
	service      Service
	cacheService cache.Service
}

func NewHandler(cfg *config.Configuration, service Service, cacheService cache.Service) Handler {
	return &handler{
		config:       cfg,
		service:      service,
		cacheService: cacheService,
	}
}

type userRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (h *handler) AddUser(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	var body userRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, models.NewValidationError("Invalid request body!", err.Error()))
		return
	}

	result, err := h.service.Add(ctx, &User{Name: body.Name, Email: body.Email})
	if err != nil {
		logrus.WithError(err).Debug("Failed to add user")
		respondError(c, err)
		return
	}

	logrus.WithField("user_id", result.ID).Info("User created")
	c.JSON(http.StatusCreated, result)
}

func (h *handler) GetAllUsers(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	result, err := h.service.GetAll(ctx, queryFromRequest(c))
	if err != nil {
		logrus.WithError(err).Error("Failed to get users")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *handler) GetUserByID(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	id := c.Param("user_id")

	if cached, err := h.cacheService.Get(ctx, cacheKey(id)); err == nil && cached != nil {
		var item User
		if err := json.Unmarshal(cached, &item); err == nil {
			c.JSON(http.StatusOK, &item)
			return
		}
	}

	result, err := h.service.GetByID(ctx, id, queryFromRequest(c))
	if err != nil {
		logrus.WithError(err).Error("Failed to get user")
		respondError(c, err)
		return
	}
	if result == nil {
		c.JSON(http.StatusNotFound, notFoundUser())
		return
	}

	if err := h.cacheService.Set(ctx, cacheKey(id), result); err != nil {
		logrus.WithError(err).Debug("Failed to cache user")
	}

	c.JSON(http.StatusOK, result)
}

func (h *handler) UpdateUser(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	var body userRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, models.NewValidationError("Invalid request body!", err.Error()))
		return
	}

	item := &User{ID: c.Param("user_id"), Name: body.Name, Email: body.Email}
	result, err := h.service.Update(ctx, item)
	if err != nil {
		logrus.WithError(err).Error("Failed to update user")
		respondError(c, err)
		return
	}
	if result == nil {
		c.JSON(http.StatusNotFound, notFoundUser())
		return
	}

	if err := h.cacheService.Invalidate(ctx, cacheKey(item.ID)); err != nil {
		logrus.WithError(err).Debug("Failed to invalidate cached user")
	}

	c.JSON(http.StatusOK, result)
}

func (h *handler) RemoveUser(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	id := c.Param("user_id")
	removed, err := h.service.Remove(ctx, id)
	if err != nil {
		logrus.WithError(err).Error("Failed to remove user")
		respondError(c, err)
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, notFoundUser())
		return
	}

	if err := h.cacheService.Invalidate(ctx, cacheKey(id)); err != nil {
		logrus.WithError(err).Debug("Failed to invalidate cached user")
	}

	c.Status(http.StatusNoContent)
}

func (h *handler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), time.Duration(h.config.App.Timeout)*time.Second)
}

func queryFromRequest(c *gin.Context) *query.Query {
	q := query.New()
	q.Pagination.Limit = query.DefaultHTTPLimit
	return q.Deserialize(c.Request.URL.Query())
}

func respondError(c *gin.Context, err error) {
	apiErr := models.BuildApiError(err)
	c.JSON(apiErr.Code, apiErr)
}

func notFoundUser() *models.ApiError {
	return models.NotFound("User not found!",
		"User not found or already removed. A new operation for the same resource is not required!")
}

func cacheKey(id string) string {
	return "users:" + id
}
