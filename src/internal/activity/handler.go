package activity

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"activity-tracking-svc/src/internal/cache"
	"activity-tracking-svc/src/internal/config"
	"activity-tracking-svc/src/internal/models"
	"activity-tracking-svc/src/internal/query"
	"activity-tracking-svc/src/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Handler interface {
	AddActivity(c *gin.Context)
	GetAllActivities(c *gin.Context)
	GetActivityByID(c *gin.Context)
	UpdateActivity(c *gin.Context)
	RemoveActivity(c *gin.Context)
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

func (h *handler) AddActivity(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	var item Activity
	if err := c.ShouldBindJSON(&item); err != nil {
		respondError(c, models.NewValidationError("Invalid request body!", err.Error()))
		return
	}

	// The path owns the user reference, whatever the body says.
	item.ID = ""
	item.User = &user.User{ID: c.Param("user_id")}

	result, err := h.service.Add(ctx, &item)
	if err != nil {
		logrus.WithError(err).Debug("Failed to add activity")
		respondError(c, err)
		return
	}

	logrus.WithFields(logrus.Fields{
		"activity_id": result.ID,
		"user_id":     c.Param("user_id"),
	}).Info("Activity created")
	c.JSON(http.StatusCreated, result)
}

func (h *handler) GetAllActivities(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	q := queryFromRequest(c)
	q.Filters["user"] = c.Param("user_id")

	result, err := h.service.GetAll(ctx, q)
	if err != nil {
		logrus.WithError(err).Error("Failed to get activities")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *handler) GetActivityByID(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	id := c.Param("activity_id")

	if cached, err := h.cacheService.Get(ctx, cacheKey(id)); err == nil && cached != nil {
		var item Activity
		if err := json.Unmarshal(cached, &item); err == nil {
			c.JSON(http.StatusOK, &item)
			return
		}
	}

	result, err := h.service.GetByID(ctx, id, queryFromRequest(c))
	if err != nil {
		logrus.WithError(err).Error("Failed to get activity")
		respondError(c, err)
		return
	}
	if result == nil {
		c.JSON(http.StatusNotFound, notFoundActivity())
		return
	}

	if err := h.cacheService.Set(ctx, cacheKey(id), result); err != nil {
		logrus.WithError(err).Debug("Failed to cache activity")
	}

	c.JSON(http.StatusOK, result)
}

func (h *handler) UpdateActivity(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	var item Activity
	if err := c.ShouldBindJSON(&item); err != nil {
		respondError(c, models.NewValidationError("Invalid request body!", err.Error()))
		return
	}

	item.ID = c.Param("activity_id")
	item.User = nil // ownership never changes through an update

	result, err := h.service.Update(ctx, &item)
	if err != nil {
		logrus.WithError(err).Error("Failed to update activity")
		respondError(c, err)
		return
	}
	if result == nil {
		c.JSON(http.StatusNotFound, notFoundActivity())
		return
	}

	if err := h.cacheService.Invalidate(ctx, cacheKey(item.ID)); err != nil {
		logrus.WithError(err).Debug("Failed to invalidate cached activity")
	}

	c.JSON(http.StatusOK, result)
}

func (h *handler) RemoveActivity(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	id := c.Param("activity_id")
	removed, err := h.service.Remove(ctx, id)
	if err != nil {
		logrus.WithError(err).Error("Failed to remove activity")
		respondError(c, err)
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, notFoundActivity())
		return
	}

	if err := h.cacheService.Invalidate(ctx, cacheKey(id)); err != nil {
		logrus.WithError(err).Debug("Failed to invalidate cached activity")
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

func notFoundActivity() *models.ApiError {
	return models.NotFound("Activity not found!",
		"Activity not found or already removed. A new operation for the same resource is not required!")
}

func cacheKey(id string) string {
	return "activities:" + id
}
