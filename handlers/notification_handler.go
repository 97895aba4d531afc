package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NotificationHandler handles HTTP requests related to notifications.
type NotificationHandler struct {
	notifications NotificationServiceInterface
	logger        *zap.Logger
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(ns NotificationServiceInterface, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{notifications: ns, logger: logger.Named("NotificationHandler")}
}

// UnreadCountResponse carries the badge count.
type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

// MarkAllResponse reports how many notifications were marked read.
type MarkAllResponse struct {
	Updated int64 `json:"updated"`
}

// GetNotificationsHandler godoc
// @Summary Get user notifications
// @Description All notifications of the caller, newest first
// @Tags notifications
// @Produce json
// @Success 200 {array} docs.NotificationResponse
// @Failure 401 {object} docs.ErrorResponse
// @Router /notifications [get]
// @Security BearerAuth
func (h *NotificationHandler) GetNotificationsHandler(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	list, err := h.notifications.GetNotifications(c.Request.Context(), actor)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// RecentNotificationsHandler godoc
// @Summary Recent notifications
// @Tags notifications
// @Produce json
// @Param limit query int false "How many (default 5)"
// @Success 200 {array} docs.NotificationResponse
// @Router /notifications/recent [get]
// @Security BearerAuth
func (h *NotificationHandler) RecentNotificationsHandler(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	n, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil || n < 0 {
		h.logger.Debug("Invalid limit query parameter, using default", zap.String("limit", c.Query("limit")))
		n = 0
	}
	list, err := h.notifications.Recent(c.Request.Context(), actor, n)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// UnreadCountHandler godoc
// @Summary Unread notification count
// @Tags notifications
// @Produce json
// @Success 200 {object} UnreadCountResponse
// @Router /notifications/unread-count [get]
// @Security BearerAuth
func (h *NotificationHandler) UnreadCountHandler(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	count, err := h.notifications.UnreadCount(c.Request.Context(), actor)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, UnreadCountResponse{Count: count})
}

// MarkReadHandler godoc
// @Summary Mark a notification read
// @Tags notifications
// @Param id path string true "Notification ID"
// @Success 204
// @Failure 403 {object} middleware.ErrorResponse "Addressed to another user"
// @Failure 404 {object} middleware.ErrorResponse
// @Router /notifications/{id}/read [patch]
// @Security BearerAuth
func (h *NotificationHandler) MarkReadHandler(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	if err := h.notifications.MarkNotificationAsRead(c.Request.Context(), actor, c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MarkAllReadHandler godoc
// @Summary Mark every notification read
// @Tags notifications
// @Produce json
// @Success 200 {object} MarkAllResponse
// @Router /notifications/read-all [patch]
// @Security BearerAuth
func (h *NotificationHandler) MarkAllReadHandler(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	n, err := h.notifications.MarkAllNotificationsAsRead(c.Request.Context(), actor)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, MarkAllResponse{Updated: n})
}

// AcceptFriendRequestHandler godoc
// @Summary Accept a friend request
// @Tags notifications
// @Produce json
// @Param id path string true "Notification ID"
// @Success 200 {object} MessageResponse
// @Failure 409 {object} middleware.ErrorResponse "Request no longer pending"
// @Router /notifications/{id}/accept [post]
// @Security BearerAuth
func (h *NotificationHandler) AcceptFriendRequestHandler(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	if err := h.notifications.AcceptFriendRequest(c.Request.Context(), actor, c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Friend request accepted"})
}

// DeclineFriendRequestHandler godoc
// @Summary Decline a friend request
// @Tags notifications
// @Produce json
// @Param id path string true "Notification ID"
// @Success 200 {object} MessageResponse
// @Router /notifications/{id}/decline [post]
// @Security BearerAuth
func (h *NotificationHandler) DeclineFriendRequestHandler(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	if err := h.notifications.DeclineFriendRequest(c.Request.Context(), actor, c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Friend request declined"})
}
