package handlers

import (
	"net/http"

	apperrors "github.com/campusconnect/campus-backend/errors"
	"github.com/campusconnect/campus-backend/types"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// EventHandler serves campus events, RSVPs and event comments.
type EventHandler struct {
	events         EventServiceInterface
	comments       commentOps
	maxUploadBytes int64
	logger         *zap.Logger
}

func NewEventHandler(events EventServiceInterface, maxUploadBytes int64, logger *zap.Logger) *EventHandler {
	return &EventHandler{
		events:         events,
		comments:       commentOps{list: events.ListComments, add: events.AddComment, remove: events.DeleteComment},
		maxUploadBytes: maxUploadBytes,
		logger:         logger.Named("EventHandler"),
	}
}

// ListEventsHandler godoc
// @Summary List events
// @Description Events by date ascending, optionally filtered by category
// @Tags events
// @Produce json
// @Param category query string false "Event category, or all"
// @Success 200 {array} types.CampusEvent
// @Failure 400 {object} middleware.ErrorResponse
// @Router /events [get]
// @Security BearerAuth
func (h *EventHandler) ListEventsHandler(c *gin.Context) {
	list, err := h.events.ListEvents(c.Request.Context(), c.Query("category"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetEventHandler godoc
// @Summary Get an event
// @Tags events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} types.CampusEvent
// @Failure 404 {object} middleware.ErrorResponse
// @Router /events/{id} [get]
// @Security BearerAuth
func (h *EventHandler) GetEventHandler(c *gin.Context) {
	e, err := h.events.GetEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, e)
}

// CreateEventHandler godoc
// @Summary Create an event
// @Description Accepts JSON or multipart form data with an optional image file
// @Tags events
// @Accept json,mpfd
// @Produce json
// @Param request body types.NewEventInput false "Event"
// @Param image formData file false "Optional image"
// @Success 201 {object} types.CampusEvent
// @Failure 400 {object} middleware.ErrorResponse
// @Router /events [post]
// @Security BearerAuth
func (h *EventHandler) CreateEventHandler(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}

	var in types.NewEventInput
	if isMultipart(c) {
		if err := c.ShouldBind(&in); err != nil {
			_ = c.Error(apperrors.ValidationFailed("Invalid event form", err.Error()))
			return
		}
		img, err := readImage(c, "image", h.maxUploadBytes)
		if err != nil {
			_ = c.Error(err)
			return
		}
		in.Image = img
	} else if !bindJSONOrError(c, &in) {
		return
	}

	e, err := h.events.CreateEvent(c.Request.Context(), actor, in)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

// ToggleRSVPHandler godoc
// @Summary Toggle attendance
// @Tags events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} types.RSVPResult
// @Failure 409 {object} middleware.ErrorResponse "Event is full"
// @Router /events/{id}/rsvp [post]
// @Security BearerAuth
func (h *EventHandler) ToggleRSVPHandler(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	res, err := h.events.ToggleRSVP(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// CancelRSVPHandler godoc
// @Summary Cancel attendance
// @Tags events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} types.RSVPResult
// @Router /events/{id}/rsvp [delete]
// @Security BearerAuth
func (h *EventHandler) CancelRSVPHandler(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	res, err := h.events.CancelRSVP(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ListCommentsHandler godoc
// @Summary Event comments
// @Tags events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {array} types.Comment
// @Router /events/{id}/comments [get]
// @Security BearerAuth
func (h *EventHandler) ListCommentsHandler(c *gin.Context) { h.comments.listHandler(c) }

// AddCommentHandler godoc
// @Summary Comment on an event
// @Tags events
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body CommentRequest true "Comment"
// @Success 201 {object} types.Comment
// @Router /events/{id}/comments [post]
// @Security BearerAuth
func (h *EventHandler) AddCommentHandler(c *gin.Context) { h.comments.addHandler(c) }

// DeleteCommentHandler godoc
// @Summary Delete an event comment
// @Tags events
// @Param id path string true "Event ID"
// @Param commentId path string true "Comment ID"
// @Success 204
// @Failure 403 {object} middleware.ErrorResponse "Not the author"
// @Router /events/{id}/comments/{commentId} [delete]
// @Security BearerAuth
func (h *EventHandler) DeleteCommentHandler(c *gin.Context) { h.comments.deleteHandler(c) }
