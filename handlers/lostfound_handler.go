package handlers

import (
	"net/http"

	apperrors "github.com/campusconnect/campus-backend/errors"
	"github.com/campusconnect/campus-backend/types"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LostFoundHandler serves the lost-and-found board.
type LostFoundHandler struct {
	items          LostFoundServiceInterface
	comments       commentOps
	maxUploadBytes int64
	logger         *zap.Logger
}

func NewLostFoundHandler(items LostFoundServiceInterface, maxUploadBytes int64, logger *zap.Logger) *LostFoundHandler {
	return &LostFoundHandler{
		items:          items,
		comments:       commentOps{list: items.ListComments, add: items.AddComment, remove: items.DeleteComment},
		maxUploadBytes: maxUploadBytes,
		logger:         logger.Named("LostFoundHandler"),
	}
}

// ContactRequest optionally overrides the default contact message.
type ContactRequest struct {
	Message string `json:"message"`
}

// ListItemsHandler godoc
// @Summary List open items
// @Description Unresolved items newest first, filtered by type, category and search text
// @Tags lost-found
// @Produce json
// @Param type query string false "lost, found or all"
// @Param category query string false "Item category, or all"
// @Param search query string false "Match on title, description or location"
// @Success 200 {array} types.LostFoundItem
// @Failure 503 {object} middleware.ErrorResponse "Supabase unavailable"
// @Router /lost-found [get]
// @Security BearerAuth
func (h *LostFoundHandler) ListItemsHandler(c *gin.Context) {
	var filter types.LostFoundFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		_ = c.Error(apperrors.ValidationFailed("Invalid query parameters", err.Error()))
		return
	}
	items, err := h.items.ListItems(c.Request.Context(), filter)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetItemHandler godoc
// @Summary Get an item
// @Tags lost-found
// @Produce json
// @Param id path string true "Item ID"
// @Success 200 {object} types.LostFoundItem
// @Failure 404 {object} middleware.ErrorResponse
// @Router /lost-found/{id} [get]
// @Security BearerAuth
func (h *LostFoundHandler) GetItemHandler(c *gin.Context) {
	item, err := h.items.GetItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// CreateItemHandler godoc
// @Summary Report an item
// @Description Multipart form with every field and an optional image file. JSON without an image is also accepted.
// @Tags lost-found
// @Accept mpfd,json
// @Produce json
// @Param title formData string true "Title"
// @Param description formData string true "Description"
// @Param category formData string true "Category"
// @Param location formData string true "Where"
// @Param date formData string true "When"
// @Param type formData string true "lost or found"
// @Param reporterContact formData string true "Contact"
// @Param image formData file false "Optional image"
// @Success 201 {object} types.LostFoundItem
// @Failure 400 {object} middleware.ErrorResponse
// @Router /lost-found [post]
// @Security BearerAuth
func (h *LostFoundHandler) CreateItemHandler(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}

	var in types.NewLostFoundInput
	if isMultipart(c) {
		if err := c.ShouldBind(&in); err != nil {
			_ = c.Error(apperrors.ValidationFailed("Invalid item form", err.Error()))
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

	item, err := h.items.CreateItem(c.Request.Context(), actor, in)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// ResolveItemHandler godoc
// @Summary Mark an item resolved
// @Tags lost-found
// @Produce json
// @Param id path string true "Item ID"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} middleware.ErrorResponse "Not the reporter"
// @Router /lost-found/{id}/resolve [patch]
// @Security BearerAuth
func (h *LostFoundHandler) ResolveItemHandler(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	if err := h.items.ResolveItem(c.Request.Context(), actor, c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Item marked as resolved"})
}

// ContactReporterHandler godoc
// @Summary Contact the reporter
// @Description Opens or reuses a direct chat with the reporter and sends a message
// @Tags lost-found
// @Accept json
// @Produce json
// @Param id path string true "Item ID"
// @Param request body ContactRequest false "Optional message"
// @Success 200 {object} types.ContactResult
// @Failure 400 {object} middleware.ErrorResponse "Contacting yourself"
// @Router /lost-found/{id}/contact [post]
// @Security BearerAuth
func (h *LostFoundHandler) ContactReporterHandler(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	var req ContactRequest
	if c.Request.ContentLength != 0 && !bindJSONOrError(c, &req) {
		return
	}
	res, err := h.items.ContactReporter(c.Request.Context(), actor, c.Param("id"), req.Message)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ListCommentsHandler godoc
// @Summary Item comments
// @Tags lost-found
// @Produce json
// @Param id path string true "Item ID"
// @Success 200 {array} types.Comment
// @Router /lost-found/{id}/comments [get]
// @Security BearerAuth
func (h *LostFoundHandler) ListCommentsHandler(c *gin.Context) { h.comments.listHandler(c) }

// AddCommentHandler godoc
// @Summary Comment on an item
// @Tags lost-found
// @Accept json
// @Produce json
// @Param id path string true "Item ID"
// @Param request body CommentRequest true "Comment"
// @Success 201 {object} types.Comment
// @Router /lost-found/{id}/comments [post]
// @Security BearerAuth
func (h *LostFoundHandler) AddCommentHandler(c *gin.Context) { h.comments.addHandler(c) }

// DeleteCommentHandler godoc
// @Summary Delete an item comment
// @Tags lost-found
// @Param id path string true "Item ID"
// @Param commentId path string true "Comment ID"
// @Success 204
// @Router /lost-found/{id}/comments/{commentId} [delete]
// @Security BearerAuth
func (h *LostFoundHandler) DeleteCommentHandler(c *gin.Context) { h.comments.deleteHandler(c) }
