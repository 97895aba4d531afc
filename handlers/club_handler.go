package handlers

import (
	"net/http"
	"strconv"

	apperrors "github.com/campusconnect/campus-backend/errors"
	"github.com/campusconnect/campus-backend/types"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ClubHandler serves the club directory, membership and club feeds.
type ClubHandler struct {
	clubs          ClubServiceInterface
	maxUploadBytes int64
	logger         *zap.Logger
}

func NewClubHandler(clubs ClubServiceInterface, maxUploadBytes int64, logger *zap.Logger) *ClubHandler {
	return &ClubHandler{clubs: clubs, maxUploadBytes: maxUploadBytes, logger: logger.Named("ClubHandler")}
}

// ListClubsHandler godoc
// @Summary List clubs
// @Description Lists clubs sorted by name, optionally filtered by search text and category
// @Tags clubs
// @Produce json
// @Param search query string false "Case-insensitive match on name or description"
// @Param category query string false "Club category, or all"
// @Success 200 {array} docs.ClubResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /clubs [get]
// @Security BearerAuth
func (h *ClubHandler) ListClubsHandler(c *gin.Context) {
	var filter types.ClubFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		_ = c.Error(apperrors.ValidationFailed("Invalid query parameters", err.Error()))
		return
	}
	clubs, err := h.clubs.ListClubs(c.Request.Context(), filter)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, clubs)
}

// TopClubsHandler godoc
// @Summary Top clubs
// @Description Returns the clubs with the most members
// @Tags clubs
// @Produce json
// @Param limit query int false "Number of clubs (default 5)"
// @Success 200 {array} types.Club
// @Router /clubs/top [get]
// @Security BearerAuth
func (h *ClubHandler) TopClubsHandler(c *gin.Context) {
	n, _ := strconv.Atoi(c.Query("limit"))
	clubs, err := h.clubs.TopClubs(c.Request.Context(), n)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, clubs)
}

// GetClubHandler godoc
// @Summary Get a club
// @Tags clubs
// @Produce json
// @Param id path string true "Club ID"
// @Success 200 {object} types.Club
// @Failure 404 {object} middleware.ErrorResponse
// @Router /clubs/{id} [get]
// @Security BearerAuth
func (h *ClubHandler) GetClubHandler(c *gin.Context) {
	club, err := h.clubs.GetClub(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, club)
}

// JoinClubHandler godoc
// @Summary Join a club
// @Tags clubs
// @Produce json
// @Param id path string true "Club ID"
// @Success 200 {object} types.MembershipPayload
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse "Already a member"
// @Router /clubs/{id}/join [post]
// @Security BearerAuth
func (h *ClubHandler) JoinClubHandler(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	res, err := h.clubs.JoinClub(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// LeaveClubHandler godoc
// @Summary Leave a club
// @Tags clubs
// @Produce json
// @Param id path string true "Club ID"
// @Success 200 {object} types.MembershipPayload
// @Failure 404 {object} middleware.ErrorResponse "Not a member"
// @Router /clubs/{id}/join [delete]
// @Security BearerAuth
func (h *ClubHandler) LeaveClubHandler(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	res, err := h.clubs.LeaveClub(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ListMembersHandler godoc
// @Summary List club members
// @Tags clubs
// @Produce json
// @Param id path string true "Club ID"
// @Success 200 {array} types.ClubMember
// @Router /clubs/{id}/members [get]
// @Security BearerAuth
func (h *ClubHandler) ListMembersHandler(c *gin.Context) {
	members, err := h.clubs.GetClubMembers(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, members)
}

// JoinedClubsHandler godoc
// @Summary IDs of the clubs the caller joined
// @Tags clubs
// @Produce json
// @Success 200 {array} string
// @Router /clubs/joined [get]
// @Security BearerAuth
func (h *ClubHandler) JoinedClubsHandler(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	ids, err := h.clubs.GetJoinedClubs(c.Request.Context(), actor)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ids)
}

// ListPostsHandler godoc
// @Summary Club feed
// @Description Posts of a club, newest first
// @Tags posts
// @Produce json
// @Param id path string true "Club ID"
// @Success 200 {array} types.ClubPost
// @Router /clubs/{id}/posts [get]
// @Security BearerAuth
func (h *ClubHandler) ListPostsHandler(c *gin.Context) {
	posts, err := h.clubs.GetClubPosts(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// CreatePostHandler godoc
// @Summary Post to a club
// @Description Accepts JSON or multipart form data with content and an optional image file
// @Tags posts
// @Accept json,mpfd
// @Produce json
// @Param id path string true "Club ID"
// @Param request body types.NewPostInput false "Post content"
// @Param image formData file false "Optional image"
// @Success 201 {object} types.ClubPost
// @Failure 400 {object} middleware.ErrorResponse
// @Router /clubs/{id}/posts [post]
// @Security BearerAuth
func (h *ClubHandler) CreatePostHandler(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}

	var input types.NewPostInput
	if isMultipart(c) {
		input.Content = c.PostForm("content")
		img, err := readImage(c, "image", h.maxUploadBytes)
		if err != nil {
			_ = c.Error(err)
			return
		}
		input.Image = img
	} else if !bindJSONOrError(c, &input) {
		return
	}

	post, err := h.clubs.PostToClub(c.Request.Context(), actor, c.Param("id"), input)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

// EditPostRequest is the body of an edit.
type EditPostRequest struct {
	Content string `json:"content"`
}

// EditPostHandler godoc
// @Summary Edit a post
// @Tags posts
// @Accept json
// @Produce json
// @Param postId path string true "Post ID"
// @Param request body EditPostRequest true "New content"
// @Success 200 {object} types.ClubPost
// @Failure 403 {object} middleware.ErrorResponse "Not the author"
// @Router /posts/{postId} [put]
// @Security BearerAuth
func (h *ClubHandler) EditPostHandler(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	var req EditPostRequest
	if !bindJSONOrError(c, &req) {
		return
	}
	post, err := h.clubs.EditPost(c.Request.Context(), actor, c.Param("postId"), req.Content)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// DeletePostHandler godoc
// @Summary Delete a post
// @Tags posts
// @Param postId path string true "Post ID"
// @Success 204
// @Failure 403 {object} middleware.ErrorResponse "Not the author"
// @Router /posts/{postId} [delete]
// @Security BearerAuth
func (h *ClubHandler) DeletePostHandler(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	if err := h.clubs.DeletePost(c.Request.Context(), actor, c.Param("postId")); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// LikePostHandler godoc
// @Summary Toggle a like
// @Tags posts
// @Produce json
// @Param postId path string true "Post ID"
// @Success 200 {object} types.ClubPost
// @Router /posts/{postId}/like [post]
// @Security BearerAuth
func (h *ClubHandler) LikePostHandler(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	post, err := h.clubs.LikePost(c.Request.Context(), actor, c.Param("postId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, post)
}
