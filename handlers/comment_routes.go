package handlers

import (
	"context"
	"net/http"

	"github.com/campusconnect/campus-backend/types"
	"github.com/gin-gonic/gin"
)

// CommentRequest is the body of a new comment.
type CommentRequest struct {
	Content string `json:"content"`
}

// commentOps is the comment surface shared by events and lost-and-found items.
type commentOps struct {
	list   func(ctx context.Context, parentID string) ([]types.Comment, error)
	add    func(ctx context.Context, actor types.Actor, parentID, content string) (*types.Comment, error)
	remove func(ctx context.Context, actor types.Actor, parentID, commentID string) error
}

func (o commentOps) listHandler(c *gin.Context) {
	comments, err := o.list(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

func (o commentOps) addHandler(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	var req CommentRequest
	if !bindJSONOrError(c, &req) {
		return
	}
	comment, err := o.add(c.Request.Context(), actor, c.Param("id"), req.Content)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (o commentOps) deleteHandler(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	if err := o.remove(c.Request.Context(), actor, c.Param("id"), c.Param("commentId")); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
