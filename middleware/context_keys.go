package middleware

import (
	"github.com/campusconnect/campus-backend/types"
	"github.com/gin-gonic/gin"
)

// Keys set on the gin context by the middleware chain.
const (
	// UserIDKey holds the authenticated user's ID (string). The logger reads it.
	UserIDKey = "userID"
	// ActorKey holds the authenticated types.Actor.
	ActorKey = "actor"
)

// GetActor returns the actor stored by AuthMiddleware.
func GetActor(c *gin.Context) (types.Actor, bool) {
	v, ok := c.Get(ActorKey)
	if !ok {
		return types.Actor{}, false
	}
	actor, ok := v.(types.Actor)
	return actor, ok && actor.UserID != ""
}
