package middleware

import (
	"context"
	"errors"
	"strings"

	apperrors "github.com/campusconnect/campus-backend/errors"
	"github.com/campusconnect/campus-backend/logger"
	"github.com/campusconnect/campus-backend/types"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProfileLookup loads the stored profile of an authenticated user.
type ProfileLookup interface {
	GetProfile(ctx context.Context, id string) (*types.UserProfile, error)
}

// AuthMiddleware validates the bearer token and stores the resulting
// types.Actor on the context. When profiles is set, the display name and
// avatar from the stored profile win over the token claims. Websocket
// upgrades may pass the token as the "token" query parameter.
func AuthMiddleware(validator Validator, profiles ProfileLookup, log *zap.Logger) gin.HandlerFunc {
	log = log.Named("AuthMiddleware")
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			_ = c.Error(apperrors.Unauthorized("missing_token", "Authorization required"))
			c.Abort()
			return
		}

		actor, err := validator.Validate(token)
		if err != nil {
			log.Debug("Token rejected",
				zap.Error(err),
				zap.String("token", logger.MaskJWT(token)),
				zap.String("path", c.Request.URL.Path))
			if errors.Is(err, ErrTokenExpired) {
				_ = c.Error(apperrors.Unauthorized("token_expired", "Your session has expired"))
			} else {
				_ = c.Error(apperrors.Unauthorized("invalid_token", "Invalid authentication token"))
			}
			c.Abort()
			return
		}

		if profiles != nil {
			profile, err := profiles.GetProfile(c.Request.Context(), actor.UserID)
			if err == nil && profile != nil {
				actor = mergeProfile(actor, *profile)
			} else if err != nil && !apperrors.IsType(err, apperrors.NotFoundError) {
				log.Debug("Profile lookup failed, using token claims",
					zap.String("userID", actor.UserID), zap.Error(err))
			}
		}

		c.Set(UserIDKey, actor.UserID)
		c.Set(ActorKey, actor)
		c.Next()
	}
}

func mergeProfile(actor types.Actor, profile types.UserProfile) types.Actor {
	stored := profile.Actor()
	if strings.TrimSpace(stored.DisplayName) != "" {
		actor.DisplayName = stored.DisplayName
	}
	if stored.AvatarURL != "" {
		actor.AvatarURL = stored.AvatarURL
	}
	if actor.Email == "" {
		actor.Email = stored.Email
	}
	return actor
}

func bearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	isWebSocketUpgrade := strings.EqualFold(c.GetHeader("Upgrade"), "websocket")
	if isWebSocketUpgrade {
		return c.Query("token")
	}
	return ""
}
