package handlers

import (
	"net/http"

	apperrors "github.com/campusconnect/campus-backend/errors"
	"github.com/campusconnect/campus-backend/types"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SettingsHandler serves the caller's profile, preferences and account.
type SettingsHandler struct {
	settings       SettingsServiceInterface
	maxUploadBytes int64
	logger         *zap.Logger
}

func NewSettingsHandler(settings SettingsServiceInterface, maxUploadBytes int64, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{settings: settings, maxUploadBytes: maxUploadBytes, logger: logger.Named("SettingsHandler")}
}

// PhotoResponse carries the stored profile photo URL.
type PhotoResponse struct {
	ProfilePic string `json:"profilePic"`
}

// GetSettingsHandler godoc
// @Summary Get settings
// @Description Returns the caller's profile, creating it from the token claims on first use
// @Tags settings
// @Produce json
// @Success 200 {object} types.SettingsView
// @Router /settings [get]
// @Security BearerAuth
func (h *SettingsHandler) GetSettingsHandler(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	view, err := h.settings.GetSettings(c.Request.Context(), actor)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// UpdateProfileHandler godoc
// @Summary Update profile
// @Tags settings
// @Accept json
// @Produce json
// @Param request body types.ProfileUpdate true "Profile fields"
// @Success 200 {object} types.UserProfile
// @Failure 400 {object} middleware.ErrorResponse
// @Router /settings/profile [put]
// @Security BearerAuth
func (h *SettingsHandler) UpdateProfileHandler(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	var update types.ProfileUpdate
	if !bindJSONOrError(c, &update) {
		return
	}
	profile, err := h.settings.UpdateProfile(c.Request.Context(), actor, update)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateNotificationSettingsHandler godoc
// @Summary Update notification preferences
// @Tags settings
// @Accept json
// @Produce json
// @Param request body types.NotificationSettings true "Preferences"
// @Success 200 {object} types.NotificationSettings
// @Router /settings/notifications [put]
// @Security BearerAuth
func (h *SettingsHandler) UpdateNotificationSettingsHandler(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	var settings types.NotificationSettings
	if !bindJSONOrError(c, &settings) {
		return
	}
	if err := h.settings.UpdateNotificationSettings(c.Request.Context(), actor, settings); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UploadProfilePhotoHandler godoc
// @Summary Upload a profile photo
// @Tags settings
// @Accept mpfd
// @Produce json
// @Param photo formData file true "Image"
// @Success 200 {object} PhotoResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /settings/profile-photo [post]
// @Security BearerAuth
func (h *SettingsHandler) UploadProfilePhotoHandler(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	img, err := readImage(c, "photo", h.maxUploadBytes)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if img == nil {
		_ = c.Error(apperrors.ValidationFailed("A photo file is required", "photo"))
		return
	}
	url, err := h.settings.UploadProfilePhoto(c.Request.Context(), actor, *img)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, PhotoResponse{ProfilePic: url})
}

// DeleteAccountHandler godoc
// @Summary Delete account
// @Description Removes memberships, RSVPs, notifications, the profile photo and the profile
// @Tags settings
// @Success 204
// @Router /settings/account [delete]
// @Security BearerAuth
func (h *SettingsHandler) DeleteAccountHandler(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	if err := h.settings.DeleteAccount(c.Request.Context(), actor); err != nil {
		_ = c.Error(err)
		return
	}
	h.logger.Info("Account deleted", zap.String("userID", actor.UserID))
	c.Status(http.StatusNoContent)
}
