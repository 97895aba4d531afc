package handlers_test

import (
	"net/http"
	"testing"

	"github.com/campusconnect/campus-backend/handlers"
	"github.com/campusconnect/campus-backend/handlers/mocks"
	"github.com/campusconnect/campus-backend/types"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func setupSettingsRouter(svc *mocks.SettingsService, maxUpload int64) *gin.Engine {
	h := handlers.NewSettingsHandler(svc, maxUpload, zap.NewNop())
	r := newTestRouter(&alice)
	r.GET("/v1/settings", h.GetSettingsHandler)
	r.PUT("/v1/settings/profile", h.UpdateProfileHandler)
	r.PUT("/v1/settings/notifications", h.UpdateNotificationSettingsHandler)
	r.POST("/v1/settings/profile-photo", h.UploadProfilePhotoHandler)
	r.DELETE("/v1/settings/account", h.DeleteAccountHandler)
	return r
}

func TestGetSettingsHandler(t *testing.T) {
	svc := &mocks.SettingsService{}
	svc.On("GetSettings", mock.Anything, alice).Return(&types.SettingsView{
		Profile: types.UserProfile{ID: "u1", DisplayName: "Alice"},
		Initial: "A",
	}, nil)
	r := setupSettingsRouter(svc, 1<<20)

	w := doJSON(r, http.MethodGet, "/v1/settings", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var view types.SettingsView
	decode(t, w, &view)
	assert.Equal(t, "A", view.Initial)
	assert.Equal(t, "Alice", view.Profile.DisplayName)
}

func TestUpdateProfileHandler(t *testing.T) {
	svc := &mocks.SettingsService{}
	svc.On("UpdateProfile", mock.Anything, alice, types.ProfileUpdate{DisplayName: "Alice B", Major: "Physics"}).
		Return(&types.UserProfile{ID: "u1", DisplayName: "Alice B", Major: "Physics"}, nil)
	r := setupSettingsRouter(svc, 1<<20)

	w := doJSON(r, http.MethodPut, "/v1/settings/profile", types.ProfileUpdate{DisplayName: "Alice B", Major: "Physics"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPut, "/v1/settings/profile", map[string]string{"major": "Physics"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertExpectations(t)
}

func TestUpdateNotificationSettingsHandler(t *testing.T) {
	svc := &mocks.SettingsService{}
	want := types.NotificationSettings{FriendRequests: true, Likes: false, Comments: true, Messages: false}
	svc.On("UpdateNotificationSettings", mock.Anything, alice, want).Return(nil)
	r := setupSettingsRouter(svc, 1<<20)

	w := doJSON(r, http.MethodPut, "/v1/settings/notifications", want)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"friendRequests":true,"likes":false,"comments":true,"messages":false}`, w.Body.String())
	svc.AssertExpectations(t)
}

func TestUploadProfilePhotoHandler(t *testing.T) {
	tests := []struct {
		name       string
		field      string
		content    []byte
		setup      func(*mocks.SettingsService)
		wantStatus int
	}{
		{
			name:    "uploaded",
			field:   "photo",
			content: []byte("JPEGDATA"),
			setup: func(svc *mocks.SettingsService) {
				svc.On("UploadProfilePhoto", mock.Anything, alice, types.ImageUpload{Filename: "me.jpg", Data: []byte("JPEGDATA")}).
					Return("https://cdn.campus.test/profile-photos/u1.jpg", nil)
			},
			wantStatus: http.StatusOK,
		},
		{name: "missing file", field: "", wantStatus: http.StatusBadRequest},
		{name: "too large", field: "photo", content: make([]byte, 64), wantStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mocks.SettingsService{}
			if tt.setup != nil {
				tt.setup(svc)
			}
			limit := int64(1 << 20)
			if tt.name == "too large" {
				limit = 16
			}
			r := setupSettingsRouter(svc, limit)

			w := doMultipart(t, r, http.MethodPost, "/v1/settings/profile-photo", nil, tt.field, "me.jpg", tt.content)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				var resp handlers.PhotoResponse
				decode(t, w, &resp)
				assert.Equal(t, "https://cdn.campus.test/profile-photos/u1.jpg", resp.ProfilePic)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestDeleteAccountHandler(t *testing.T) {
	svc := &mocks.SettingsService{}
	svc.On("DeleteAccount", mock.Anything, alice).Return(nil)
	r := setupSettingsRouter(svc, 1<<20)

	assert.Equal(t, http.StatusNoContent, doJSON(r, http.MethodDelete, "/v1/settings/account", nil).Code)
	svc.AssertExpectations(t)
}
