package handlers_test

import (
	"net/http"
	"testing"

	apperrors "github.com/campusconnect/campus-backend/errors"
	"github.com/campusconnect/campus-backend/handlers"
	"github.com/campusconnect/campus-backend/handlers/mocks"
	ierrors "github.com/campusconnect/campus-backend/internal/errors"
	"github.com/campusconnect/campus-backend/store"
	"github.com/campusconnect/campus-backend/types"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func setupLostFoundRouter(svc *mocks.LostFoundService) *gin.Engine {
	h := handlers.NewLostFoundHandler(svc, 1<<20, zap.NewNop())
	r := newTestRouter(&alice)
	r.GET("/v1/lost-found", h.ListItemsHandler)
	r.POST("/v1/lost-found", h.CreateItemHandler)
	r.GET("/v1/lost-found/:id", h.GetItemHandler)
	r.POST("/v1/lost-found/:id/resolve", h.ResolveItemHandler)
	r.POST("/v1/lost-found/:id/contact", h.ContactReporterHandler)
	r.GET("/v1/lost-found/:id/comments", h.ListCommentsHandler)
	r.POST("/v1/lost-found/:id/comments", h.AddCommentHandler)
	r.DELETE("/v1/lost-found/:id/comments/:commentId", h.DeleteCommentHandler)
	return r
}

func TestListItemsHandler_PassesFilter(t *testing.T) {
	svc := &mocks.LostFoundService{}
	svc.On("ListItems", mock.Anything, types.LostFoundFilter{Type: "lost", Category: "electronics", Search: "airpods"}).
		Return([]types.LostFoundItem{{ID: "i1", Title: "AirPods", Type: types.LostFoundType("lost")}}, nil)
	r := setupLostFoundRouter(svc)

	w := doJSON(r, http.MethodGet, "/v1/lost-found?type=lost&category=electronics&search=airpods", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var items []types.LostFoundItem
	decode(t, w, &items)
	assert.Len(t, items, 1)
	svc.AssertExpectations(t)
}

func TestGetItemHandler_NotFound(t *testing.T) {
	svc := &mocks.LostFoundService{}
	svc.On("GetItem", mock.Anything, "gone").Return(nil, ierrors.FromStore(store.ErrNotFound, "Item", "gone"))
	r := setupLostFoundRouter(svc)

	assert.Equal(t, http.StatusNotFound, doJSON(r, http.MethodGet, "/v1/lost-found/gone", nil).Code)
}

func TestCreateItemHandler(t *testing.T) {
	fields := map[string]string{
		"title": "Blue umbrella", "description": "Left in the library", "category": "accessories",
		"location": "Library", "date": "2026-02-01", "type": "found", "reporterContact": "alice@campus.edu",
	}

	t.Run("multipart with image", func(t *testing.T) {
		svc := &mocks.LostFoundService{}
		svc.On("CreateItem", mock.Anything, alice, mock.MatchedBy(func(in types.NewLostFoundInput) bool {
			return in.Title == "Blue umbrella" && string(in.Type) == "found" && in.Image != nil && string(in.Image.Data) == "PNGDATA"
		})).Return(&types.LostFoundItem{ID: "i2", Title: "Blue umbrella"}, nil)
		r := setupLostFoundRouter(svc)

		w := doMultipart(t, r, http.MethodPost, "/v1/lost-found", fields, "image", "umbrella.png", []byte("PNGDATA"))
		assert.Equal(t, http.StatusCreated, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("validation error", func(t *testing.T) {
		svc := &mocks.LostFoundService{}
		svc.On("CreateItem", mock.Anything, alice, mock.Anything).
			Return(nil, apperrors.ValidationFailed("Invalid lost and found item", "title is required"))
		r := setupLostFoundRouter(svc)

		w := doJSON(r, http.MethodPost, "/v1/lost-found", map[string]string{"description": "no title"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, string(apperrors.ValidationError), errorBody(t, w).Type)
	})
}

func TestResolveItemHandler(t *testing.T) {
	svc := &mocks.LostFoundService{}
	svc.On("ResolveItem", mock.Anything, alice, "i1").Return(nil)
	svc.On("ResolveItem", mock.Anything, alice, "i2").Return(ierrors.NotOwner("Only the reporter can resolve this item"))
	r := setupLostFoundRouter(svc)

	w := doJSON(r, http.MethodPost, "/v1/lost-found/i1/resolve", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var msg handlers.MessageResponse
	decode(t, w, &msg)
	assert.Equal(t, "Item marked as resolved", msg.Message)

	w = doJSON(r, http.MethodPost, "/v1/lost-found/i2/resolve", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, ierrors.ErrNotOwner, errorBody(t, w).Code)
}

func TestContactReporterHandler(t *testing.T) {
	svc := &mocks.LostFoundService{}
	svc.On("ContactReporter", mock.Anything, alice, "i1", "").Return(&types.ContactResult{ChatID: "ch1", MessageID: "m1"}, nil)
	svc.On("ContactReporter", mock.Anything, alice, "i1", "Is it still there?").Return(&types.ContactResult{ChatID: "ch1", MessageID: "m2"}, nil)
	r := setupLostFoundRouter(svc)

	w := doJSON(r, http.MethodPost, "/v1/lost-found/i1/contact", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"chatId":"ch1","messageId":"m1"}`, w.Body.String())

	w = doJSON(r, http.MethodPost, "/v1/lost-found/i1/contact", handlers.ContactRequest{Message: "Is it still there?"})
	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestLostFoundCommentHandlers(t *testing.T) {
	svc := &mocks.LostFoundService{}
	svc.On("AddComment", mock.Anything, alice, "i1", "I saw one at the desk").
		Return(&types.Comment{ID: "c1", ParentID: "i1", AuthorID: "u1", Content: "I saw one at the desk"}, nil)
	svc.On("DeleteComment", mock.Anything, alice, "i1", "c1").Return(nil)
	r := setupLostFoundRouter(svc)

	w := doJSON(r, http.MethodPost, "/v1/lost-found/i1/comments", handlers.CommentRequest{Content: "I saw one at the desk"})
	assert.Equal(t, http.StatusCreated, w.Code)

	assert.Equal(t, http.StatusNoContent, doJSON(r, http.MethodDelete, "/v1/lost-found/i1/comments/c1", nil).Code)
	svc.AssertExpectations(t)
}
