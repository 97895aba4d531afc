package handlers_test

import (
	"net/http"
	"testing"

	apperrors "github.com/campusconnect/campus-backend/errors"
	"github.com/campusconnect/campus-backend/handlers"
	"github.com/campusconnect/campus-backend/handlers/mocks"
	ierrors "github.com/campusconnect/campus-backend/internal/errors"
	"github.com/campusconnect/campus-backend/types"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func setupClubRouter(svc *mocks.ClubService, actor *types.Actor) *gin.Engine {
	h := handlers.NewClubHandler(svc, 1<<20, zap.NewNop())
	r := newTestRouter(actor)
	r.GET("/v1/clubs", h.ListClubsHandler)
	r.GET("/v1/clubs/top", h.TopClubsHandler)
	r.GET("/v1/clubs/joined", h.JoinedClubsHandler)
	r.GET("/v1/clubs/:id", h.GetClubHandler)
	r.POST("/v1/clubs/:id/join", h.JoinClubHandler)
	r.DELETE("/v1/clubs/:id/join", h.LeaveClubHandler)
	r.GET("/v1/clubs/:id/members", h.ListMembersHandler)
	r.GET("/v1/clubs/:id/posts", h.ListPostsHandler)
	r.POST("/v1/clubs/:id/posts", h.CreatePostHandler)
	r.PUT("/v1/posts/:postId", h.EditPostHandler)
	r.DELETE("/v1/posts/:postId", h.DeletePostHandler)
	r.POST("/v1/posts/:postId/like", h.LikePostHandler)
	return r
}

func TestListClubsHandler_PassesFilter(t *testing.T) {
	svc := &mocks.ClubService{}
	svc.On("ListClubs", mock.Anything, types.ClubFilter{Search: "chess", Category: "academic"}).
		Return([]types.Club{{ID: "c1", Name: "Chess Club", MemberCount: 3}}, nil)
	r := setupClubRouter(svc, &alice)

	w := doJSON(r, http.MethodGet, "/v1/clubs?search=chess&category=academic", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var clubs []types.Club
	decode(t, w, &clubs)
	assert.Equal(t, "Chess Club", clubs[0].Name)
	svc.AssertExpectations(t)
}

func TestTopClubsHandler(t *testing.T) {
	svc := &mocks.ClubService{}
	svc.On("TopClubs", mock.Anything, 0).Return([]types.Club{}, nil)
	r := setupClubRouter(svc, &alice)

	w := doJSON(r, http.MethodGet, "/v1/clubs/top", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestGetClubHandler_NotFound(t *testing.T) {
	svc := &mocks.ClubService{}
	svc.On("GetClub", mock.Anything, "missing").Return(nil, apperrors.NotFound("Club", "missing"))
	r := setupClubRouter(svc, &alice)

	w := doJSON(r, http.MethodGet, "/v1/clubs/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, string(apperrors.NotFoundError), errorBody(t, w).Type)
}

func TestJoinAndLeaveClub(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		mockMethod string
		result     *types.MembershipPayload
		err        error
		wantStatus int
	}{
		{name: "join", method: http.MethodPost, mockMethod: "JoinClub", result: &types.MembershipPayload{ClubID: "c1", UserID: "u1", MemberCount: 4}, wantStatus: http.StatusOK},
		{name: "join twice", method: http.MethodPost, mockMethod: "JoinClub", err: apperrors.NewConflictError("Already a member of this club", ""), wantStatus: http.StatusConflict},
		{name: "leave", method: http.MethodDelete, mockMethod: "LeaveClub", result: &types.MembershipPayload{ClubID: "c1", UserID: "u1", MemberCount: 3}, wantStatus: http.StatusOK},
		{name: "leave when not member", method: http.MethodDelete, mockMethod: "LeaveClub", err: apperrors.NotFound("Membership", "c1"), wantStatus: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mocks.ClubService{}
			if tt.err != nil {
				svc.On(tt.mockMethod, mock.Anything, alice, "c1").Return(nil, tt.err)
			} else {
				svc.On(tt.mockMethod, mock.Anything, alice, "c1").Return(tt.result, nil)
			}
			r := setupClubRouter(svc, &alice)

			w := doJSON(r, tt.method, "/v1/clubs/c1/join", nil)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.result != nil {
				var got types.MembershipPayload
				decode(t, w, &got)
				assert.Equal(t, tt.result.MemberCount, got.MemberCount)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestJoinClub_RequiresActor(t *testing.T) {
	svc := &mocks.ClubService{}
	r := setupClubRouter(svc, nil)

	w := doJSON(r, http.MethodPost, "/v1/clubs/c1/join", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	svc.AssertNotCalled(t, "JoinClub", mock.Anything, mock.Anything, mock.Anything)
}

func TestMembersAndJoined(t *testing.T) {
	svc := &mocks.ClubService{}
	svc.On("GetClubMembers", mock.Anything, "c1").Return([]types.ClubMember{{ClubID: "c1", UserID: "u2", UserName: "Bob"}}, nil)
	svc.On("GetJoinedClubs", mock.Anything, alice).Return([]string{"c1", "c2"}, nil)
	r := setupClubRouter(svc, &alice)

	w := doJSON(r, http.MethodGet, "/v1/clubs/c1/members", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, "/v1/clubs/joined", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `["c1","c2"]`, w.Body.String())
	svc.AssertExpectations(t)
}

func TestCreatePostHandler_JSON(t *testing.T) {
	svc := &mocks.ClubService{}
	svc.On("PostToClub", mock.Anything, alice, "c1", types.NewPostInput{Content: "Meeting at 6"}).
		Return(&types.ClubPost{ID: "p1", ClubID: "c1", UserID: "u1", Content: "Meeting at 6", LikedBy: []string{}}, nil)
	r := setupClubRouter(svc, &alice)

	w := doJSON(r, http.MethodPost, "/v1/clubs/c1/posts", map[string]string{"content": "Meeting at 6"})
	assert.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
}

func TestCreatePostHandler_MultipartImage(t *testing.T) {
	svc := &mocks.ClubService{}
	svc.On("PostToClub", mock.Anything, alice, "c1", mock.MatchedBy(func(in types.NewPostInput) bool {
		return in.Content == "Poster" && in.Image != nil && in.Image.Filename == "poster.png" && string(in.Image.Data) == "PNGDATA"
	})).Return(&types.ClubPost{ID: "p2", Content: "Poster", PostImage: "https://cdn/clubPosts/x.jpg"}, nil)
	r := setupClubRouter(svc, &alice)

	w := doMultipart(t, r, http.MethodPost, "/v1/clubs/c1/posts", map[string]string{"content": "Poster"}, "image", "poster.png", []byte("PNGDATA"))
	assert.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
}

func TestCreatePostHandler_ImageTooLarge(t *testing.T) {
	svc := &mocks.ClubService{}
	h := handlers.NewClubHandler(svc, 4, zap.NewNop())
	r := newTestRouter(&alice)
	r.POST("/v1/clubs/:id/posts", h.CreatePostHandler)

	w := doMultipart(t, r, http.MethodPost, "/v1/clubs/c1/posts", map[string]string{"content": "x"}, "image", "big.png", []byte("0123456789"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Image is too large", errorBody(t, w).Message)
	svc.AssertNotCalled(t, "PostToClub", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreatePostHandler_BadJSON(t *testing.T) {
	svc := &mocks.ClubService{}
	r := setupClubRouter(svc, &alice)

	w := doJSON(r, http.MethodPost, "/v1/clubs/c1/posts", "not-an-object")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEditDeleteLikePost(t *testing.T) {
	svc := &mocks.ClubService{}
	svc.On("EditPost", mock.Anything, alice, "p1", "edited").Return(&types.ClubPost{ID: "p1", Content: "edited"}, nil)
	svc.On("DeletePost", mock.Anything, alice, "p2").Return(ierrors.NotOwner("Only the author can delete this post"))
	svc.On("LikePost", mock.Anything, alice, "p1").Return(&types.ClubPost{ID: "p1", Likes: 1, LikedBy: []string{"u1"}}, nil)
	r := setupClubRouter(svc, &alice)

	w := doJSON(r, http.MethodPut, "/v1/posts/p1", map[string]string{"content": "edited"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodDelete, "/v1/posts/p2", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "NOT_OWNER", errorBody(t, w).Code)

	w = doJSON(r, http.MethodPost, "/v1/posts/p1/like", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var post types.ClubPost
	decode(t, w, &post)
	assert.Equal(t, 1, post.Likes)
	svc.AssertExpectations(t)
}
