package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/campusconnect/campus-backend/errors"
	"github.com/campusconnect/campus-backend/internal/events"
	ierrors "github.com/campusconnect/campus-backend/internal/errors"
	"github.com/campusconnect/campus-backend/internal/storage"
	"github.com/campusconnect/campus-backend/store"
	"github.com/campusconnect/campus-backend/types"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// DefaultTopClubs is how many clubs TopClubs returns when n <= 0.
const DefaultTopClubs = 5

const postImageFolder = "clubPosts"

var (
	membershipChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campus_club_membership_changes_total",
		Help: "Club joins and leaves by outcome",
	}, []string{"op", "outcome"})
	likeToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campus_post_like_toggles_total",
		Help: "Post like toggles by resulting state",
	}, []string{"state"})
)

// ClubService owns club membership and the per-club post feed.
type ClubService struct {
	clubs       store.ClubStore
	posts       store.PostStore
	files       storage.FileStorage
	publisher   types.EventPublisher
	imageLimits storage.ImageLimits
	logger      *zap.Logger
	now         func() time.Time
}

// NewClubService wires the engine. files may be storage.Disabled{}, in which
// case posts with images are rejected.
func NewClubService(clubs store.ClubStore, posts store.PostStore, files storage.FileStorage, publisher types.EventPublisher, limits storage.ImageLimits, logger *zap.Logger) *ClubService {
	return &ClubService{
		clubs:       clubs,
		posts:       posts,
		files:       files,
		publisher:   publisher,
		imageLimits: limits,
		logger:      logger.Named("ClubService"),
		now:         time.Now,
	}
}

// ListClubs returns the directory sorted by name, filtered by search text and category.
func (s *ClubService) ListClubs(ctx context.Context, filter types.ClubFilter) ([]types.Club, error) {
	all, err := s.clubs.List(ctx)
	if err != nil {
		return nil, ierrors.FromStore(err, "Club", "")
	}

	out := make([]types.Club, 0, len(all))
	for _, c := range all {
		if c.Matches(filter) {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

// TopClubs returns the n clubs with the most members.
func (s *ClubService) TopClubs(ctx context.Context, n int) ([]types.Club, error) {
	if n <= 0 {
		n = DefaultTopClubs
	}
	all, err := s.clubs.List(ctx)
	if err != nil {
		return nil, ierrors.FromStore(err, "Club", "")
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].MemberCount > all[j].MemberCount
	})
	if len(all) > n {
		all = all[:n]
	}
	return all, nil
}

func (s *ClubService) GetClub(ctx context.Context, clubID string) (*types.Club, error) {
	club, err := s.clubs.GetByID(ctx, clubID)
	if err != nil {
		return nil, ierrors.FromStore(err, "Club", clubID)
	}
	return club, nil
}

// JoinClub adds the actor to the club. The membership insert and the counter
// increment commit together.
func (s *ClubService) JoinClub(ctx context.Context, actor types.Actor, clubID string) (*types.MembershipPayload, error) {
	log := s.logger.With(zap.String("clubID", clubID), zap.String("userID", actor.UserID))

	member := &types.ClubMember{
		ID:       uuid.NewString(),
		ClubID:   clubID,
		UserID:   actor.UserID,
		UserName: actor.Name(),
		JoinedAt: s.now(),
	}
	count, err := s.clubs.AddMember(ctx, member)
	if err != nil {
		membershipChanges.WithLabelValues("join", "error").Inc()
		mapped := ierrors.FromStore(err, "Club", clubID)
		if appErr, ok := errors.As(mapped); ok && appErr.Type == errors.ConflictError {
			appErr.Message = "You have already joined this club"
			appErr.Code = ierrors.ErrAlreadyMember
		}
		return nil, mapped
	}
	membershipChanges.WithLabelValues("join", "ok").Inc()
	log.Info("User joined club", zap.Int("memberCount", count))

	payload := &types.MembershipPayload{ClubID: clubID, UserID: actor.UserID, MemberCount: count}
	s.publish(ctx, types.EventTypeClubMemberJoined, types.ClubScope(clubID), actor.UserID, payload)
	return payload, nil
}

// LeaveClub removes every membership of the actor in the club.
func (s *ClubService) LeaveClub(ctx context.Context, actor types.Actor, clubID string) (*types.MembershipPayload, error) {
	count, err := s.clubs.RemoveMember(ctx, clubID, actor.UserID)
	if err != nil {
		membershipChanges.WithLabelValues("leave", "error").Inc()
		mapped := ierrors.FromStore(err, "Membership", clubID)
		if appErr, ok := errors.As(mapped); ok && appErr.Type == errors.NotFoundError {
			appErr.Message = "You are not a member of this club"
		}
		return nil, mapped
	}
	membershipChanges.WithLabelValues("leave", "ok").Inc()
	s.logger.Info("User left club",
		zap.String("clubID", clubID),
		zap.String("userID", actor.UserID),
		zap.Int("memberCount", count))

	payload := &types.MembershipPayload{ClubID: clubID, UserID: actor.UserID, MemberCount: count}
	s.publish(ctx, types.EventTypeClubMemberLeft, types.ClubScope(clubID), actor.UserID, payload)
	return payload, nil
}

func (s *ClubService) GetClubMembers(ctx context.Context, clubID string) ([]types.ClubMember, error) {
	members, err := s.clubs.ListMembers(ctx, clubID)
	if err != nil {
		return nil, ierrors.FromStore(err, "Club", clubID)
	}
	return members, nil
}

// GetJoinedClubs returns the ids of the clubs the actor belongs to.
func (s *ClubService) GetJoinedClubs(ctx context.Context, actor types.Actor) ([]string, error) {
	ids, err := s.clubs.ListJoinedClubIDs(ctx, actor.UserID)
	if err != nil {
		return nil, ierrors.FromStore(err, "Club", "")
	}
	return ids, nil
}

// PostToClub creates a feed post. When an image is supplied it is compressed
// and uploaded first; any image failure aborts the post.
func (s *ClubService) PostToClub(ctx context.Context, actor types.Actor, clubID string, input types.NewPostInput) (*types.ClubPost, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, errors.ValidationFailed("Post content cannot be empty", "content is required")
	}
	if _, err := s.clubs.GetByID(ctx, clubID); err != nil {
		return nil, ierrors.FromStore(err, "Club", clubID)
	}

	now := s.now()
	post := &types.ClubPost{
		ID:        uuid.NewString(),
		ClubID:    clubID,
		UserID:    actor.UserID,
		UserName:  actor.Name(),
		UserPhoto: actor.AvatarURL,
		Content:   content,
		Likes:     0,
		LikedBy:   []string{},
		CreatedAt: now,
	}

	if input.Image != nil && len(input.Image.Data) > 0 {
		url, err := s.uploadPostImage(ctx, clubID, actor.UserID, input.Image, now)
		if err != nil {
			return nil, err
		}
		post.PostImage = url
	}

	if _, err := s.posts.Create(ctx, post); err != nil {
		return nil, ierrors.FromStore(err, "Club", clubID)
	}

	s.publish(ctx, types.EventTypePostCreated, types.ClubScope(clubID), actor.UserID, post)
	return post, nil
}

func (s *ClubService) uploadPostImage(ctx context.Context, clubID, userID string, img *types.ImageUpload, at time.Time) (string, error) {
	data, contentType, err := storage.PrepareImage(img.Data, s.imageLimits)
	if err != nil {
		if stderrors.Is(err, storage.ErrUnsupportedImage) {
			return "", errors.ValidationFailed("Unsupported image", err.Error())
		}
		return "", errors.ValidationFailed("Could not process image", err.Error())
	}

	key := fmt.Sprintf("%s/%s/%s_%d", postImageFolder, clubID, userID, at.UnixMilli())
	url, err := s.files.Save(ctx, key, data, contentType)
	if err != nil {
		return "", errors.NewBackendError("object_storage", err)
	}
	return url, nil
}

// loadOwnedPost returns the post if actor authored it.
func (s *ClubService) loadOwnedPost(ctx context.Context, actor types.Actor, postID, action string) (*types.ClubPost, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, ierrors.FromStore(err, "Post", postID)
	}
	if !post.IsOwnedBy(actor.UserID) {
		return nil, ierrors.NotOwner(fmt.Sprintf("Only the author can %s this post", action))
	}
	return post, nil
}

// EditPost replaces the content of a post the actor authored.
func (s *ClubService) EditPost(ctx context.Context, actor types.Actor, postID, content string) (*types.ClubPost, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errors.ValidationFailed("Post content cannot be empty", "content is required")
	}
	post, err := s.loadOwnedPost(ctx, actor, postID, "edit")
	if err != nil {
		return nil, err
	}

	updatedAt := s.now()
	if err := s.posts.UpdateContent(ctx, postID, content, updatedAt); err != nil {
		return nil, ierrors.FromStore(err, "Post", postID)
	}
	post.Content = content
	post.UpdatedAt = &updatedAt

	s.publish(ctx, types.EventTypePostUpdated, types.ClubScope(post.ClubID), actor.UserID, post)
	return post, nil
}

// DeletePost hard-deletes a post the actor authored. Removing the stored
// image is best-effort.
func (s *ClubService) DeletePost(ctx context.Context, actor types.Actor, postID string) error {
	post, err := s.loadOwnedPost(ctx, actor, postID, "delete")
	if err != nil {
		return err
	}
	if err := s.posts.Delete(ctx, postID); err != nil {
		return ierrors.FromStore(err, "Post", postID)
	}

	if post.PostImage != "" {
		if key, ok := s.files.KeyFromURL(post.PostImage); ok {
			if err := s.files.Delete(ctx, key); err != nil {
				s.logger.Warn("Failed to delete post image",
					zap.String("postID", postID),
					zap.String("key", key),
					zap.Error(err))
			}
		}
	}

	s.publish(ctx, types.EventTypePostDeleted, types.ClubScope(post.ClubID), actor.UserID, map[string]string{
		"postId": postID,
		"clubId": post.ClubID,
	})
	return nil
}

// LikePost toggles the actor's like. Adding a like on someone else's post
// publishes a PostLiked event the notification fan-out turns into a "like"
// notification for the author.
func (s *ClubService) LikePost(ctx context.Context, actor types.Actor, postID string) (*types.ClubPost, error) {
	post, liked, err := s.posts.ToggleLike(ctx, postID, actor.UserID)
	if err != nil {
		return nil, ierrors.FromStore(err, "Post", postID)
	}
	state := "unliked"
	if liked {
		state = "liked"
	}
	likeToggles.WithLabelValues(state).Inc()

	s.publish(ctx, types.EventTypePostLiked, types.ClubScope(post.ClubID), actor.UserID, types.PostLikedPayload{
		PostID:      post.ID,
		ClubID:      post.ClubID,
		AuthorID:    post.UserID,
		Liked:       liked,
		Likes:       post.Likes,
		LikedBy:     actor.UserID,
		LikerName:   actor.Name(),
		LikerAvatar: actor.AvatarURL,
	})
	return post, nil
}

// GetClubPosts returns the feed newest first.
func (s *ClubService) GetClubPosts(ctx context.Context, clubID string) ([]types.ClubPost, error) {
	posts, err := s.posts.ListByClub(ctx, clubID)
	if err != nil {
		return nil, ierrors.FromStore(err, "Club", clubID)
	}
	return posts, nil
}

func (s *ClubService) publish(ctx context.Context, eventType types.EventType, scope, userID string, payload interface{}) {
	if err := events.PublishEventWithContext(s.publisher, ctx, eventType, scope, userID, payload, "ClubService"); err != nil {
		s.logger.Warn("Failed to publish club event",
			zap.Error(err),
			zap.String("eventType", string(eventType)),
			zap.String("scope", scope))
	}
}
