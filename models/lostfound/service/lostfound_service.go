package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/campusconnect/campus-backend/errors"
	"github.com/campusconnect/campus-backend/internal/events"
	ierrors "github.com/campusconnect/campus-backend/internal/errors"
	"github.com/campusconnect/campus-backend/internal/storage"
	commentsvc "github.com/campusconnect/campus-backend/models/comment/service"
	"github.com/campusconnect/campus-backend/store"
	"github.com/campusconnect/campus-backend/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const itemImageFolder = "lostfound"

var validCategories = map[types.LostFoundCategory]bool{
	types.LostFoundCategoryElectronics: true,
	types.LostFoundCategoryBooks:       true,
	types.LostFoundCategoryClothing:    true,
	types.LostFoundCategoryAccessories: true,
	types.LostFoundCategoryDocuments:   true,
	types.LostFoundCategoryOther:       true,
}

// LostFoundService runs the lost and found board.
type LostFoundService struct {
	items       store.LostFoundStore
	chats       store.ChatStore
	comments    *commentsvc.Thread
	files       storage.FileStorage
	publisher   types.EventPublisher
	imageLimits storage.ImageLimits
	logger      *zap.Logger
	now         func() time.Time
}

// NewLostFoundService wires the board. files is the lost_items bucket.
func NewLostFoundService(items store.LostFoundStore, chats store.ChatStore, cs store.CommentStore, files storage.FileStorage, publisher types.EventPublisher, limits storage.ImageLimits, logger *zap.Logger) *LostFoundService {
	return &LostFoundService{
		items:       items,
		chats:       chats,
		comments:    commentsvc.NewThread(cs, types.CommentParentLostFound, logger),
		files:       files,
		publisher:   publisher,
		imageLimits: limits,
		logger:      logger.Named("LostFoundService"),
		now:         time.Now,
	}
}

// ListItems returns unresolved items newest first, narrowed by filter.
func (s *LostFoundService) ListItems(ctx context.Context, filter types.LostFoundFilter) ([]types.LostFoundItem, error) {
	all, err := s.items.ListOpen(ctx)
	if err != nil {
		return nil, ierrors.FromStore(err, "Item", "")
	}
	out := make([]types.LostFoundItem, 0, len(all))
	for _, item := range all {
		if !item.Resolved && item.Matches(filter) {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *LostFoundService) GetItem(ctx context.Context, id string) (*types.LostFoundItem, error) {
	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, ierrors.FromStore(err, "Item", id)
	}
	return item, nil
}

func validateNewItem(in *types.NewLostFoundInput) error {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Location = strings.TrimSpace(in.Location)
	in.Date = strings.TrimSpace(in.Date)
	in.ReporterContact = strings.TrimSpace(in.ReporterContact)

	var missing []string
	for _, f := range []struct{ name, val string }{
		{"title", in.Title}, {"description", in.Description}, {"category", string(in.Category)},
		{"location", in.Location}, {"date", in.Date}, {"type", string(in.Type)},
		{"reporterContact", in.ReporterContact},
	} {
		if f.val == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return errors.ValidationFailed("Please fill in all required fields", strings.Join(missing, ", "))
	}
	if in.Type != types.LostFoundTypeLost && in.Type != types.LostFoundTypeFound {
		return errors.ValidationFailed("Invalid item type", fmt.Sprintf("type %q", in.Type))
	}
	if !validCategories[in.Category] {
		return errors.ValidationFailed("Invalid item category", fmt.Sprintf("category %q", in.Category))
	}
	return nil
}

// CreateItem reports a lost or found item on behalf of actor.
func (s *LostFoundService) CreateItem(ctx context.Context, actor types.Actor, in types.NewLostFoundInput) (*types.LostFoundItem, error) {
	if err := validateNewItem(&in); err != nil {
		return nil, err
	}

	now := s.now()
	item := &types.LostFoundItem{
		Title:           in.Title,
		Description:     in.Description,
		Category:        in.Category,
		Location:        in.Location,
		Date:            in.Date,
		Type:            in.Type,
		ReporterID:      actor.UserID,
		ReporterName:    actor.Name(),
		ReporterContact: in.ReporterContact,
		CreatedAt:       now,
	}

	if in.Image != nil && len(in.Image.Data) > 0 {
		url, err := s.uploadItemImage(ctx, in.Image, now)
		if err != nil {
			return nil, err
		}
		item.ImageURL = url
	}

	created, err := s.items.Create(ctx, item)
	if err != nil {
		return nil, ierrors.FromStore(err, "Item", "")
	}
	s.logger.Info("Lost and found item reported",
		zap.String("itemID", created.ID),
		zap.String("type", string(created.Type)),
		zap.String("reporterID", actor.UserID))
	return created, nil
}

func (s *LostFoundService) uploadItemImage(ctx context.Context, img *types.ImageUpload, at time.Time) (string, error) {
	data, contentType, err := storage.PrepareImage(img.Data, s.imageLimits)
	if err != nil {
		if stderrors.Is(err, storage.ErrUnsupportedImage) {
			return "", errors.ValidationFailed("Unsupported image", err.Error())
		}
		return "", errors.ValidationFailed("Could not process image", err.Error())
	}
	key := fmt.Sprintf("%s/%d_%s", itemImageFolder, at.UnixMilli(), storage.SanitizeFilename(img.Filename))
	url, err := s.files.Save(ctx, key, data, contentType)
	if err != nil {
		return "", errors.NewBackendError("supabase_storage", err)
	}
	return url, nil
}

// ResolveItem marks an item resolved. Only its reporter may do so.
func (s *LostFoundService) ResolveItem(ctx context.Context, actor types.Actor, id string) error {
	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		return ierrors.FromStore(err, "Item", id)
	}
	if item.ReporterID != actor.UserID {
		return ierrors.NotOwner("Only the reporter can resolve this item")
	}
	if item.Resolved {
		return nil
	}
	if err := s.items.MarkResolved(ctx, id); err != nil {
		return ierrors.FromStore(err, "Item", id)
	}
	s.publish(ctx, types.EventTypeLostFoundResolved, id, actor.UserID, map[string]string{"itemId": id})
	return nil
}

// ContactReporter opens (or reuses) a direct chat with the item's reporter and
// sends message, or the default opener when message is blank.
func (s *LostFoundService) ContactReporter(ctx context.Context, actor types.Actor, itemID, message string) (*types.ContactResult, error) {
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, ierrors.FromStore(err, "Item", itemID)
	}
	if item.ReporterID == actor.UserID {
		return nil, errors.ValidationFailed("You cannot contact yourself", "actor is the reporter of this item")
	}

	chat, err := s.chats.GetOrCreateDirectChat(ctx, actor.UserID, item.ReporterID)
	if err != nil {
		return nil, ierrors.FromStore(err, "Chat", "")
	}

	message = strings.TrimSpace(message)
	if message == "" {
		message = item.ContactMessage()
	}
	msg := &types.ChatMessage{
		ID:        uuid.NewString(),
		ChatID:    chat.ID,
		SenderID:  actor.UserID,
		Content:   message,
		CreatedAt: s.now(),
	}
	msgID, err := s.chats.SendMessage(ctx, msg)
	if err != nil {
		return nil, ierrors.FromStore(err, "Message", "")
	}

	s.publish(ctx, types.EventTypeLostFoundContacted, itemID, actor.UserID, types.LostFoundContactPayload{
		ItemID:       itemID,
		ItemTitle:    item.Title,
		ReporterID:   item.ReporterID,
		ChatID:       chat.ID,
		SenderID:     actor.UserID,
		SenderName:   actor.Name(),
		SenderAvatar: actor.AvatarURL,
		Message:      message,
	})
	return &types.ContactResult{ChatID: chat.ID, MessageID: msgID}, nil
}

func (s *LostFoundService) ListComments(ctx context.Context, itemID string) ([]types.Comment, error) {
	return s.comments.List(ctx, itemID)
}

func (s *LostFoundService) AddComment(ctx context.Context, actor types.Actor, itemID, content string) (*types.Comment, error) {
	if _, err := s.items.GetByID(ctx, itemID); err != nil {
		return nil, ierrors.FromStore(err, "Item", itemID)
	}
	return s.comments.Add(ctx, actor, itemID, content)
}

func (s *LostFoundService) DeleteComment(ctx context.Context, actor types.Actor, itemID, commentID string) error {
	return s.comments.Delete(ctx, actor, itemID, commentID)
}

func (s *LostFoundService) publish(ctx context.Context, eventType types.EventType, itemID, userID string, payload interface{}) {
	if err := events.PublishEventWithContext(s.publisher, ctx, eventType, types.LostFoundScope(itemID), userID, payload, "LostFoundService"); err != nil {
		s.logger.Warn("Failed to publish lost and found event", zap.Error(err), zap.String("eventType", string(eventType)))
	}
}
