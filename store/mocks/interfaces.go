package mocks

import (
	"github.com/campusconnect/campus-backend/internal/storage"
	"github.com/campusconnect/campus-backend/store"
)

var (
	_ store.ClubStore          = (*ClubStore)(nil)
	_ store.PostStore          = (*PostStore)(nil)
	_ store.NotificationStore  = (*NotificationStore)(nil)
	_ store.EventStore         = (*EventStore)(nil)
	_ store.CommentStore       = (*CommentStore)(nil)
	_ store.LostFoundStore     = (*LostFoundStore)(nil)
	_ store.UserStore          = (*UserStore)(nil)
	_ store.FriendRequestStore = (*FriendRequestStore)(nil)
	_ store.ChatStore          = (*ChatStore)(nil)
	_ storage.FileStorage      = (*FileStorage)(nil)
)
