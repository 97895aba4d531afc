package mocks

import "github.com/campusconnect/campus-backend/handlers"

var (
	_ handlers.ClubServiceInterface         = (*ClubService)(nil)
	_ handlers.NotificationServiceInterface = (*NotificationService)(nil)
	_ handlers.EventServiceInterface        = (*EventService)(nil)
	_ handlers.LostFoundServiceInterface    = (*LostFoundService)(nil)
	_ handlers.SettingsServiceInterface     = (*SettingsService)(nil)
	_ handlers.HealthChecker                = (*HealthChecker)(nil)
)
