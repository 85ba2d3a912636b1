package model

import "time"

type UserSettings struct {
	ExpireReminder bool `json:"expire_reminder"`
}

// DefaultUserSettings is the record created on first load and the fallback
// used when the backend cannot be reached.
func DefaultUserSettings() UserSettings {
	return UserSettings{ExpireReminder: true}
}

type UserSettingsRecord struct {
	UserID         string    `json:"user_id"`
	ExpireReminder bool      `json:"expire_reminder"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (r UserSettingsRecord) Settings() UserSettings {
	return UserSettings{ExpireReminder: r.ExpireReminder}
}
