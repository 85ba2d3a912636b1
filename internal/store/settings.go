package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/larder/internal/model"
)

type UserSettingsStore struct {
	db *sql.DB
}

func NewUserSettingsStore(db *sql.DB) *UserSettingsStore {
	return &UserSettingsStore{db: db}
}

func scanUserSettings(scanner interface{ Scan(...any) error }) (*model.UserSettingsRecord, error) {
	var r model.UserSettingsRecord
	err := scanner.Scan(&r.UserID, &r.ExpireReminder, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

const userSettingsCols = `user_id, expire_reminder, created_at, updated_at`

func (s *UserSettingsStore) Get(userID string) (*model.UserSettingsRecord, error) {
	row := s.db.QueryRow(`SELECT `+userSettingsCols+` FROM user_settings WHERE user_id = ?`, userID)
	r, err := scanUserSettings(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user settings: %w", err)
	}
	return r, nil
}

// Ensure creates the default record if the user has none and returns the
// stored record. created reports whether a new record was written.
func (s *UserSettingsStore) Ensure(userID string) (rec *model.UserSettingsRecord, created bool, err error) {
	now := time.Now().UTC()
	result, err := s.db.Exec(
		`INSERT INTO user_settings (user_id, expire_reminder, created_at, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id) DO NOTHING`,
		userID, model.DefaultUserSettings().ExpireReminder, now, now,
	)
	if err != nil {
		return nil, false, fmt.Errorf("ensure user settings: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("rows affected: %w", err)
	}
	rec, err = s.Get(userID)
	return rec, n > 0, err
}

func (s *UserSettingsStore) Update(userID string, expireReminder bool) (*model.UserSettingsRecord, error) {
	now := time.Now().UTC()
	_, err := s.db.Exec(
		`INSERT INTO user_settings (user_id, expire_reminder, created_at, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET expire_reminder = excluded.expire_reminder, updated_at = excluded.updated_at`,
		userID, expireReminder, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("update user settings: %w", err)
	}
	return s.Get(userID)
}
