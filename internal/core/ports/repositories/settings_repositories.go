package repositories

import "context"

// SettingKeyMailTemplate holds the invitation template.
const SettingKeyMailTemplate = "mail_template"

// SettingsRepository is a small key-value store for buyer-side settings.
type SettingsRepository interface {
	// GetSetting returns apperrors.ErrNotFound for an unknown key.
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
}
