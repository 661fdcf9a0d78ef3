package models

import "time"

// Setting value types.
const (
	SettingText    = "text"
	SettingNumber  = "number"
	SettingBoolean = "boolean"
	SettingJSON    = "json"
)

// Setting is a key/value site parameter editable by super admins.
type Setting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"column:setting_key;size:100;uniqueIndex;not null" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	Type      string    `gorm:"size:16;not null;default:text" json:"type"`
	Label     string    `gorm:"size:255" json:"label"`
	Category  string    `gorm:"size:64;index" json:"category"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
