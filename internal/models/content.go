package models

import (
	"time"

	"gorm.io/datatypes"
)

// Event is a dated association event or recurring activity.
type Event struct {
	ID          uint                        `gorm:"primaryKey" json:"id"`
	Type        string                      `gorm:"size:100" json:"type"`
	Pole        string                      `gorm:"size:100" json:"pole"`
	Title       string                      `gorm:"size:255;not null" json:"title"`
	Date        time.Time                   `gorm:"index" json:"date"`
	StartTime   string                      `gorm:"size:8" json:"start_time"`
	EndTime     string                      `gorm:"size:8" json:"end_time"`
	Location    string                      `gorm:"size:255" json:"location"`
	Category    string                      `gorm:"size:100" json:"category"`
	Description string                      `gorm:"type:text" json:"description"`
	Images      datatypes.JSONSlice[string] `json:"images"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
}

// News is a published article.
type News struct {
	ID        uint                        `gorm:"primaryKey" json:"id"`
	Title     string                      `gorm:"size:255;not null" json:"title"`
	Content   string                      `gorm:"type:text" json:"content"`
	Image     string                      `gorm:"size:512" json:"image"`
	Images    datatypes.JSONSlice[string] `json:"images"`
	Category  string                      `gorm:"size:100" json:"category"`
	CreatedAt time.Time                   `gorm:"index" json:"created_at"`
	UpdatedAt time.Time                   `json:"updated_at"`
}

// Quote is a citation shown on the home page in three languages.
type Quote struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	TextOriginal string    `gorm:"type:text;not null" json:"text_original"`
	TextFR       string    `gorm:"column:text_fr;type:text" json:"text_fr"`
	TextTR       string    `gorm:"column:text_tr;type:text" json:"text_tr"`
	Author       string    `gorm:"size:255" json:"author"`
	Active       bool      `gorm:"not null" json:"active"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Member is a team member displayed on the team page.
type Member struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FirstName   string    `gorm:"size:100;not null" json:"first_name"`
	LastName    string    `gorm:"size:100;not null" json:"last_name"`
	Pole        string    `gorm:"size:100;index" json:"pole"`
	Role        string    `gorm:"size:100" json:"role"`
	Description string    `gorm:"type:text" json:"description"`
	Image       string    `gorm:"size:512" json:"image"`
	Email       string    `gorm:"size:160" json:"email"`
	Phone       string    `gorm:"size:32" json:"phone"`
	Order       int       `gorm:"column:display_order;not null;default:0" json:"order"`
	Active      bool      `gorm:"not null" json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FullName joins first and last name.
func (m Member) FullName() string {
	if m.LastName == "" {
		return m.FirstName
	}
	return m.FirstName + " " + m.LastName
}

// Donation is a fundraising campaign.
type Donation struct {
	ID            uint                        `gorm:"primaryKey" json:"id"`
	Title         string                      `gorm:"size:255;not null" json:"title"`
	Description   string                      `gorm:"type:text" json:"description"`
	GoalAmount    float64                     `gorm:"not null;default:0" json:"goal_amount"`
	CurrentAmount float64                     `gorm:"not null;default:0" json:"current_amount"`
	EndDate       *time.Time                  `json:"end_date"`
	Active        bool                        `gorm:"not null" json:"active"`
	Image         string                      `gorm:"size:512" json:"image"`
	Images        datatypes.JSONSlice[string] `json:"images"`
	CreatedAt     time.Time                   `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`
}

// Progress returns the collected share of the goal as a percentage capped at 100.
func (d Donation) Progress() float64 {
	if d.GoalAmount <= 0 {
		return 0
	}
	pct := d.CurrentAmount / d.GoalAmount * 100
	if pct > 100 {
		return 100
	}
	return pct
}
