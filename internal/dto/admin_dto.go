package dto

import (
	"strings"
	"time"

	"github.com/noah-isme/mosquee-go/internal/models"
)

// Checked interprets an HTML checkbox value.
func Checked(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "on", "true", "yes":
		return true
	default:
		return false
	}
}

// LoginRequest is the login form payload.
type LoginRequest struct {
	Username string `form:"username" json:"username" validate:"required,max=50"`
	Password string `form:"password" json:"password" validate:"required"`
}

// EventForm is the create/update payload for events.
type EventForm struct {
	Type         string   `form:"type"`
	NewType      string   `form:"new_type"`
	Pole         string   `form:"pole"`
	NewPole      string   `form:"new_pole"`
	Title        string   `form:"title" validate:"required,max=255"`
	Date         string   `form:"date" validate:"required,datetime=2006-01-02"`
	StartTime    string   `form:"start_time" validate:"omitempty,datetime=15:04"`
	EndTime      string   `form:"end_time" validate:"omitempty,datetime=15:04"`
	Location     string   `form:"location"`
	NewLocation  string   `form:"new_location"`
	Category     string   `form:"category"`
	NewCategory  string   `form:"new_category"`
	Description  string   `form:"description"`
	RemoveImages []string `form:"remove_images"`
}

// NewsForm is the create/update payload for news articles.
type NewsForm struct {
	Title        string   `form:"title" validate:"required,max=255"`
	Content      string   `form:"content"`
	Category     string   `form:"category"`
	NewCategory  string   `form:"new_category"`
	RemoveImages []string `form:"remove_images"`
}

// QuoteForm is the create/update payload for quotes.
type QuoteForm struct {
	TextOriginal string `form:"text_original" validate:"required"`
	TextFR       string `form:"text_fr"`
	TextTR       string `form:"text_tr"`
	Author       string `form:"author" validate:"max=255"`
	NewAuthor    string `form:"new_author" validate:"max=255"`
	Active       string `form:"active"`
}

// MemberForm is the create/update payload for team members.
type MemberForm struct {
	FirstName   string `form:"first_name" validate:"required,max=100"`
	LastName    string `form:"last_name" validate:"required,max=100"`
	Pole        string `form:"pole"`
	NewPole     string `form:"new_pole"`
	Role        string `form:"role"`
	NewRole     string `form:"new_role"`
	Description string `form:"description"`
	Email       string `form:"email" validate:"omitempty,email"`
	Phone       string `form:"phone" validate:"max=32"`
	Order       int    `form:"order"`
	Active      string `form:"active"`
	RemoveImage string `form:"remove_image"`
}

// DonationForm is the create/update payload for donation campaigns.
type DonationForm struct {
	Title         string   `form:"title" validate:"required,max=255"`
	Description   string   `form:"description"`
	GoalAmount    float64  `form:"goal_amount" validate:"gte=0"`
	CurrentAmount float64  `form:"current_amount" validate:"gte=0"`
	EndDate       string   `form:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Active        string   `form:"active"`
	RemoveImages  []string `form:"remove_images"`
}

// UserForm is the create/update payload for back-office accounts.
type UserForm struct {
	Username        string   `form:"username" validate:"required,min=3,max=50"`
	Password        string   `form:"password"`
	PasswordConfirm string   `form:"password_confirm"`
	Tag             string   `form:"tag"`
	CustomTag       string   `form:"custom_tag" validate:"max=64"`
	Permissions     []string `form:"permissions"`
	Active          string   `form:"active"`
	SuperAdmin      string   `form:"super_admin"`
}

// AuditLogListRequest drives the audit log API. Page is zero-based.
type AuditLogListRequest struct {
	Filter string
	Page   int
	Limit  int
}

// AuditLogListResponse is the audit log API payload.
type AuditLogListResponse struct {
	Success bool              `json:"success"`
	Logs    []models.AuditLog `json:"logs"`
	Page    int               `json:"page"`
	Limit   int               `json:"limit"`
	Total   int64             `json:"total"`
}

// DashboardCounts summarises stored content.
type DashboardCounts struct {
	Events    int64  `json:"events"`
	News      int64  `json:"news"`
	Members   int64  `json:"members"`
	Donations int64  `json:"donations"`
	Quotes    int64  `json:"quotes"`
	Users     *int64 `json:"users,omitempty"`
}

// DashboardResponse is the dashboard view model.
type DashboardResponse struct {
	Username     string             `json:"username"`
	Counts       DashboardCounts    `json:"counts"`
	Permissions  models.Permissions `json:"permissions"`
	Tag          string             `json:"tag"`
	IsSuperAdmin bool               `json:"is_super_admin"`
}

// AdminSettingsResponse is the super admin settings view model.
type AdminSettingsResponse struct {
	Users    []models.User    `json:"users"`
	Tags     []models.UserTag `json:"tags"`
	Settings []models.Setting `json:"settings"`
}

// UserFormView is the user create/edit view model.
type UserFormView struct {
	User      *models.User      `json:"user"`
	Tags      []models.UserTag  `json:"tags"`
	Resources []models.Resource `json:"resources"`
	Granted   []models.Resource `json:"granted"`
	Error     string            `json:"error,omitempty"`
}

// ToggleStatusResponse is returned by the JSON user endpoints.
type ToggleStatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Active  *bool  `json:"active,omitempty"`
}

// TaxonomyOptions groups the reference lists shown on content forms.
type TaxonomyOptions map[models.TaxonomyKind][]models.Taxonomy

// FormView is the generic create/edit view model for content types.
type FormView struct {
	Item    interface{}     `json:"item"`
	Options TaxonomyOptions `json:"options,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// ListView is the generic list view model for content types.
type ListView struct {
	Items interface{} `json:"items"`
	Count int         `json:"count"`
}

// ParseDate parses a form date, returning nil for blank input.
func ParseDate(value string) (*time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", trimmed)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
