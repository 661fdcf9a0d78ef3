package dto

import (
	"time"

	"github.com/noah-isme/mosquee-go/internal/models"
)

// PublicEvent is the sanitised event payload served on the public side.
type PublicEvent struct {
	ID          uint      `json:"id"`
	Type        string    `json:"type"`
	Pole        string    `json:"pole"`
	Title       string    `json:"title"`
	Date        time.Time `json:"date"`
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	Location    string    `json:"location"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Images      []string  `json:"images"`
}

// PublicNews is the sanitised news payload served on the public side.
type PublicNews struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Image     string    `json:"image"`
	Images    []string  `json:"images"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

// PublicQuote is a quote shown on the home page.
type PublicQuote struct {
	ID           uint   `json:"id"`
	TextOriginal string `json:"text_original"`
	TextFR       string `json:"text_fr"`
	TextTR       string `json:"text_tr"`
	Author       string `json:"author"`
}

// HomeResponse aggregates the home page content.
type HomeResponse struct {
	News   []PublicNews  `json:"news"`
	Events []PublicEvent `json:"events"`
	Quotes []PublicQuote `json:"quotes"`
}

// EventsPageResponse splits the calendar into events and recurring activities.
type EventsPageResponse struct {
	Events     []PublicEvent `json:"events"`
	Activities []PublicEvent `json:"activities"`
	All        []PublicEvent `json:"all"`
}

// PublicDonation is an active campaign with its progress.
type PublicDonation struct {
	ID            uint       `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	GoalAmount    float64    `json:"goal_amount"`
	CurrentAmount float64    `json:"current_amount"`
	Progress      float64    `json:"progress"`
	EndDate       *time.Time `json:"end_date"`
	Image         string     `json:"image"`
	Images        []string   `json:"images"`
}

// TeamPole groups active members of one pôle.
type TeamPole struct {
	Pole    string          `json:"pole"`
	Members []models.Member `json:"members"`
}
