package model

import "time"

// Project priorities and statuses accepted by the API.
const (
	ProjectPriorityLow    = "low"
	ProjectPriorityMedium = "medium"
	ProjectPriorityHigh   = "high"

	ProjectStatusActive   = "active"
	ProjectStatusArchived = "archived"
)

// Project is a user-owned planning item. Rows are always scoped by UserID;
// no query may touch another user's projects.
type Project struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Subject     string     `json:"subject"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
