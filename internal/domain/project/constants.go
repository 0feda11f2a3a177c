package project

const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusPending   = "pending"
	StatusCancelled = "cancelled"
	StatusArchived  = "archived"
)

var Statuses = []string{StatusActive, StatusCompleted, StatusPending, StatusCancelled, StatusArchived}
