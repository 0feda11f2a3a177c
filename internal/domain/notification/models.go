package notification

import (
	"context"
	"time"
)

type Notification struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Message   string     `json:"message"`
	Type      string     `json:"type"`
	Status    string     `json:"status"`
	ReadAt    *time.Time `json:"readAt"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Recipient is the contact information a channel delivers to.
type Recipient struct {
	UserID string
	Name   string
	Email  string
	Phone  string
}

// Sender delivers a message over one channel.
type Sender interface {
	Send(ctx context.Context, to Recipient, subject, body string) error
}

type SendInput struct {
	UserID  string `json:"userId"`
	Message string `json:"message"`
	Type    string `json:"type"`
	Subject string `json:"subject"`
}

type Filter struct {
	UserID string
	Status string
	Type   string
}
