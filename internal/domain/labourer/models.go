package labourer

import "time"

type Labourer struct {
	ID          string          `json:"id"`
	UserID      *string         `json:"userId"`
	Name        string          `json:"name"`
	Phone       string          `json:"phone"`
	Address     string          `json:"address"`
	Gender      string          `json:"gender"`
	DateOfBirth *time.Time      `json:"dateOfBirth,omitempty"`
	SkillType   string          `json:"skillType"`
	Status      string          `json:"status"`
	ProjectID   *string         `json:"projectId"`
	JoinedAt    time.Time       `json:"joinedAt"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	User        *UserSummary    `json:"user,omitempty"`
	Project     *ProjectSummary `json:"project,omitempty"`
}

type UserSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type ProjectSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Status   string `json:"status"`
}

// Input carries create and update payloads; nil fields are left unchanged on update.
type Input struct {
	UserID      *string `json:"userId"`
	Name        *string `json:"name"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	Gender      *string `json:"gender"`
	DateOfBirth *string `json:"dateOfBirth"`
	SkillType   *string `json:"skillType"`
	Status      *string `json:"status"`
	ProjectID   *string `json:"projectId"`
}

type Filter struct {
	Status    string
	SkillType string
	ProjectID string
	UserID    string
	Search    string
}
