package project

import (
	"fmt"
	"strings"
	"time"
)

type Project struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	Status      string     `json:"status"`
	ManagerID   *string    `json:"managerId"`
	LabourerIDs []string   `json:"labourerIds"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type Input struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Location    *string `json:"location"`
	StartDate   *string `json:"startDate"`
	EndDate     *string `json:"endDate"`
	Status      *string `json:"status"`
	ManagerID   *string `json:"managerId"`
}

type Filter struct {
	Status    string
	ManagerID string
	Search    string
	StartDate string
	EndDate   string
}

// UnknownLabourersError lists assignment targets that do not exist.
type UnknownLabourersError struct {
	IDs []string
}

func (e *UnknownLabourersError) Error() string {
	return fmt.Sprintf("unknown labourers: %s", strings.Join(e.IDs, ", "))
}
