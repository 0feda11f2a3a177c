package performance

import "time"

type Performance struct {
	ID           string    `json:"id"`
	LabourerID   string    `json:"labourerId"`
	ProjectID    string    `json:"projectId"`
	Date         time.Time `json:"date"`
	Score        float64   `json:"performanceScore"`
	Remarks      string    `json:"remarks"`
	EvaluatedBy  *string   `json:"evaluatedBy"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	LabourerName string    `json:"labourerName,omitempty"`
	ProjectName  string    `json:"projectName,omitempty"`
}

// Input is used for both create and update; nil fields keep their current
// value on update and are required on create.
type Input struct {
	LabourerID *string  `json:"labourerId"`
	ProjectID  *string  `json:"projectId"`
	Date       *string  `json:"date"`
	Score      *float64 `json:"performanceScore"`
	Remarks    *string  `json:"remarks"`
}

type Key struct {
	LabourerID string
	ProjectID  string
	Date       time.Time
}

type Filter struct {
	LabourerID string
	ProjectID  string
	Date       string
	StartDate  string
	EndDate    string
	MinScore   string
	MaxScore   string
}

type Summary struct {
	Count        int     `json:"count"`
	AverageScore float64 `json:"averageScore"`
	MinScore     float64 `json:"minScore"`
	MaxScore     float64 `json:"maxScore"`
}

// Stats is the raw aggregate the store returns.
type Stats struct {
	Count int
	Sum   float64
	Min   float64
	Max   float64
}
