package attendance

import "time"

type Attendance struct {
	ID           string    `json:"id"`
	LabourerID   string    `json:"labourerId"`
	ProjectID    string    `json:"projectId"`
	Date         time.Time `json:"date"`
	Shift        string    `json:"shift"`
	Status       string    `json:"status"`
	MarkedBy     *string   `json:"markedBy"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	LabourerName string    `json:"labourerName,omitempty"`
	ProjectName  string    `json:"projectName,omitempty"`
}

type Input struct {
	LabourerID string `json:"labourerId"`
	ProjectID  string `json:"projectId"`
	Date       string `json:"date"`
	Shift      string `json:"shift"`
	Status     string `json:"status"`
}

type UpdateInput struct {
	LabourerID *string `json:"labourerId"`
	ProjectID  *string `json:"projectId"`
	Date       *string `json:"date"`
	Shift      *string `json:"shift"`
	Status     *string `json:"status"`
}

// Key is the tuple that identifies at most one attendance record.
type Key struct {
	LabourerID string
	ProjectID  string
	Date       time.Time
	Shift      string
}

type Filter struct {
	LabourerID string
	ProjectID  string
	Status     string
	Shift      string
	Date       string
	StartDate  string
	EndDate    string
	MarkedBy   string
}

type Summary struct {
	Present      int `json:"present"`
	Absent       int `json:"absent"`
	HalfDay      int `json:"halfDay"`
	TotalRecords int `json:"totalRecords"`
}

type BulkFailure struct {
	Index  int    `json:"index"`
	Error  string `json:"error"`
	Record Input  `json:"record"`
}

type BulkResult struct {
	InsertedCount int           `json:"insertedCount"`
	FailedCount   int           `json:"failedCount"`
	Inserted      []Attendance  `json:"inserted"`
	Failed        []BulkFailure `json:"failed"`
}
