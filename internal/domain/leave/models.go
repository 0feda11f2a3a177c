package leave

import "time"

type Leave struct {
	ID           string     `json:"id"`
	LabourerID   string     `json:"labourerId"`
	LabourerName string     `json:"labourerName,omitempty"`
	FromDate     time.Time  `json:"fromDate"`
	ToDate       time.Time  `json:"toDate"`
	Reason       string     `json:"reason"`
	Status       string     `json:"status"`
	AppliedOn    time.Time  `json:"appliedOn"`
	ReviewedBy   *string    `json:"reviewedBy"`
	ReviewedAt   *time.Time `json:"reviewedAt"`
	Remark       string     `json:"remark"`
}

type ApplyInput struct {
	LabourerID string `json:"labourerId"`
	FromDate   string `json:"fromDate"`
	ToDate     string `json:"toDate"`
	Reason     string `json:"reason"`
}

type ReviewInput struct {
	Remark string `json:"remark"`
}

type Filter struct {
	LabourerID string
	Status     string
	FromDate   string
	ToDate     string
}
