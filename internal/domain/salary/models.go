package salary

import (
	"time"

	"github.com/shopspring/decimal"
)

type Salary struct {
	ID               string          `json:"id"`
	LabourerID       string          `json:"labourerId"`
	LabourerName     string          `json:"labourerName,omitempty"`
	StartPeriod      time.Time       `json:"startPeriod"`
	EndPeriod        time.Time       `json:"endPeriod"`
	TotalDaysPresent int             `json:"totalDaysPresent"`
	DailyWage        decimal.Decimal `json:"dailyWage"`
	TotalSalary      decimal.Decimal `json:"totalSalary"`
	Status           string          `json:"status"`
	PayslipURL       string          `json:"payslipUrl"`
	PaymentDate      *time.Time      `json:"paymentDate"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

type GenerateInput struct {
	StartPeriod string           `json:"startPeriod"`
	EndPeriod   string           `json:"endPeriod"`
	DailyWage   *decimal.Decimal `json:"dailyWage"`
}

// Input is used for create and update. Update leaves nil fields unchanged.
type Input struct {
	LabourerID       *string          `json:"labourerId"`
	StartPeriod      *string          `json:"startPeriod"`
	EndPeriod        *string          `json:"endPeriod"`
	TotalDaysPresent *int             `json:"totalDaysPresent"`
	DailyWage        *decimal.Decimal `json:"dailyWage"`
}

type PayInput struct {
	PaymentDate string `json:"paymentDate"`
}

type Key struct {
	LabourerID  string
	StartPeriod time.Time
	EndPeriod   time.Time
}

type Filter struct {
	LabourerID  string
	Status      string
	StartPeriod string
	EndPeriod   string
}

// PresentDays is the number of present attendance days of one labourer.
type PresentDays struct {
	LabourerID string
	Days       int
}

type GenerateFailure struct {
	LabourerID string `json:"labourerId"`
	Error      string `json:"error"`
}

type GenerateResult struct {
	Outcome        string            `json:"outcome"`
	Message        string            `json:"message"`
	GeneratedCount int               `json:"generatedCount"`
	SkippedCount   int               `json:"skippedCount"`
	FailedCount    int               `json:"failedCount"`
	Generated      []Salary          `json:"generated"`
	Skipped        []string          `json:"skipped"`
	Failed         []GenerateFailure `json:"failed"`
}

// StatusTotal is the count and amount of salaries in one status.
type StatusTotal struct {
	Count  int
	Amount decimal.Decimal
}

type Summary struct {
	Pending       int             `json:"pending"`
	Paid          int             `json:"paid"`
	TotalRecords  int             `json:"totalRecords"`
	PendingAmount decimal.Decimal `json:"pendingAmount"`
	PaidAmount    decimal.Decimal `json:"paidAmount"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
}

// Payslip tells the caller where a salary's payslip lives. Exactly one of
// URL and Path is set.
type Payslip struct {
	URL  string
	Path string
}
