package salary

const (
	StatusPending = "pending"
	StatusPaid    = "paid"
)

var Statuses = []string{StatusPending, StatusPaid}

// Generation outcomes.
const (
	OutcomeGenerated        = "generated"
	OutcomeNoAttendance     = "no_attendance"
	OutcomeAlreadyGenerated = "already_generated"
	OutcomeFailed           = "failed"
)

const (
	CodeDuplicate    = "duplicate_salary"
	CodeInvalidState = "invalid_salary_state"
)
