package leave

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

var Statuses = []string{StatusPending, StatusApproved, StatusRejected}

const (
	CodeInvalidState = "invalid_leave_state"

	maxReason = 500
	maxRemark = 500
)
