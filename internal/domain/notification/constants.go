package notification

const (
	TypeEmail = "email"
	TypeSMS   = "sms"

	StatusSent   = "sent"
	StatusFailed = "failed"
	StatusRead   = "read"

	LifecycleActive  = "active"
	LifecycleDeleted = "deleted"
)

var (
	Types    = []string{TypeEmail, TypeSMS}
	Statuses = []string{StatusSent, StatusFailed, StatusRead}
)

const (
	maxMessage     = 1000
	defaultSubject = "Notification"
)
