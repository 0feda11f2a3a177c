package labourer

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

var Statuses = []string{StatusActive, StatusInactive}
