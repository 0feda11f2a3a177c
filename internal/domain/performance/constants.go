package performance

const (
	MinScore = 0
	MaxScore = 100

	maxRemarks = 1000

	CodeDuplicate = "duplicate_performance"
)
