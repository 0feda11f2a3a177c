package attendance

const (
	ShiftMorning = "morning"
	ShiftEvening = "evening"
	ShiftNight   = "night"

	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusHalfDay = "half-day"
)

var (
	Shifts   = []string{ShiftMorning, ShiftEvening, ShiftNight}
	Statuses = []string{StatusPresent, StatusAbsent, StatusHalfDay}
)

// MaxBulkEntries bounds a single bulk request.
const MaxBulkEntries = 500

const CodeDuplicate = "duplicate_attendance"
