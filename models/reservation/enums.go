package reservation

// Status summarizes the four boolean lifecycle flags as a single value
// used for filtering and display.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusCompleted Status = "completed"
	StatusRejected  Status = "rejected"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusCompleted, StatusRejected:
		return true
	default:
		return false
	}
}

// GetAllStatuses returns all valid reservation statuses
func GetAllStatuses() []Status {
	return []Status{StatusPending, StatusApproved, StatusCompleted, StatusRejected}
}

// ConcreteGrade is one of the eight fixed concrete grade codes (kg per
// cubic meter).
type ConcreteGrade string

const (
	Grade150 ConcreteGrade = "150"
	Grade200 ConcreteGrade = "200"
	Grade250 ConcreteGrade = "250"
	Grade300 ConcreteGrade = "300"
	Grade350 ConcreteGrade = "350"
	Grade400 ConcreteGrade = "400"
	Grade450 ConcreteGrade = "450"
	Grade500 ConcreteGrade = "500"
)

func (g ConcreteGrade) String() string {
	return string(g)
}

func (g ConcreteGrade) IsValid() bool {
	switch g {
	case Grade150, Grade200, Grade250, Grade300, Grade350, Grade400, Grade450, Grade500:
		return true
	default:
		return false
	}
}

// GetAllConcreteGrades returns all valid grade codes
func GetAllConcreteGrades() []ConcreteGrade {
	return []ConcreteGrade{Grade150, Grade200, Grade250, Grade300, Grade350, Grade400, Grade450, Grade500}
}
