package order

// Transitions is the single source of truth for status changes. Both
// the service and any UI deciding which actions to offer consult this
// table; it is never re-encoded as inline conditionals.
var Transitions = map[Status][]Status{
	StatusNew:        {StatusInProgress, StatusClosed},
	StatusInProgress: {StatusDone, StatusClosed},
	StatusDone:       {StatusClosed},
	StatusClosed:     {},
}

func CanTransition(from, to Status) bool {
	for _, s := range Transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func ValidStatus(s string) bool {
	switch Status(s) {
	case StatusNew, StatusInProgress, StatusDone, StatusClosed:
		return true
	}
	return false
}

func ValidPriority(p string) bool {
	switch Priority(p) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}
