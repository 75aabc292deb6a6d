package orders

type Status string

const (
	StatusOpen      Status = "Open"
	StatusCommitted Status = "Committed"
	StatusScheduled Status = "Scheduled"
	StatusComplete  Status = "Complete"
	StatusCancelled Status = "Cancelled"
	StatusReturned  Status = "Returned"
)

var validNext = map[Status]map[Status]bool{
	StatusOpen:      {StatusCommitted: true, StatusComplete: true, StatusCancelled: true},
	StatusCommitted: {StatusScheduled: true, StatusComplete: true, StatusCancelled: true},
	StatusScheduled: {StatusComplete: true, StatusCancelled: true},
	StatusComplete:  {StatusReturned: true},
	StatusCancelled: {},
	StatusReturned:  {},
}

// CanTransition is the single legality check for status changes; every
// engine transition consults it. Cancelled and Returned are dead ends, and
// Complete only ever moves to Returned.
func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

// Modifiable reports whether quantity may still change.
func (s Status) Modifiable() bool {
	return s == StatusOpen || s == StatusCommitted
}
