package orders

type Status string

const (
	StatusCreated   Status = "CREATED"
	StatusCommitted Status = "COMMITTED"
	StatusFailed    Status = "FAILED"
)

var validNext = map[Status]map[Status]bool{
	StatusCreated:   {StatusCommitted: true, StatusFailed: true},
	StatusCommitted: {},
	StatusFailed:    {},
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}
