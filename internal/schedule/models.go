package schedule

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrScheduleNotFound  = errors.New("schedule not found")
	ErrMemberNotFound    = errors.New("member not found")
	ErrDuplicateSchedule = errors.New("schedule already exists")
)

const (
	maxAcolytes = 3
	maxServers  = 5
)

// Schedule assigns acolytes and altar servers to one mass on one date.
type Schedule struct {
	ID        string    `json:"id"`
	Mass      string    `json:"mass"`
	Date      string    `json:"date"`
	Month     int       `json:"month"`
	Year      int       `json:"year"`
	Weekday   string    `json:"weekday"`
	Hour      string    `json:"hour"`
	Chapel    string    `json:"chapel"`
	Acolytes  []string  `json:"acolytes"`
	Servers   []string  `json:"servers"`
	CreatedAt time.Time `json:"created_at"`
}

// NewSchedule resolves the mass against the catalog and fills weekday, hour
// and chapel from it so the stored row can never disagree with the
// description.
func NewSchedule(mass, date string, month, year int, acolytes, servers []string) (*Schedule, error) {
	m, ok := LookupMass(mass)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMass, mass)
	}
	if date == "" {
		return nil, errors.New("date is required")
	}
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("invalid month %d", month)
	}
	if year < 2000 {
		return nil, fmt.Errorf("invalid year %d", year)
	}
	if len(acolytes) > maxAcolytes {
		return nil, fmt.Errorf("at most %d acolytes", maxAcolytes)
	}
	if len(servers) > maxServers {
		return nil, fmt.Errorf("at most %d servers", maxServers)
	}
	return &Schedule{
		Mass:     m.Description,
		Date:     date,
		Month:    month,
		Year:     year,
		Weekday:  m.Weekday,
		Hour:     m.Hour,
		Chapel:   m.Chapel,
		Acolytes: acolytes,
		Servers:  servers,
	}, nil
}

const (
	RoleServer  = "server"  // coroinha
	RoleAcolyte = "acolyte" // acólito
)

// Member is one person available for roster duty.
type Member struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}
