package entities

import "time"

// StateReview is a work-and-travel experience review for a U.S. state.
// Reviews are append-only; there are no update or delete paths.
type StateReview struct {
	ID            string    `json:"id" db:"id"`
	UserID        string    `json:"user_id" db:"user_id"`
	UserFirstName string    `json:"user_first_name" db:"user_first_name"`
	UserGender    Gender    `json:"user_gender" db:"user_gender"`
	State         string    `json:"state" db:"state"`
	JobTitle      string    `json:"job_title" db:"job_title"`
	Employer      string    `json:"employer" db:"employer"`
	City          string    `json:"city" db:"city"`
	Wages         float64   `json:"wages" db:"wages"`
	HoursPerWeek  int       `json:"hours_per_week" db:"hours_per_week"`
	Rating        int       `json:"rating" db:"rating"`
	Experience    string    `json:"experience" db:"experience"`
	TimesUsed     int       `json:"times_used" db:"times_used"`
	VisitYear     string    `json:"visit_year" db:"visit_year"`
	TOSAccepted   bool      `json:"tos_accepted" db:"tos_accepted"`
	TOSAcceptedAt time.Time `json:"tos_accepted_at" db:"tos_accepted_at"`
	IsApproved    bool      `json:"is_approved" db:"is_approved"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// StateStats is the per-state aggregate for the scoreboard. Averages are
// pre-rounded at the service boundary: avgRating to 1 decimal, avgWage to 2.
type StateStats struct {
	State       string  `json:"state"`
	ReviewCount int     `json:"reviewCount"`
	AvgRating   float64 `json:"avgRating"`
	AvgWage     float64 `json:"avgWage"`
}

// StateAnalytics reports unique-visitor volume and average revisit count
// (timesUsed) per state. Only approved reviews with TOS accepted count.
type StateAnalytics struct {
	State         string  `json:"state"`
	TotalVisitors int     `json:"totalVisitors"`
	AvgRevisit    float64 `json:"avgRevisit"`
}

// USStates is the fixed 50-state list the scoreboard is zero-filled against.
var USStates = []string{
	"Alabama", "Alaska", "Arizona", "Arkansas", "California",
	"Colorado", "Connecticut", "Delaware", "Florida", "Georgia",
	"Hawaii", "Idaho", "Illinois", "Indiana", "Iowa",
	"Kansas", "Kentucky", "Louisiana", "Maine", "Maryland",
	"Massachusetts", "Michigan", "Minnesota", "Mississippi", "Missouri",
	"Montana", "Nebraska", "Nevada", "New Hampshire", "New Jersey",
	"New Mexico", "New York", "North Carolina", "North Dakota", "Ohio",
	"Oklahoma", "Oregon", "Pennsylvania", "Rhode Island", "South Carolina",
	"South Dakota", "Tennessee", "Texas", "Utah", "Vermont",
	"Virginia", "Washington", "West Virginia", "Wisconsin", "Wyoming",
}
