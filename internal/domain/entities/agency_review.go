package entities

import "time"

// AgencyReview is a category-rated review of a J-1 placement agency.
// agencyId is a free-text slug, not a foreign key; agency master data lives
// with the frontend.
type AgencyReview struct {
	ID                 string    `json:"id" db:"id"`
	UserID             string    `json:"user_id" db:"user_id"`
	UserFirstName      string    `json:"user_first_name" db:"user_first_name"`
	AgencyID           string    `json:"agency_id" db:"agency_id"`
	AgencyName         string    `json:"agency_name" db:"agency_name"`
	ApplicationProcess int       `json:"application_process" db:"application_process"`
	CustomerService    int       `json:"customer_service" db:"customer_service"`
	Communication      int       `json:"communication" db:"communication"`
	SupportServices    int       `json:"support_services" db:"support_services"`
	OverallExperience  int       `json:"overall_experience" db:"overall_experience"`
	OverallRating      float64   `json:"overall_rating" db:"overall_rating"`
	UsageFrequency     int       `json:"usage_frequency" db:"usage_frequency"`
	Comments           string    `json:"comments" db:"comments"`
	TOSAcceptedAt      time.Time `json:"tos_accepted_at" db:"tos_accepted_at"`
	IPAddress          string    `json:"-" db:"ip_address"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
}

// AgencyMetrics holds the 1-decimal category averages for a ranked agency.
type AgencyMetrics struct {
	ApplicationProcess float64 `json:"applicationProcess"`
	CustomerService    float64 `json:"customerService"`
	Communication      float64 `json:"communication"`
	SupportServices    float64 `json:"supportServices"`
	OverallExperience  float64 `json:"overallExperience"`
}

// AgencyRanking is one row of the agency scoreboard.
type AgencyRanking struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	OverallRating  float64       `json:"overallRating"`
	ReviewCount    int           `json:"reviewCount"`
	Metrics        AgencyMetrics `json:"metrics"`
	Verified       bool          `json:"verified"`
	RecentActivity bool          `json:"recentActivity"`
	LastReviewDate time.Time     `json:"lastReviewDate"`
}

// AgencyReviewWithProfile is the public listing shape for a single agency's
// reviews, carrying the submitter's profile picture from the users table.
type AgencyReviewWithProfile struct {
	UserFirstName      string    `json:"userFirstName"`
	UserProfilePicture string    `json:"userProfilePicture"`
	OverallRating      float64   `json:"overallRating"`
	ApplicationProcess int       `json:"applicationProcess"`
	CustomerService    int       `json:"customerService"`
	Communication      int       `json:"communication"`
	SupportServices    int       `json:"supportServices"`
	OverallExperience  int       `json:"overallExperience"`
	Comments           string    `json:"comments"`
	CreatedAt          time.Time `json:"createdAt"`
	UsageFrequency     int       `json:"usageFrequency"`
}
