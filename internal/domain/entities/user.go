package entities

import "time"

// AuthProvider identifies the OAuth provider a user signed in with.
type AuthProvider string

const (
	AuthProviderGoogle   AuthProvider = "google"
	AuthProviderFacebook AuthProvider = "facebook"
)

// Valid reports whether the provider is one we support.
func (p AuthProvider) Valid() bool {
	return p == AuthProviderGoogle || p == AuthProviderFacebook
}

// Gender is best-effort demographic data extracted from provider profiles.
type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderOther   Gender = "other"
	GenderUnknown Gender = "unknown"
)

// ParseGender maps a raw provider value onto a known gender, defaulting to
// unknown for anything unrecognized.
func ParseGender(raw string) Gender {
	switch Gender(raw) {
	case GenderMale, GenderFemale, GenderOther:
		return Gender(raw)
	default:
		return GenderUnknown
	}
}

// User represents an OAuth-authenticated user. Users are created on first
// login and never deleted; lastLogin is touched on every authentication.
type User struct {
	ID             string       `json:"id" db:"id"`
	AuthProvider   AuthProvider `json:"auth_provider" db:"auth_provider"`
	ProviderID     string       `json:"-" db:"provider_id"`
	Email          string       `json:"email" db:"email"`
	FirstName      string       `json:"first_name" db:"first_name"`
	Gender         Gender       `json:"gender" db:"gender"`
	ProfilePicture string       `json:"profile_picture" db:"profile_picture"`
	CreatedAt      time.Time    `json:"created_at" db:"created_at"`
	LastLogin      time.Time    `json:"last_login" db:"last_login"`
}
