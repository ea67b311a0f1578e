package auth

import (
	"fmt"
	"strings"

	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/domain/entities"
)

// NormalizedProfile is provider-agnostic identity data ready for
// findOrCreate.
type NormalizedProfile struct {
	Provider       entities.AuthProvider
	ProviderID     string
	Email          string
	FirstName      string
	Gender         entities.Gender
	ProfilePicture string
}

// ProfileNormalizer maps a provider's raw profile onto the common shape.
// Each provider gets its own implementation because the fallback rules
// differ in where a usable first name or email can come from.
type ProfileNormalizer interface {
	Normalize(raw Profile) NormalizedProfile
}

type googleNormalizer struct{}

func (googleNormalizer) Normalize(raw Profile) NormalizedProfile {
	return NormalizedProfile{
		Provider:       entities.AuthProviderGoogle,
		ProviderID:     raw.ID,
		Email:          fallbackEmail(raw.Email, raw.ID, entities.AuthProviderGoogle),
		FirstName:      fallbackFirstName(raw.GivenName, raw.Name),
		Gender:         entities.ParseGender(raw.Gender),
		ProfilePicture: raw.Picture,
	}
}

type facebookNormalizer struct{}

func (facebookNormalizer) Normalize(raw Profile) NormalizedProfile {
	return NormalizedProfile{
		Provider:       entities.AuthProviderFacebook,
		ProviderID:     raw.ID,
		Email:          fallbackEmail(raw.Email, raw.ID, entities.AuthProviderFacebook),
		FirstName:      fallbackFirstName(raw.GivenName, raw.Name),
		Gender:         entities.ParseGender(raw.Gender),
		ProfilePicture: raw.Picture,
	}
}

// fallbackFirstName prefers the provider's given name, then the first token
// of the display name, then a generic placeholder.
func fallbackFirstName(givenName, displayName string) string {
	if name := strings.TrimSpace(givenName); name != "" {
		return name
	}
	if fields := strings.Fields(displayName); len(fields) > 0 {
		return fields[0]
	}
	return "User"
}

// fallbackEmail synthesizes a stable placeholder address when the provider
// withholds the real one (Facebook does this for phone-only accounts).
func fallbackEmail(email, providerID string, provider entities.AuthProvider) string {
	if email != "" {
		return strings.ToLower(strings.TrimSpace(email))
	}
	return fmt.Sprintf("%s@%s.com", providerID, provider)
}
