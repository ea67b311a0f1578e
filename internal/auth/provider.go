// Package auth implements the OAuth login flow: provider configuration,
// profile retrieval, profile normalization, and the short-lived state
// records that tie a callback to the login that initiated it.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
	"golang.org/x/oauth2/google"

	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/domain/entities"
	"github.com/DewyHRite/test.jamwathq.test-sub000/pkg/config"
)

const (
	googleUserInfoURL   = "https://www.googleapis.com/oauth2/v2/userinfo"
	facebookUserInfoURL = "https://graph.facebook.com/me?fields=id,first_name,name,email,picture,gender"
)

// Profile is the raw identity payload fetched from a provider after token
// exchange, before normalization.
type Profile struct {
	ID        string
	Email     string
	GivenName string
	Name      string
	Picture   string
	Gender    string
}

// Provider wraps one OAuth provider's endpoint configuration and profile API.
type Provider struct {
	Name       entities.AuthProvider
	oauth      *oauth2.Config
	profileURL string
	normalizer ProfileNormalizer
}

// NewGoogleProvider configures the Google login provider.
func NewGoogleProvider(cfg *config.OAuthProviderConfig) *Provider {
	return &Provider{
		Name: entities.AuthProviderGoogle,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.CallbackURL,
			Scopes:       []string{"profile", "email"},
			Endpoint:     google.Endpoint,
		},
		profileURL: googleUserInfoURL,
		normalizer: googleNormalizer{},
	}
}

// NewFacebookProvider configures the Facebook login provider.
func NewFacebookProvider(cfg *config.OAuthProviderConfig) *Provider {
	return &Provider{
		Name: entities.AuthProviderFacebook,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.CallbackURL,
			Scopes:       []string{"email"},
			Endpoint:     facebook.Endpoint,
		},
		profileURL: facebookUserInfoURL,
		normalizer: facebookNormalizer{},
	}
}

// AuthURL returns the provider's consent page URL for the given state.
func (p *Provider) AuthURL(state string) string {
	return p.oauth.AuthCodeURL(state)
}

// Exchange trades the callback code for an access token.
func (p *Provider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange %s auth code: %w", p.Name, err)
	}
	return token, nil
}

// FetchProfile retrieves and normalizes the authenticated user's profile.
func (p *Provider) FetchProfile(ctx context.Context, token *oauth2.Token) (*NormalizedProfile, error) {
	client := p.oauth.Client(ctx, token)

	resp, err := client.Get(p.profileURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s profile: %w", p.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%s profile request returned %d: %s", p.Name, resp.StatusCode, body)
	}

	raw, err := p.decodeProfile(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s profile: %w", p.Name, err)
	}
	if raw.ID == "" {
		return nil, fmt.Errorf("%s profile has no id", p.Name)
	}

	normalized := p.normalizer.Normalize(raw)
	return &normalized, nil
}

func (p *Provider) decodeProfile(body io.Reader) (Profile, error) {
	switch p.Name {
	case entities.AuthProviderFacebook:
		var fb struct {
			ID        string `json:"id"`
			FirstName string `json:"first_name"`
			Name      string `json:"name"`
			Email     string `json:"email"`
			Gender    string `json:"gender"`
			Picture   struct {
				Data struct {
					URL string `json:"url"`
				} `json:"data"`
			} `json:"picture"`
		}
		if err := json.NewDecoder(body).Decode(&fb); err != nil {
			return Profile{}, err
		}
		return Profile{
			ID:        fb.ID,
			Email:     fb.Email,
			GivenName: fb.FirstName,
			Name:      fb.Name,
			Picture:   fb.Picture.Data.URL,
			Gender:    fb.Gender,
		}, nil
	default:
		var g struct {
			ID        string `json:"id"`
			Email     string `json:"email"`
			GivenName string `json:"given_name"`
			Name      string `json:"name"`
			Picture   string `json:"picture"`
			Gender    string `json:"gender"`
		}
		if err := json.NewDecoder(body).Decode(&g); err != nil {
			return Profile{}, err
		}
		return Profile{
			ID:        g.ID,
			Email:     g.Email,
			GivenName: g.GivenName,
			Name:      g.Name,
			Picture:   g.Picture,
			Gender:    g.Gender,
		}, nil
	}
}
