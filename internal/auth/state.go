package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/domain/providers"
)

const (
	stateKeyPrefix  = "oauthstate:"
	stateTTLSeconds = 10 * 60
)

// loginState is what we need to remember between redirecting to the provider
// and handling its callback.
type loginState struct {
	ReturnTo string `json:"return_to"`
}

// StateStore issues single-use OAuth state parameters and the returnTo
// targets stashed behind them.
type StateStore struct {
	cache providers.CacheProvider
}

// NewStateStore creates a state store over the given cache provider.
func NewStateStore(cache providers.CacheProvider) *StateStore {
	return &StateStore{cache: cache}
}

// Issue stores returnTo under a fresh random state parameter.
func (s *StateStore) Issue(ctx context.Context, returnTo string) (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate oauth state: %w", err)
	}
	state := hex.EncodeToString(buf)

	data, err := json.Marshal(loginState{ReturnTo: returnTo})
	if err != nil {
		return "", fmt.Errorf("failed to encode oauth state: %w", err)
	}
	if err := s.cache.Set(ctx, stateKeyPrefix+state, data, stateTTLSeconds); err != nil {
		return "", fmt.Errorf("failed to store oauth state: %w", err)
	}
	return state, nil
}

// Redeem consumes a state parameter, returning its returnTo target. A state
// can be redeemed once; replays and unknown states report ok=false.
func (s *StateStore) Redeem(ctx context.Context, state string) (string, bool) {
	if state == "" {
		return "", false
	}

	data, err := s.cache.Get(ctx, stateKeyPrefix+state)
	if err != nil || len(data) == 0 {
		return "", false
	}
	// Best effort; an orphaned record expires with its TTL.
	_ = s.cache.Delete(ctx, stateKeyPrefix+state)

	ls := loginState{}
	if err := json.Unmarshal(data, &ls); err != nil {
		return "", false
	}
	return ls.ReturnTo, true
}

// CaptureReturnTo decides where to send the user after login: an explicit
// origin query parameter wins, then the path of the page that linked here,
// then the site root. Only relative paths are accepted so the redirect can
// never leave the site.
func CaptureReturnTo(r *http.Request) string {
	if target := sanitizeReturnTo(r.URL.Query().Get("origin")); target != "" {
		return target
	}

	if referer := r.Header.Get("Referer"); referer != "" {
		if u, err := url.Parse(referer); err == nil {
			target := u.Path
			if u.RawQuery != "" {
				target += "?" + u.RawQuery
			}
			if target = sanitizeReturnTo(target); target != "" {
				return target
			}
		}
	}

	return "/"
}

func sanitizeReturnTo(target string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		return ""
	}
	return target
}
