// Package session implements cookie sessions backed by the cache provider.
// The cookie carries an HMAC-signed session id; all session state lives
// server-side under a 30-day TTL.
package session

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/domain/providers"
	"github.com/DewyHRite/test.jamwathq.test-sub000/pkg/config"
)

const keyPrefix = "sess:"

// Session is the server-side state bound to one login.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	CSRFToken string    `json:"csrf_token"`
	CreatedAt time.Time `json:"created_at"`
}

// Manager creates, loads and destroys sessions.
type Manager struct {
	cache providers.CacheProvider
	cfg   *config.SessionConfig
}

// NewManager creates a session manager over the given cache provider.
func NewManager(cache providers.CacheProvider, cfg *config.SessionConfig) *Manager {
	return &Manager{cache: cache, cfg: cfg}
}

// Create stores a new session for the user and sets the signed cookie.
func (m *Manager) Create(ctx context.Context, w http.ResponseWriter, userID string) (*Session, error) {
	sid, err := randomToken(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session id: %w", err)
	}
	csrfToken, err := randomToken(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate csrf token: %w", err)
	}

	sess := &Session{
		ID:        sid,
		UserID:    userID,
		CSRFToken: csrfToken,
		CreatedAt: time.Now(),
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session: %w", err)
	}
	if err := m.cache.Set(ctx, keyPrefix+sid, data, m.ttlSeconds()); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	http.SetCookie(w, m.cookie(m.sign(sid), m.ttlSeconds()))
	return sess, nil
}

// Load returns the session referenced by the request cookie, or nil when the
// request carries no valid session.
func (m *Manager) Load(ctx context.Context, r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(m.cfg.CookieName)
	if err != nil {
		return nil, nil
	}

	sid, ok := m.verify(cookie.Value)
	if !ok {
		return nil, nil
	}

	data, err := m.cache.Get(ctx, keyPrefix+sid)
	if err != nil || len(data) == 0 {
		// Expired or evicted; treated as logged out.
		return nil, nil
	}

	sess := &Session{}
	if err := json.Unmarshal(data, sess); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return sess, nil
}

// Destroy removes the session state and expires the cookie.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	cookie, err := r.Cookie(m.cfg.CookieName)
	if err == nil {
		if sid, ok := m.verify(cookie.Value); ok {
			if err := m.cache.Delete(ctx, keyPrefix+sid); err != nil {
				return fmt.Errorf("failed to delete session: %w", err)
			}
		}
	}

	http.SetCookie(w, m.cookie("", -1))
	return nil
}

// Count returns the number of live sessions in the store.
func (m *Manager) Count(ctx context.Context) (int, error) {
	return m.cache.CountByPrefix(ctx, keyPrefix)
}

func (m *Manager) ttlSeconds() int {
	return m.cfg.MaxAgeDays * 24 * 60 * 60
}

func (m *Manager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   !m.cfg.AllowInsecureHTTP,
		SameSite: http.SameSiteLaxMode,
	}
}

// sign produces "<sid>.<hmac>" so a forged cookie cannot address arbitrary
// store keys.
func (m *Manager) sign(sid string) string {
	mac := hmac.New(sha256.New, []byte(m.cfg.Secret))
	mac.Write([]byte(sid))
	return sid + "." + hex.EncodeToString(mac.Sum(nil))
}

func (m *Manager) verify(value string) (string, bool) {
	sid, gotMAC, found := strings.Cut(value, ".")
	if !found || sid == "" {
		return "", false
	}

	mac := hmac.New(sha256.New, []byte(m.cfg.Secret))
	mac.Write([]byte(sid))
	wantMAC := hex.EncodeToString(mac.Sum(nil))

	if subtle.ConstantTimeCompare([]byte(gotMAC), []byte(wantMAC)) != 1 {
		return "", false
	}
	return sid, true
}

func randomToken(bytes int) (string, error) {
	buf := make([]byte, bytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
