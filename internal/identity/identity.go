// Package identity tags each browser with an anonymous ID and each tab with a
// session ID so audit history stays per tab without accounts.
package identity

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"
)

const (
	CookieName     = "biasguard_anon_id"
	SessionHeader  = "X-BiasGuard-Session-ID"
	DefaultSession = "default"
	cookieMaxAge   = 30 * 24 * time.Hour
)

var (
	anonIDPattern  = regexp.MustCompile(`^anon_[a-f0-9]{32}$`)
	sessionPattern = regexp.MustCompile(`^[A-Za-z0-9._:-]{1,128}$`)
)

// Identity names the caller of a request.
type Identity struct {
	UserID    string
	SessionID string
}

// Label is a short tag for logs that does not reveal the full ID.
func (id Identity) Label() string {
	if len(id.UserID) < 8 {
		return "anon"
	}
	return "anon-" + id.UserID[len(id.UserID)-8:]
}

type contextKey struct{}

// NewContext returns ctx carrying id.
func NewContext(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the caller identity, or an empty user on the default
// session when none was attached.
func FromContext(ctx context.Context) Identity {
	if id, ok := ctx.Value(contextKey{}).(Identity); ok {
		return id
	}
	return Identity{SessionID: DefaultSession}
}

// Middleware attaches an Identity to every request. A missing or malformed
// cookie gets a fresh anonymous ID; the cookie is refreshed either way.
func Middleware(isDev bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := anonID(r)
			if err != nil {
				http.Error(w, `{"error":"failed to establish anonymous identity"}`, http.StatusInternalServerError)
				return
			}
			http.SetCookie(w, &http.Cookie{
				Name:     CookieName,
				Value:    userID,
				Path:     "/",
				MaxAge:   int(cookieMaxAge.Seconds()),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
				Secure:   !isDev,
			})

			id := Identity{UserID: userID, SessionID: sessionID(r)}
			next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), id)))
		})
	}
}

func anonID(r *http.Request) (string, error) {
	if c, err := r.Cookie(CookieName); err == nil && anonIDPattern.MatchString(c.Value) {
		return c.Value, nil
	}
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate anonymous id: %w", err)
	}
	return "anon_" + hex.EncodeToString(buf), nil
}

// sessionID reads the tab session from the header, falling back to the
// session_id query parameter used by the feed WebSocket.
func sessionID(r *http.Request) string {
	sid := r.Header.Get(SessionHeader)
	if sid == "" {
		sid = r.URL.Query().Get("session_id")
	}
	sid = strings.TrimSpace(sid)
	if !sessionPattern.MatchString(sid) {
		return DefaultSession
	}
	return sid
}
