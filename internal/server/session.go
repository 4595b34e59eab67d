// Package server provides authentication and the WebSocket plumbing for the
// live meter monitor.
package server

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"sync"
	"time"
)

const (
	sessionCookieName = "ledmeter_session"
	sessionDuration   = 24 * time.Hour
	authRealm         = `Basic realm="ledmeter"`
)

// SessionManager remembers browsers that passed basic auth so the
// websocket can reconnect without asking again.
type SessionManager struct {
	sessions map[string]time.Time
	mu       sync.RWMutex
}

// NewSessionManager creates a new session manager.
func NewSessionManager() *SessionManager {
	return &SessionManager{sessions: make(map[string]time.Time)}
}

// generateToken creates a cryptographically secure random token.
func generateToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return ""
	}
	return hex.EncodeToString(b)
}

// Create creates a new session and returns the token.
func (sm *SessionManager) Create() string {
	token := generateToken()
	if token == "" {
		return ""
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	now := time.Now()
	for k, exp := range sm.sessions {
		if now.After(exp) {
			delete(sm.sessions, k)
		}
	}
	sm.sessions[token] = now.Add(sessionDuration)
	return token
}

// Validate checks if a session token is valid.
func (sm *SessionManager) Validate(token string) bool {
	if token == "" {
		return false
	}

	sm.mu.RLock()
	exp, exists := sm.sessions[token]
	sm.mu.RUnlock()

	if !exists {
		return false
	}
	if time.Now().After(exp) {
		sm.mu.Lock()
		delete(sm.sessions, token)
		sm.mu.Unlock()
		return false
	}
	return true
}

// AuthMiddleware accepts a valid session cookie or matching basic auth
// credentials. A successful basic auth login starts a session.
// Credentials are compared in constant time.
func (sm *SessionManager) AuthMiddleware(username, password string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if cookie, err := r.Cookie(sessionCookieName); err == nil && sm.Validate(cookie.Value) {
				next(w, r)
				return
			}

			user, pass, ok := r.BasicAuth()
			if ok && credentialsMatch(user, pass, username, password) {
				if token := sm.Create(); token != "" {
					http.SetCookie(w, &http.Cookie{
						Name:     sessionCookieName,
						Value:    token,
						Path:     "/",
						MaxAge:   int(sessionDuration.Seconds()),
						HttpOnly: true,
						Secure:   r.TLS != nil,
						SameSite: http.SameSiteStrictMode,
					})
				}
				next(w, r)
				return
			}

			w.Header().Set("WWW-Authenticate", authRealm)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
		}
	}
}

func credentialsMatch(user, pass, wantUser, wantPass string) bool {
	userMatch := subtle.ConstantTimeCompare([]byte(user), []byte(wantUser)) == 1
	passMatch := subtle.ConstantTimeCompare([]byte(pass), []byte(wantPass)) == 1
	return userMatch && passMatch
}
