package server

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestAuthMiddleware(t *testing.T) {
	sm := NewSessionManager()
	h := sm.AuthMiddleware("admin", "secret")(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	tests := []struct {
		name       string
		user, pass string
		useAuth    bool
		want       int
	}{
		{"no credentials", "", "", false, http.StatusUnauthorized},
		{"wrong password", "admin", "nope", true, http.StatusUnauthorized},
		{"wrong user", "root", "secret", true, http.StatusUnauthorized},
		{"valid", "admin", "secret", true, http.StatusTeapot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.useAuth {
				req.SetBasicAuth(tt.user, tt.pass)
			}
			rec := httptest.NewRecorder()
			h(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			if tt.want == http.StatusUnauthorized && rec.Header().Get("WWW-Authenticate") == "" {
				t.Error("missing WWW-Authenticate header")
			}
		})
	}
}

func TestAuthMiddlewareSession(t *testing.T) {
	sm := NewSessionManager()
	h := sm.AuthMiddleware("admin", "secret")(func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.SetBasicAuth("admin", "secret")
	rec := httptest.NewRecorder()
	h(rec, req)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != sessionCookieName {
		t.Fatalf("cookies = %v, want a session cookie", cookies)
	}

	req = httptest.NewRequest(http.MethodGet, "/ws", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	h(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status with session cookie = %d, want 200", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/ws", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "forged"})
	rec = httptest.NewRecorder()
	h(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status with forged cookie = %d, want 401", rec.Code)
	}
}

func TestReadSilenceLog(t *testing.T) {
	dir := t.TempDir()

	entries, err := readSilenceLog(filepath.Join(dir, "missing.jsonl"), 10)
	if err != nil || len(entries) != 0 {
		t.Errorf("readSilenceLog(missing) = %v, %v; want empty", entries, err)
	}

	path := filepath.Join(dir, "alerts.jsonl")
	data := `{"timestamp":"t1","event":"silence_start"}
not json
{"timestamp":"t2","event":"silence_end","duration_sec":4}
{"timestamp":"t3","event":"silence_start"}
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	entries, err = readSilenceLog(path, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2 (malformed line skipped, oldest cut)", len(entries))
	}
	if entries[0].Timestamp != "t3" || entries[1].Timestamp != "t2" {
		t.Errorf("entries = %+v, want newest first", entries)
	}
}
