package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AaronLay10/SliderEngine/internal/config"
)

func enableAuth(t *testing.T) {
	t.Helper()
	auth = &authConfig{
		admin:    config.Credentials{User: "admin", Password: "secret"},
		operator: config.Credentials{User: "operator", Password: "opsecret"},
		enabled:  true,
	}
	t.Cleanup(func() { auth = nil })
}

func TestAuthDisabledAllowsEverything(t *testing.T) {
	auth = &authConfig{enabled: false}
	defer func() { auth = nil }()

	called := false
	handler := RequireAdmin(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	w := httptest.NewRecorder()
	handler(w, httptest.NewRequest("GET", "/test", nil))

	if !called || w.Code != http.StatusOK {
		t.Errorf("called = %v, status = %d; want handler to run", called, w.Code)
	}
}

func TestRequireRole(t *testing.T) {
	enableAuth(t)

	tests := []struct {
		name       string
		user, pass string
		noAuth     bool
		admin      int
		any        int
	}{
		{name: "no credentials", noAuth: true, admin: http.StatusUnauthorized, any: http.StatusUnauthorized},
		{name: "admin", user: "admin", pass: "secret", admin: http.StatusOK, any: http.StatusOK},
		{name: "operator", user: "operator", pass: "opsecret", admin: http.StatusForbidden, any: http.StatusOK},
		{name: "wrong password", user: "admin", pass: "nope", admin: http.StatusUnauthorized, any: http.StatusUnauthorized},
		{name: "crossed credentials", user: "admin", pass: "opsecret", admin: http.StatusUnauthorized, any: http.StatusUnauthorized},
	}

	ok := func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, c := range []struct {
				handler http.HandlerFunc
				want    int
			}{
				{RequireAdmin(ok), tt.admin},
				{RequireAnyRole(ok), tt.any},
			} {
				req := httptest.NewRequest("GET", "/test", nil)
				if !tt.noAuth {
					req.SetBasicAuth(tt.user, tt.pass)
				}
				w := httptest.NewRecorder()
				c.handler(w, req)
				if w.Code != c.want {
					t.Errorf("status = %d, want %d", w.Code, c.want)
				}
				if w.Code == http.StatusUnauthorized && w.Header().Get("WWW-Authenticate") == "" {
					t.Error("401 without WWW-Authenticate header")
				}
			}
		})
	}
}

func TestInitAuth(t *testing.T) {
	defer func() { auth = nil }()

	for _, k := range []string{"SLIDER_ADMIN_USER", "SLIDER_ADMIN_PASS", "SLIDER_OPERATOR_USER", "SLIDER_OPERATOR_PASS",
		"SLIDER_ADMIN_USER_FILE", "SLIDER_ADMIN_PASS_FILE", "SLIDER_OPERATOR_USER_FILE", "SLIDER_OPERATOR_PASS_FILE"} {
		t.Setenv(k, "")
	}
	if err := InitAuth(); err != nil {
		t.Fatalf("InitAuth: %v", err)
	}
	if IsAuthEnabled() {
		t.Error("auth enabled without admin credentials")
	}

	t.Setenv("SLIDER_ADMIN_USER", "admin")
	t.Setenv("SLIDER_ADMIN_PASS", "secret")
	if err := InitAuth(); err != nil {
		t.Fatalf("InitAuth: %v", err)
	}
	if !IsAuthEnabled() {
		t.Error("auth disabled with admin credentials")
	}

	t.Setenv("SLIDER_OPERATOR_PASS_FILE", "/nonexistent/secret")
	if err := InitAuth(); err == nil {
		t.Error("expected error for unreadable secret file")
	}
}
