package api

import (
	"crypto/subtle"
	"fmt"
	"net/http"

	"github.com/AaronLay10/SliderEngine/internal/config"
)

// Role represents an authorization role.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleOperator Role = "operator"
)

// authConfig holds the credentials of each role.
type authConfig struct {
	admin    config.Credentials
	operator config.Credentials
	enabled  bool
}

var auth *authConfig

// InitAuth loads SLIDER_ADMIN_USER/PASS and SLIDER_OPERATOR_USER/PASS,
// each honouring the _FILE convention. Without admin credentials,
// authentication is disabled.
func InitAuth() error {
	admin, err := config.ResolveCredentials("SLIDER_ADMIN")
	if err != nil {
		return fmt.Errorf("failed to resolve admin credentials: %w", err)
	}
	operator, err := config.ResolveCredentials("SLIDER_OPERATOR")
	if err != nil {
		return fmt.Errorf("failed to resolve operator credentials: %w", err)
	}

	auth = &authConfig{
		admin:    admin,
		operator: operator,
		enabled:  admin.Set(),
	}
	return nil
}

// IsAuthEnabled returns true if authentication is configured.
func IsAuthEnabled() bool {
	return auth != nil && auth.enabled
}

// authenticate checks basic auth credentials and returns the role if valid.
// Returns empty string if credentials are invalid.
func authenticate(r *http.Request) Role {
	if !IsAuthEnabled() {
		return RoleAdmin
	}

	user, pass, ok := r.BasicAuth()
	if !ok {
		return ""
	}

	if matches(auth.admin, user, pass) {
		return RoleAdmin
	}
	if matches(auth.operator, user, pass) {
		return RoleOperator
	}
	return ""
}

func matches(c config.Credentials, user, pass string) bool {
	if !c.Set() {
		return false
	}
	// Evaluate both halves so timing does not reveal which one differed.
	u := subtle.ConstantTimeCompare([]byte(user), []byte(c.User))
	p := subtle.ConstantTimeCompare([]byte(pass), []byte(c.Password))
	return u&p == 1
}

func requireAuth(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Basic realm="Slider Engine"`)
	writeError(w, http.StatusUnauthorized, "unauthorized")
}

// RequireRole wraps a handler and requires one of the specified roles.
func RequireRole(handler http.HandlerFunc, allowedRoles ...Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role := authenticate(r)
		if role == "" {
			requireAuth(w)
			return
		}

		for _, allowed := range allowedRoles {
			if role == allowed {
				handler(w, r)
				return
			}
		}

		writeError(w, http.StatusForbidden, "forbidden")
	}
}

// RequireAnyRole wraps a handler requiring admin OR operator role.
func RequireAnyRole(handler http.HandlerFunc) http.HandlerFunc {
	return RequireRole(handler, RoleAdmin, RoleOperator)
}

// RequireAdmin wraps a handler requiring admin role only.
func RequireAdmin(handler http.HandlerFunc) http.HandlerFunc {
	return RequireRole(handler, RoleAdmin)
}
