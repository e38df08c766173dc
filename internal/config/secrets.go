package config

import (
	"fmt"
	"os"
	"strings"
)

// ResolveSecret reads env, preferring the file named by env+"_FILE".
// The file content is trimmed. Returns "" when neither is set.
func ResolveSecret(env string) (string, error) {
	fileEnv := env + "_FILE"
	if path := os.Getenv(fileEnv); path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read secret from %s=%s: %w", fileEnv, path, err)
		}
		return strings.TrimSpace(string(content)), nil
	}
	return os.Getenv(env), nil
}

// Credentials is a user/password pair from PREFIX_USER and PREFIX_PASS.
type Credentials struct {
	User     string
	Password string
}

// Set reports whether both parts are present.
func (c Credentials) Set() bool {
	return c.User != "" && c.Password != ""
}

// ResolveCredentials reads prefix+"_USER" and prefix+"_PASS", each honouring
// the _FILE convention.
func ResolveCredentials(prefix string) (Credentials, error) {
	user, err := ResolveSecret(prefix + "_USER")
	if err != nil {
		return Credentials{}, err
	}
	pass, err := ResolveSecret(prefix + "_PASS")
	if err != nil {
		return Credentials{}, err
	}
	return Credentials{User: user, Password: pass}, nil
}
