package api

import (
	"crypto/tls"
	"fmt"
	"os"
)

// TLSConfig holds TLS certificate paths loaded from environment variables.
type TLSConfig struct {
	CertFile string
	KeyFile  string
}

// tlsConfig is the package-level TLS configuration, set by InitTLS.
var tlsConfig *TLSConfig

// InitTLS reads SLIDER_TLS_CERT and SLIDER_TLS_KEY. Both must be set to
// enable TLS.
func InitTLS() {
	certFile := os.Getenv("SLIDER_TLS_CERT")
	keyFile := os.Getenv("SLIDER_TLS_KEY")

	tlsConfig = nil
	if certFile != "" && keyFile != "" {
		tlsConfig = &TLSConfig{
			CertFile: certFile,
			KeyFile:  keyFile,
		}
	}
}

// IsTLSEnabled returns true if TLS is configured.
func IsTLSEnabled() bool {
	return tlsConfig != nil && tlsConfig.CertFile != "" && tlsConfig.KeyFile != ""
}

// GetTLSConfig returns the current TLS configuration (may be nil).
func GetTLSConfig() *TLSConfig {
	return tlsConfig
}

// BuildTLSConfig loads the key pair named by InitTLS. It returns nil, nil
// when TLS is not configured.
func BuildTLSConfig() (*tls.Config, error) {
	if !IsTLSEnabled() {
		return nil, nil
	}

	cert, err := tls.LoadX509KeyPair(tlsConfig.CertFile, tlsConfig.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load TLS certificate: %w", err)
	}

	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}, nil
}

// SetTLSConfigForTest allows tests to set TLS config directly.
func SetTLSConfigForTest(cfg *TLSConfig) {
	tlsConfig = cfg
}
