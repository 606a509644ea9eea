package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCertAndKey(t *testing.T) {
	tests := []struct {
		name    string
		tls     TLSConfig
		wantErr string
	}{
		{
			name: "file pair",
			tls:  TLSConfig{CertFile: "/etc/tls/cert.pem", KeyFile: "/etc/tls/key.pem"},
		},
		{
			name: "content pair",
			tls:  TLSConfig{CertContent: "cert-pem", KeyContent: "key-pem"},
		},
		{
			name: "file cert with content key",
			tls:  TLSConfig{CertFile: "/etc/tls/cert.pem", KeyContent: "key-pem"},
		},
		{
			name:    "key without cert",
			tls:     TLSConfig{KeyFile: "/etc/tls/key.pem"},
			wantErr: "TLS certificate and key are required for server mode",
		},
		{
			name:    "cert without key",
			tls:     TLSConfig{CertFile: "/etc/tls/cert.pem"},
			wantErr: "TLS certificate and key are required for server mode",
		},
		{
			name:    "nothing configured",
			tls:     TLSConfig{},
			wantErr: "TLS certificate and key are required",
		},
		{
			name:    "cert from both file and content",
			tls:     TLSConfig{CertFile: "/etc/tls/cert.pem", CertContent: "cert-pem", KeyFile: "/etc/tls/key.pem"},
			wantErr: "cannot specify both certFile and certContent",
		},
		{
			name:    "key from both file and content",
			tls:     TLSConfig{CertFile: "/etc/tls/cert.pem", KeyFile: "/etc/tls/key.pem", KeyContent: "key-pem"},
			wantErr: "cannot specify both keyFile and keyContent",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateCertAndKey(tt.tls, "server mode")
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateClientAuthPolicy(t *testing.T) {
	for _, policy := range []string{"require", "request", "verify", ""} {
		t.Run("accepts "+policy, func(t *testing.T) {
			assert.NoError(t, validateClientAuthPolicy(TLSConfig{ClientAuthPolicy: policy}))
		})
	}

	t.Run("rejects unknown policy", func(t *testing.T) {
		err := validateClientAuthPolicy(TLSConfig{ClientAuthPolicy: "optional"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid clientAuthPolicy")
		assert.Contains(t, err.Error(), "must be 'require', 'request', or 'verify'")
	})
}

func TestValidateTLSVersion(t *testing.T) {
	for _, version := range []string{"", "1.2", "1.3"} {
		t.Run("accepts "+version, func(t *testing.T) {
			assert.NoError(t, validateTLSVersion(TLSConfig{MinVersion: version}))
		})
	}

	for _, version := range []string{"1.0", "1.1", "tls13"} {
		t.Run("rejects "+version, func(t *testing.T) {
			err := validateTLSVersion(TLSConfig{MinVersion: version})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid TLS minVersion")
			assert.Contains(t, err.Error(), "must be '1.2' or '1.3'")
		})
	}
}

func TestValidateTLSConfig(t *testing.T) {
	configWith := func(tls TLSConfig) Config {
		return Config{Server: ServerConfig{TLS: tls}}
	}

	tests := []struct {
		name    string
		tls     TLSConfig
		wantErr string
	}{
		{
			name: "server mode with files",
			tls: TLSConfig{
				Mode:       "server",
				CertFile:   "/etc/tls/cert.pem",
				KeyFile:    "/etc/tls/key.pem",
				MinVersion: "1.2",
			},
		},
		{
			name: "mutual mode with vault content",
			tls: TLSConfig{
				Mode:             "mutual",
				CertContent:      "cert-pem",
				KeyContent:       "key-pem",
				CAContent:        "ca-pem",
				ClientAuthPolicy: "require",
				MinVersion:       "1.3",
			},
		},
		{
			name: "disabled mode needs nothing",
			tls:  TLSConfig{Mode: "disabled"},
		},
		{
			name: "unknown mode",
			tls: TLSConfig{
				Mode:     "optional",
				CertFile: "/etc/tls/cert.pem",
				KeyFile:  "/etc/tls/key.pem",
			},
			wantErr: "invalid TLS mode: optional",
		},
		{
			name: "bad minimum version",
			tls: TLSConfig{
				Mode:       "server",
				CertFile:   "/etc/tls/cert.pem",
				KeyFile:    "/etc/tls/key.pem",
				MinVersion: "1.0",
			},
			wantErr: "invalid TLS minVersion: 1.0",
		},
		{
			name:    "server mode without certificates",
			tls:     TLSConfig{Mode: "server", MinVersion: "1.2"},
			wantErr: "TLS certificate and key are required for server mode",
		},
		{
			name: "mutual mode without CA",
			tls: TLSConfig{
				Mode:     "mutual",
				CertFile: "/etc/tls/cert.pem",
				KeyFile:  "/etc/tls/key.pem",
			},
			wantErr: "CA certificate is required for mutual TLS mode",
		},
		{
			name: "CA from both file and content",
			tls: TLSConfig{
				Mode:      "mutual",
				CertFile:  "/etc/tls/cert.pem",
				KeyFile:   "/etc/tls/key.pem",
				CAFile:    "/etc/tls/ca.pem",
				CAContent: "ca-pem",
			},
			wantErr: "cannot specify both caFile and caContent",
		},
		{
			name: "mutual mode with bad client auth policy",
			tls: TLSConfig{
				Mode:             "mutual",
				CertFile:         "/etc/tls/cert.pem",
				KeyFile:          "/etc/tls/key.pem",
				CAFile:           "/etc/tls/ca.pem",
				ClientAuthPolicy: "optional",
			},
			wantErr: "invalid clientAuthPolicy: optional",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := configWith(tt.tls)
			err := cfg.ValidateTLSConfig()
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}
