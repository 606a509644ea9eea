package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/anujkumar2005/smart-ats-ultimate/internal/errors"

	"github.com/hashicorp/vault/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vaultTestLogger(t *testing.T) *errors.Logger {
	t.Helper()
	logger, err := errors.New("debug")
	require.NoError(t, err)
	return logger
}

func TestParseVersionValue(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		want    int64
		wantErr bool
	}{
		{name: "int64", input: int64(7), want: 7},
		{name: "float64", input: float64(7), want: 7},
		{name: "numeric string", input: "7", want: 7},
		{name: "negative string", input: "-7", want: -7},
		{name: "garbage string", input: "seven", wantErr: true},
		{name: "float string", input: "7.5", wantErr: true},
		{name: "empty string", input: "", wantErr: true},
		{name: "slice", input: []string{"7"}, wantErr: true},
		{name: "nil", input: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseVersionValue(tt.input, "secret/app")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyGeminiKeyToConfig(t *testing.T) {
	t.Run("fills empty operation key", func(t *testing.T) {
		cfg := &Config{}
		applyGeminiKeyToConfig(cfg, "vault-key")

		assert.Equal(t, "vault-key", cfg.AI.APIKey)
		assert.Equal(t, "vault-key", cfg.AI.Improve.APIKey)
	})

	t.Run("keeps explicit operation override", func(t *testing.T) {
		cfg := &Config{
			AI: AIConfig{Improve: OperationAIConfig{APIKey: "improve-override"}},
		}
		applyGeminiKeyToConfig(cfg, "vault-key")

		assert.Equal(t, "vault-key", cfg.AI.APIKey)
		assert.Equal(t, "improve-override", cfg.AI.Improve.APIKey)
	})
}

func TestResolveVaultToken(t *testing.T) {
	logger := vaultTestLogger(t)

	writeTokenFile := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "token")
		require.NoError(t, os.WriteFile(path, []byte(content), 0600))
		return path
	}

	t.Run("direct token", func(t *testing.T) {
		token, err := resolveVaultToken(VaultConfig{Token: "hvs.direct"}, logger)
		require.NoError(t, err)
		assert.Equal(t, "hvs.direct", token)
	})

	t.Run("token file is trimmed", func(t *testing.T) {
		path := writeTokenFile(t, "  hvs.from-file \n")
		token, err := resolveVaultToken(VaultConfig{TokenFile: path}, logger)
		require.NoError(t, err)
		assert.Equal(t, "hvs.from-file", token)
	})

	t.Run("direct token wins over file", func(t *testing.T) {
		path := writeTokenFile(t, "hvs.from-file")
		token, err := resolveVaultToken(VaultConfig{Token: "hvs.direct", TokenFile: path}, logger)
		require.NoError(t, err)
		assert.Equal(t, "hvs.direct", token)
	})

	t.Run("unreadable token file", func(t *testing.T) {
		_, err := resolveVaultToken(VaultConfig{TokenFile: "/does/not/exist"}, logger)
		assert.ErrorContains(t, err, "failed to read vault token file")
	})

	t.Run("whitespace-only token file", func(t *testing.T) {
		path := writeTokenFile(t, " \n\t\n")
		_, err := resolveVaultToken(VaultConfig{TokenFile: path}, logger)
		assert.ErrorContains(t, err, "vault token is required")
	})

	t.Run("no token at all", func(t *testing.T) {
		_, err := resolveVaultToken(VaultConfig{}, logger)
		assert.ErrorContains(t, err, "vault token is required")
	})
}

func TestLoadSingleCertificate(t *testing.T) {
	logger := vaultTestLogger(t)

	tests := []struct {
		name string
		data map[string]any
		want int
	}{
		{name: "pem content present", data: map[string]any{"cert": "-----BEGIN CERTIFICATE-----\nabc\n-----END CERTIFICATE-----"}, want: 1},
		{name: "empty content", data: map[string]any{"cert": ""}},
		{name: "key absent", data: map[string]any{"unrelated": "x"}},
		{name: "non-string content", data: map[string]any{"cert": 42}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var target string
			got := loadSingleCertificate(&VaultSecret{Data: tt.data}, "cert", &target, "TLS certificate content", logger)

			assert.Equal(t, tt.want, got)
			if tt.want == 1 {
				assert.Equal(t, tt.data["cert"], target)
			} else {
				assert.Empty(t, target)
			}
		})
	}
}

func TestLoadTLSCertificateContent(t *testing.T) {
	logger := vaultTestLogger(t)

	t.Run("all three fields", func(t *testing.T) {
		cfg := &Config{}
		secret := &VaultSecret{Data: map[string]any{
			"cert": "cert-pem",
			"key":  "key-pem",
			"ca":   "ca-pem",
		}}

		assert.Equal(t, 3, loadTLSCertificateContent(cfg, secret, logger))
		assert.Equal(t, "cert-pem", cfg.Server.TLS.CertContent)
		assert.Equal(t, "key-pem", cfg.Server.TLS.KeyContent)
		assert.Equal(t, "ca-pem", cfg.Server.TLS.CAContent)
	})

	t.Run("cert only", func(t *testing.T) {
		cfg := &Config{}
		secret := &VaultSecret{Data: map[string]any{"cert": "cert-pem"}}

		assert.Equal(t, 1, loadTLSCertificateContent(cfg, secret, logger))
		assert.Equal(t, "cert-pem", cfg.Server.TLS.CertContent)
		assert.Empty(t, cfg.Server.TLS.KeyContent)
		assert.Empty(t, cfg.Server.TLS.CAContent)
	})
}

func TestValidateTLSDeprecatedFields(t *testing.T) {
	logger := vaultTestLogger(t)

	t.Run("content fields pass", func(t *testing.T) {
		secret := &VaultSecret{Data: map[string]any{
			"cert": "cert-pem", "key": "key-pem", "ca": "ca-pem",
		}}
		assert.NoError(t, validateTLSDeprecatedFields(secret, logger))
	})

	for _, field := range []string{"cert_file", "key_file", "ca_file"} {
		t.Run(field+" rejected", func(t *testing.T) {
			secret := &VaultSecret{Data: map[string]any{field: "/etc/tls/some-path"}}
			err := validateTLSDeprecatedFields(secret, logger)
			require.Error(t, err)
			assert.Contains(t, err.Error(), field)
			assert.Contains(t, err.Error(), "no longer supported")
		})
	}
}

func TestApplyVaultSecretsDisabled(t *testing.T) {
	cfg := &Config{Vault: VaultConfig{Enabled: false}}
	assert.NoError(t, ApplyVaultSecrets(cfg, vaultTestLogger(t)))
	assert.Empty(t, cfg.Server.APIKeys)
}

func TestExtractSecretData(t *testing.T) {
	vc := &VaultClient{logger: vaultTestLogger(t)}

	t.Run("kvv2 shape", func(t *testing.T) {
		secret := &api.Secret{Data: map[string]any{
			"data": map[string]any{"api_key": "k1"},
		}}
		data, err := vc.extractSecretData(secret, "secret/data/app")
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"api_key": "k1"}, data)
	})

	t.Run("missing data field", func(t *testing.T) {
		secret := &api.Secret{Data: map[string]any{"metadata": map[string]any{}}}
		_, err := vc.extractSecretData(secret, "secret/data/app")
		assert.ErrorContains(t, err, "KVv2")
	})

	t.Run("data field not a map", func(t *testing.T) {
		secret := &api.Secret{Data: map[string]any{"data": "flat"}}
		_, err := vc.extractSecretData(secret, "secret/data/app")
		assert.Error(t, err)
	})
}

func TestExtractSecretVersion(t *testing.T) {
	vc := &VaultClient{logger: vaultTestLogger(t)}

	metaSecret := func(meta map[string]any) *api.Secret {
		return &api.Secret{Data: map[string]any{"metadata": meta}}
	}

	t.Run("int64 version", func(t *testing.T) {
		version, err := vc.extractSecretVersion(metaSecret(map[string]any{"version": int64(3)}), "secret/data/app")
		require.NoError(t, err)
		assert.Equal(t, int64(3), version)
	})

	t.Run("float64 version", func(t *testing.T) {
		version, err := vc.extractSecretVersion(metaSecret(map[string]any{"version": float64(3)}), "secret/data/app")
		require.NoError(t, err)
		assert.Equal(t, int64(3), version)
	})

	t.Run("missing metadata", func(t *testing.T) {
		secret := &api.Secret{Data: map[string]any{"data": map[string]any{}}}
		_, err := vc.extractSecretVersion(secret, "secret/data/app")
		assert.ErrorContains(t, err, "metadata")
	})

	t.Run("missing version", func(t *testing.T) {
		_, err := vc.extractSecretVersion(metaSecret(map[string]any{"created_time": "2026-01-01"}), "secret/data/app")
		assert.ErrorContains(t, err, "version")
	})
}
