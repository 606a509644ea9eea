package config

import "fmt"

// ValidateTLSConfig checks the TLS section for a usable combination of
// mode, certificate sources, and options.
func (c *Config) ValidateTLSConfig() error {
	tls := c.Server.TLS

	switch tls.Mode {
	case "disabled":
		return nil

	case "server":
		if err := validateCertAndKey(tls, "server mode"); err != nil {
			return err
		}

	case "mutual":
		if err := validateCertAndKey(tls, "mutual mode"); err != nil {
			return err
		}
		switch {
		case tls.CAFile == "" && tls.CAContent == "":
			return fmt.Errorf("CA certificate is required for mutual TLS mode (provide either caFile or caContent)")
		case tls.CAFile != "" && tls.CAContent != "":
			return fmt.Errorf("cannot specify both caFile and caContent - choose one")
		}
		if err := validateClientAuthPolicy(tls); err != nil {
			return err
		}

	default:
		return fmt.Errorf("invalid TLS mode: %s (must be 'disabled', 'server', or 'mutual')", tls.Mode)
	}

	return validateTLSVersion(tls)
}

// validateCertAndKey requires both a certificate and a key, each coming
// from exactly one source (file or content).
func validateCertAndKey(tls TLSConfig, mode string) error {
	haveCert := tls.CertFile != "" || tls.CertContent != ""
	haveKey := tls.KeyFile != "" || tls.KeyContent != ""

	switch {
	case !haveCert || !haveKey:
		return fmt.Errorf("TLS certificate and key are required for %s (provide either files or content)", mode)
	case tls.CertFile != "" && tls.CertContent != "":
		return fmt.Errorf("cannot specify both certFile and certContent - choose one")
	case tls.KeyFile != "" && tls.KeyContent != "":
		return fmt.Errorf("cannot specify both keyFile and keyContent - choose one")
	}
	return nil
}

// validateClientAuthPolicy accepts the known policies; empty defaults to
// require.
func validateClientAuthPolicy(tls TLSConfig) error {
	switch tls.ClientAuthPolicy {
	case "require", "request", "verify", "":
		return nil
	}
	return fmt.Errorf("invalid clientAuthPolicy: %s (must be 'require', 'request', or 'verify')", tls.ClientAuthPolicy)
}

// validateTLSVersion accepts 1.2 and 1.3; empty defaults to 1.2.
func validateTLSVersion(tls TLSConfig) error {
	switch tls.MinVersion {
	case "", "1.2", "1.3":
		return nil
	}
	return fmt.Errorf("invalid TLS minVersion: %s (must be '1.2' or '1.3')", tls.MinVersion)
}
