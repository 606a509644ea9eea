package server

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/anujkumar2005/smart-ats-ultimate/internal/config"
	"github.com/anujkumar2005/smart-ats-ultimate/internal/errors"
	"github.com/anujkumar2005/smart-ats-ultimate/internal/observability"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// CertificateManager holds the live server certificate and CA pool and
// swaps them atomically when the underlying files or content change.
type CertificateManager struct {
	mu sync.RWMutex

	serverCert *tls.Certificate
	caCertPool *x509.CertPool

	serverCertExpiry time.Time
	lastReloadTime   time.Time

	fileWatcher *CertWatcher

	config *config.TLSConfig

	reloadCallbacks []ReloadCallback
	logger          *errors.Logger

	observabilityManager *observability.ObservabilityManager

	reloadCount        int64
	reloadSuccessCount int64
	reloadFailureCount int64
	lastReloadSuccess  bool
	lastReloadError    string
}

// ReloadCallback is invoked asynchronously after each reload attempt
type ReloadCallback func(success bool, err error)

// CertificateMetrics is a snapshot of reload bookkeeping
type CertificateMetrics struct {
	ReloadCount        int64
	ReloadSuccessCount int64
	ReloadFailureCount int64
	LastReloadTime     time.Time
	LastReloadSuccess  bool
	LastReloadError    string
}

func NewCertificateManager(tlsConfig *config.TLSConfig, om *observability.ObservabilityManager, logger *errors.Logger) *CertificateManager {
	return &CertificateManager{
		config:               tlsConfig,
		logger:               logger,
		reloadCallbacks:      make([]ReloadCallback, 0),
		observabilityManager: om,
	}
}

// Start loads the initial certificates, begins expiry monitoring, and
// starts watching the certificate files when any are configured.
func (cm *CertificateManager) Start() error {
	if err := cm.loadCertificates(); err != nil {
		return fmt.Errorf("failed to load initial certificates: %w", err)
	}

	cm.StartExpiryMonitoring()

	if cm.config.CertFile == "" && cm.config.KeyFile == "" && cm.config.CAFile == "" {
		// Content-only setup (Vault), nothing on disk to watch
		return nil
	}

	watcher, err := NewCertWatcher(
		cm.config.CertFile,
		cm.config.KeyFile,
		cm.config.CAFile,
		cm.config.Reload.DebounceDelay,
		cm.triggerReload,
		cm.logger,
	)
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	cm.fileWatcher = watcher
	if err := cm.fileWatcher.Start(); err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}

	if cm.logger != nil {
		cm.logger.Info("Certificate file watcher started",
			"cert_file", cm.config.CertFile,
			"key_file", cm.config.KeyFile,
			"ca_file", cm.config.CAFile)
	}
	return nil
}

// Stop shuts down the file watcher
func (cm *CertificateManager) Stop() error {
	if cm.fileWatcher != nil {
		if err := cm.fileWatcher.Stop(); err != nil {
			if cm.logger != nil {
				cm.logger.LogError(err, "Failed to stop file watcher")
			}
			return err
		}
	}
	if cm.logger != nil {
		cm.logger.Info("Certificate manager stopped")
	}
	return nil
}

// GetServerCertificate hands the current certificate to TLS handshakes.
// Expired certificates are refused rather than served.
func (cm *CertificateManager) GetServerCertificate(hello *tls.ClientHelloInfo) (*tls.Certificate, error) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	if cm.serverCert == nil {
		return nil, fmt.Errorf("no server certificate available")
	}

	if time.Now().After(cm.serverCertExpiry) {
		if cm.logger != nil {
			cm.logger.LogError(fmt.Errorf("server certificate expired"), "Server certificate expired",
				"expiry", cm.serverCertExpiry,
				"server_name", hello.ServerName)
		}
		return nil, fmt.Errorf("server certificate expired")
	}

	return cm.serverCert, nil
}

// GetCACertPool returns the current CA certificate pool
func (cm *CertificateManager) GetCACertPool() *x509.CertPool {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.caCertPool
}

// VerifyPeerCertificate verifies client certificates against the current
// CA pool, so rotated CAs take effect without a restart
func (cm *CertificateManager) VerifyPeerCertificate(rawCerts [][]byte, verifiedChains [][]*x509.Certificate) error {
	if len(rawCerts) == 0 {
		return fmt.Errorf("no peer certificates provided")
	}

	cert, err := x509.ParseCertificate(rawCerts[0])
	if err != nil {
		return fmt.Errorf("failed to parse peer certificate: %w", err)
	}

	caCertPool := cm.GetCACertPool()
	if caCertPool == nil {
		return fmt.Errorf("no CA certificate pool available")
	}

	if _, err := cert.Verify(x509.VerifyOptions{Roots: caCertPool}); err != nil {
		return fmt.Errorf("peer certificate verification failed: %w", err)
	}
	return nil
}

// ReloadCertificates forces an immediate reload
func (cm *CertificateManager) ReloadCertificates() error {
	return cm.loadCertificates()
}

// AddReloadCallback registers a callback for reload outcomes
func (cm *CertificateManager) AddReloadCallback(callback ReloadCallback) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.reloadCallbacks = append(cm.reloadCallbacks, callback)
}

// CheckExpiry returns the time remaining on the server certificate
func (cm *CertificateManager) CheckExpiry() (time.Duration, error) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	if cm.serverCertExpiry.IsZero() {
		return 0, fmt.Errorf("no certificates loaded")
	}
	return time.Until(cm.serverCertExpiry), nil
}

// GetMetrics returns a snapshot of reload bookkeeping
func (cm *CertificateManager) GetMetrics() *CertificateMetrics {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	return &CertificateMetrics{
		ReloadCount:        cm.reloadCount,
		ReloadSuccessCount: cm.reloadSuccessCount,
		ReloadFailureCount: cm.reloadFailureCount,
		LastReloadTime:     cm.lastReloadTime,
		LastReloadSuccess:  cm.lastReloadSuccess,
		LastReloadError:    cm.lastReloadError,
	}
}

// loadCertificates loads the pair and CA, then swaps both under the lock
func (cm *CertificateManager) loadCertificates() error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	newServerCert, err := cm.loadServerCertificate()
	if err != nil {
		return err
	}

	newCACertPool, err := cm.loadCACertPool()
	if err != nil {
		return err
	}

	cm.serverCert = newServerCert
	cm.caCertPool = newCACertPool
	cm.lastReloadTime = time.Now()

	cm.reloadCount++
	cm.reloadSuccessCount++
	cm.lastReloadSuccess = true
	cm.lastReloadError = ""
	cm.recordReloadMetric(true, nil)
	cm.notifyCallbacks(cm.reloadCallbacks, true, nil)

	if cm.logger != nil {
		cm.logger.Info("Certificates reloaded successfully",
			"server_cert_expiry", cm.serverCertExpiry,
			"reload_time", cm.lastReloadTime)
	}
	return nil
}

// loadServerCertificate builds the server certificate from inline content
// when present, otherwise from the configured files. Content takes
// precedence because Vault-delivered certs have no file paths.
func (cm *CertificateManager) loadServerCertificate() (*tls.Certificate, error) {
	var (
		cert tls.Certificate
		err  error
	)
	switch {
	case cm.config.CertContent != "" && cm.config.KeyContent != "":
		cert, err = tls.X509KeyPair([]byte(cm.config.CertContent), []byte(cm.config.KeyContent))
	case cm.config.CertFile != "" && cm.config.KeyFile != "":
		cert, err = tls.LoadX509KeyPair(cm.config.CertFile, cm.config.KeyFile)
	default:
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if len(cert.Certificate) > 0 {
		x509Cert, err := x509.ParseCertificate(cert.Certificate[0])
		if err != nil {
			return nil, fmt.Errorf("failed to parse server certificate: %w", err)
		}
		cm.serverCertExpiry = x509Cert.NotAfter
	}

	return &cert, nil
}

// loadCACertPool builds the client-verification pool for mutual TLS
func (cm *CertificateManager) loadCACertPool() (*x509.CertPool, error) {
	if cm.config.Mode != "mutual" {
		return nil, nil
	}

	var caCert []byte
	switch {
	case cm.config.CAContent != "":
		caCert = []byte(cm.config.CAContent)
	case cm.config.CAFile != "":
		content, err := os.ReadFile(cm.config.CAFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA file: %w", err)
		}
		caCert = content
	}
	if len(caCert) == 0 {
		return nil, nil
	}

	pool := x509.NewCertPool()
	if ok := pool.AppendCertsFromPEM(caCert); !ok {
		return nil, fmt.Errorf("failed to parse CA certificate")
	}
	return pool, nil
}

func (cm *CertificateManager) notifyCallbacks(callbacks []ReloadCallback, success bool, err error) {
	for _, callback := range callbacks {
		go callback(success, err)
	}
}

// triggerReload is the file watcher's change handler
func (cm *CertificateManager) triggerReload() {
	if cm.logger != nil {
		cm.logger.Info("Certificate reload triggered by file watcher")
	}

	err := cm.loadCertificates()
	if err == nil {
		return
	}

	cm.mu.Lock()
	cm.reloadCount++
	cm.reloadFailureCount++
	cm.lastReloadSuccess = false
	cm.lastReloadError = err.Error()
	callbacks := make([]ReloadCallback, len(cm.reloadCallbacks))
	copy(callbacks, cm.reloadCallbacks)
	cm.mu.Unlock()

	cm.recordReloadMetric(false, err)

	if cm.logger != nil {
		cm.logger.LogError(err, "Failed to reload certificates")
	}

	cm.notifyCallbacks(callbacks, false, err)
}

// recordReloadMetric publishes the reload outcome and refreshes the
// expiry gauge
func (cm *CertificateManager) recordReloadMetric(success bool, err error) {
	if cm.observabilityManager == nil {
		return
	}
	metrics := cm.observabilityManager.GetMetrics()
	if metrics == nil {
		return
	}

	ctx := context.Background()

	attrs := []attribute.KeyValue{attribute.String("cert_type", "server")}
	if success {
		attrs = append(attrs, attribute.String("status", "success"))
	} else {
		errorMsg := ""
		if err != nil {
			errorMsg = err.Error()
		}
		attrs = append(attrs,
			attribute.String("status", "failure"),
			attribute.String("error", errorMsg))
	}
	metrics.CertReloadCount.Add(ctx, 1, metric.WithAttributes(attrs...))

	cm.updateExpiryMetrics()
}

func (cm *CertificateManager) updateExpiryMetrics() {
	if cm.observabilityManager == nil {
		return
	}
	metrics := cm.observabilityManager.GetMetrics()
	if metrics == nil {
		return
	}

	if !cm.serverCertExpiry.IsZero() {
		metrics.CertExpiryTime.Record(context.Background(),
			time.Until(cm.serverCertExpiry).Seconds(),
			metric.WithAttributes(attribute.String("cert_type", "server")))
	}
}

// StartExpiryMonitoring refreshes the expiry gauge once a minute so the
// metric stays current between reloads
func (cm *CertificateManager) StartExpiryMonitoring() {
	if cm.observabilityManager == nil {
		return
	}

	go func() {
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			cm.mu.RLock()
			cm.updateExpiryMetrics()
			cm.mu.RUnlock()
		}
	}()

	if cm.logger != nil {
		cm.logger.Info("Certificate expiry monitoring started")
	}
}
