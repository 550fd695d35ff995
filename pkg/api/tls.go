package api

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
)

// TLSFiles names the PEM files for the controller listener.
type TLSFiles struct {
	Cert     string
	Key      string
	ClientCA string
}

// Enabled reports whether HTTPS was requested.
func (f TLSFiles) Enabled() bool {
	return f.Cert != "" || f.Key != ""
}

// ServerTLSConfig loads the key pair. When ClientCA is set, devices must
// present a certificate signed by it.
func (f TLSFiles) ServerTLSConfig() (*tls.Config, error) {
	if f.Cert == "" || f.Key == "" {
		return nil, errors.New("tls: both cert and key are required")
	}
	cert, err := tls.LoadX509KeyPair(f.Cert, f.Key)
	if err != nil {
		return nil, fmt.Errorf("load cert/key: %w", err)
	}
	cfg := &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}
	if f.ClientCA == "" {
		return cfg, nil
	}
	caData, err := os.ReadFile(f.ClientCA)
	if err != nil {
		return nil, fmt.Errorf("read client ca: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(caData) {
		return nil, fmt.Errorf("client ca %s: no certificates", f.ClientCA)
	}
	cfg.ClientCAs = pool
	cfg.ClientAuth = tls.RequireAndVerifyClientCert
	return cfg, nil
}
