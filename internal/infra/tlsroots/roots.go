// Package tlsroots builds the client certificate trust pool.
package tlsroots

import (
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"strings"

	"github.com/consolegate/consolegate-go/internal/core/domain"
)

// Pool accumulates trusted client CA certificates.
type Pool struct {
	certPool *x509.CertPool
	count    int
}

// NewPool creates a pool seeded with the system roots. Systems without
// an accessible root store yield an empty pool.
func NewPool() *Pool {
	pool, err := x509.SystemCertPool()
	if err != nil {
		pool = x509.NewCertPool()
	}
	return &Pool{certPool: pool}
}

// NewEmptyPool creates a pool without system roots.
func NewEmptyPool() *Pool {
	return &Pool{certPool: x509.NewCertPool()}
}

// AddCertFile adds every certificate from a PEM file.
func (p *Pool) AddCertFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.ErrTrustInvalid.WithDetails(path).WithCause(err)
	}

	added, err := p.addPEM(data)
	if err != nil {
		return err
	}
	if added == 0 {
		return domain.ErrTrustInvalid.WithDetails("no certificates found in " + path)
	}
	return nil
}

// AddCertPEM adds certificates from PEM-encoded data.
func (p *Pool) AddCertPEM(pemData []byte) error {
	added, err := p.addPEM(pemData)
	if err != nil {
		return err
	}
	if added == 0 {
		return domain.ErrTrustInvalid.WithDetails("no certificates found in PEM data")
	}
	return nil
}

// AddCert adds a certificate directly.
func (p *Pool) AddCert(cert *x509.Certificate) {
	p.certPool.AddCert(cert)
	p.count++
}

// AddCertDir adds all PEM files from a directory. Files must have a
// .pem, .crt or .cer extension; everything else is skipped.
func (p *Pool) AddCertDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return domain.ErrTrustInvalid.WithDetails(dir).WithCause(err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".pem", ".crt", ".cer":
		default:
			continue
		}
		if err := p.AddCertFile(filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

// Pool returns the underlying x509.CertPool.
func (p *Pool) Pool() *x509.CertPool {
	return p.certPool
}

// Len reports how many certificates were explicitly added. System
// roots from NewPool are not counted.
func (p *Pool) Len() int {
	return p.count
}

// addPEM adds every CERTIFICATE block, reporting how many were added.
// Non-certificate blocks are skipped.
func (p *Pool) addPEM(data []byte) (int, error) {
	var added int
	for len(data) > 0 {
		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			continue
		}

		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return added, domain.ErrTrustInvalid.WithDetails("certificate not parseable").WithCause(err)
		}
		p.certPool.AddCert(cert)
		p.count++
		added++
	}
	return added, nil
}

// Load builds the client trust pool for require mode. An empty path
// falls back to the system roots. A directory loads every PEM file in
// it; any other path is read as a single PEM file.
func Load(path string) (*Pool, error) {
	if path == "" {
		return NewPool(), nil
	}

	fi, err := os.Stat(path)
	if err != nil {
		return nil, domain.ErrTrustInvalid.WithDetails(path).WithCause(err)
	}

	p := NewEmptyPool()
	if fi.IsDir() {
		if err := p.AddCertDir(path); err != nil {
			return nil, err
		}
		if p.Len() == 0 {
			return nil, domain.ErrTrustInvalid.WithDetails("no certificates found in " + path)
		}
		return p, nil
	}

	if err := p.AddCertFile(path); err != nil {
		return nil, err
	}
	return p, nil
}
