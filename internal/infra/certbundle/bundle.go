// Package certbundle provides server certificate management.
//
// It loads the certificate chain and private key presented to TLS
// clients, supporting separate files, a single combined file, and
// multi-certificate chain files.
package certbundle

import (
	"crypto"
	"crypto/sha256"
	"crypto/tls"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"os"
	"strings"
	"time"

	"github.com/consolegate/consolegate-go/internal/core/domain"
)

// Bundle is an immutable server certificate bundle: the presented chain
// (leaf first), the private key, and the derived tls.Certificate.
// Bundles are shared by reference across sessions and never mutated;
// reloads produce a new Bundle.
type Bundle struct {
	cert     tls.Certificate
	chain    []*x509.Certificate
	certFile string
	keyFile  string
	loadedAt time.Time
}

// Load reads a certificate bundle from disk.
//
// Accepted layouts:
//   - certFile with certificate(s), keyFile with the private key
//   - certFile containing certificate(s) and key concatenated, keyFile empty
//   - certFile containing a full chain, leaf first
//
// The private key must match the leaf certificate's public key.
func Load(certFile, keyFile string) (*Bundle, error) {
	data, err := os.ReadFile(certFile)
	if err != nil {
		return nil, domain.ErrCertUnreadable.WithDetails(certFile).WithCause(err)
	}

	chain, derChain, key, err := parsePEM(data)
	if err != nil {
		return nil, err
	}

	if keyFile != "" {
		keyData, err := os.ReadFile(keyFile)
		if err != nil {
			return nil, domain.ErrKeyInvalid.WithDetails("read "+keyFile).WithCause(err)
		}
		_, _, fileKey, err := parsePEM(keyData)
		if err != nil {
			return nil, err
		}
		if fileKey != nil {
			key = fileKey
		}
	}

	if len(chain) == 0 {
		return nil, domain.ErrCertInvalid.WithDetails(certFile)
	}
	if key == nil {
		if keyFile == "" {
			return nil, domain.ErrKeyInvalid.WithDetails("no private key in " + certFile)
		}
		return nil, domain.ErrKeyInvalid.WithDetails("no private key in " + keyFile)
	}

	leaf := chain[0]
	if err := matchKey(leaf, key); err != nil {
		return nil, err
	}

	return &Bundle{
		cert: tls.Certificate{
			Certificate: derChain,
			PrivateKey:  key,
			Leaf:        leaf,
		},
		chain:    chain,
		certFile: certFile,
		keyFile:  keyFile,
		loadedAt: time.Now(),
	}, nil
}

// parsePEM walks PEM blocks in file order, collecting certificates and
// the first private key it encounters. Unknown block types are skipped.
func parsePEM(data []byte) ([]*x509.Certificate, [][]byte, crypto.Signer, error) {
	var (
		chain    []*x509.Certificate
		derChain [][]byte
		key      crypto.Signer
	)

	for len(data) > 0 {
		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			break
		}

		switch {
		case block.Type == "CERTIFICATE":
			cert, err := x509.ParseCertificate(block.Bytes)
			if err != nil {
				return nil, nil, nil, domain.ErrCertInvalid.WithCause(err)
			}
			chain = append(chain, cert)
			derChain = append(derChain, block.Bytes)

		case strings.HasSuffix(block.Type, "PRIVATE KEY"):
			if key != nil {
				continue
			}
			parsed, err := parsePrivateKey(block)
			if err != nil {
				return nil, nil, nil, err
			}
			key = parsed
		}
	}

	return chain, derChain, key, nil
}

// parsePrivateKey parses a single PEM private key block.
func parsePrivateKey(block *pem.Block) (crypto.Signer, error) {
	switch block.Type {
	case "RSA PRIVATE KEY":
		key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
		if err != nil {
			return nil, domain.ErrKeyInvalid.WithCause(err)
		}
		return key, nil

	case "EC PRIVATE KEY":
		key, err := x509.ParseECPrivateKey(block.Bytes)
		if err != nil {
			return nil, domain.ErrKeyInvalid.WithCause(err)
		}
		return key, nil

	case "PRIVATE KEY":
		parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, domain.ErrKeyInvalid.WithCause(err)
		}
		key, ok := parsed.(crypto.Signer)
		if !ok {
			return nil, domain.ErrKeyInvalid.WithDetails("unsupported key type")
		}
		return key, nil
	}

	return nil, domain.ErrKeyInvalid.WithDetails("unsupported PEM block " + block.Type)
}

// matchKey verifies the private key belongs to the leaf certificate.
func matchKey(leaf *x509.Certificate, key crypto.Signer) error {
	pub, ok := leaf.PublicKey.(interface {
		Equal(x crypto.PublicKey) bool
	})
	if !ok || !pub.Equal(key.Public()) {
		return domain.ErrKeyMismatch
	}
	return nil
}

// Certificate returns the derived tls.Certificate.
func (b *Bundle) Certificate() *tls.Certificate {
	return &b.cert
}

// Leaf returns the leaf certificate.
func (b *Bundle) Leaf() *x509.Certificate {
	return b.chain[0]
}

// Chain returns the presented chain, leaf first.
func (b *Bundle) Chain() []*x509.Certificate {
	return b.chain
}

// CertFile returns the path the bundle was loaded from.
func (b *Bundle) CertFile() string {
	return b.certFile
}

// KeyFile returns the key path, empty for combined files.
func (b *Bundle) KeyFile() string {
	return b.keyFile
}

// LoadedAt returns when the bundle was parsed.
func (b *Bundle) LoadedAt() time.Time {
	return b.loadedAt
}

// Expiry returns the leaf certificate's NotAfter.
func (b *Bundle) Expiry() time.Time {
	return b.chain[0].NotAfter
}

// Fingerprint returns the SHA-256 fingerprint of the leaf certificate.
func (b *Bundle) Fingerprint() string {
	sum := sha256.Sum256(b.chain[0].Raw)
	return hex.EncodeToString(sum[:])
}
