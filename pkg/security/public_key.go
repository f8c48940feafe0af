package security

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"strings"
)

var ErrNoPEMBlock = errors.New("no pem block found")

// DecodePublicKey reads the admin token key from configuration. The value is a PEM
// block, either as is or base64 encoded so that it fits into one env line.
func DecodePublicKey(value string) (*rsa.PublicKey, error) {
	value = strings.TrimSpace(value)

	if !strings.HasPrefix(value, "-----BEGIN") {
		decoded, err := base64.StdEncoding.DecodeString(value)
		if err != nil {
			return nil, fmt.Errorf("decode base64: %w", err)
		}

		value = string(decoded)
	}

	return ParsePublicKey([]byte(value))
}

// ParsePublicKey parses a PEM encoded RSA public key in PKIX or PKCS #1 form.
func ParsePublicKey(pkey []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(pkey)
	if block == nil {
		return nil, ErrNoPEMBlock
	}

	switch block.Type {
	case "RSA PUBLIC KEY":
		pub, err := x509.ParsePKCS1PublicKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("parse pkcs1 public key: %w", err)
		}

		return pub, nil

	case "PUBLIC KEY":
		pub, err := x509.ParsePKIXPublicKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("parse public key: %w", err)
		}

		rsaPub, ok := pub.(*rsa.PublicKey)
		if !ok {
			return nil, fmt.Errorf("%T is not an RSA public key", pub)
		}

		return rsaPub, nil

	default:
		return nil, fmt.Errorf("unexpected pem block %q", block.Type)
	}
}
