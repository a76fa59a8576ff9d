package fetch

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
)

// NetworkError is a connection, timeout or read failure.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("request %s failed: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// TLSError is a certificate validation failure that the insecure
// fallback could not recover from.
type TLSError struct {
	URL string
	Err error
}

func (e *TLSError) Error() string {
	return fmt.Sprintf("tls handshake with %s failed: %v", e.URL, e.Err)
}

func (e *TLSError) Unwrap() error { return e.Err }

// HTTPStatusError is returned for any response other than 200 OK.
type HTTPStatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %s", e.URL, e.Status)
}

// IsRetryable reports whether err is transient: network, TLS and HTTP
// status failures are, anything else (decoding, extraction, cancellation)
// is not.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var netErr *NetworkError
	var tlsErr *TLSError
	var statusErr *HTTPStatusError
	return errors.As(err, &netErr) || errors.As(err, &tlsErr) || errors.As(err, &statusErr)
}

func isCertificateError(err error) bool {
	var verifyErr *tls.CertificateVerificationError
	var authorityErr x509.UnknownAuthorityError
	var hostnameErr x509.HostnameError
	var invalidErr x509.CertificateInvalidError
	return errors.As(err, &verifyErr) ||
		errors.As(err, &authorityErr) ||
		errors.As(err, &hostnameErr) ||
		errors.As(err, &invalidErr)
}
