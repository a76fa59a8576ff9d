// Package fetch performs the HTTP GETs behind gdorking.
//
// A Client sends the header set exploit-db expects from its own pages,
// bounds each request with a timeout, optionally routes through a SOCKS5
// proxy and paces requests with a token bucket. When the server
// certificate cannot be verified the request is repeated once with
// verification disabled.
//
// Failures are typed (NetworkError, TLSError, HTTPStatusError) and
// IsRetryable tells callers which ones a retry might fix.
package fetch
