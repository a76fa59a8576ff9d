// Package tor provides the SOCKS5 side of gdorking's transport options.
//
// EmbeddedTor starts a private Tor daemon through tornago so that --tor
// works without a system Tor installation. CheckProxy performs a SOCKS5
// handshake against a proxy before any catalog request is routed through
// it, so a mistyped --proxy fails fast with a clear status instead of a
// chain of retried network errors.
package tor
