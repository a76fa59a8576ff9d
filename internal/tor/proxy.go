package tor

import (
	"context"
	"errors"
	"io"
	"net"
	"os"
	"strconv"
	"time"
)

// checkProxyTimeout bounds the whole handshake.
const checkProxyTimeout = 5 * time.Second

// SOCKS5 protocol constants (RFC 1928).
const (
	socks5Version       = 0x05
	socks5AuthNone      = 0x00
	socks5CmdConnect    = 0x01
	socks5AddrTypeIPv4  = 0x01
	socks5AddrTypeDomID = 0x03
	socks5AddrTypeIPv6  = 0x04
	socks5ReplySuccess  = 0x00
)

// ValidateProxyAddress checks that address is in "host:port" form with a
// non-empty host and a port between 1 and 65535.
func ValidateProxyAddress(address string) error {
	host, port, err := net.SplitHostPort(address)
	if err != nil || host == "" {
		return ErrInvalidProxyAddress
	}
	n, err := strconv.Atoi(port)
	if err != nil || n < 1 || n > 65535 {
		return ErrInvalidProxyAddress
	}
	return nil
}

// CheckProxy verifies that proxyAddress is an unauthenticated SOCKS5 proxy
// able to reach target ("host:port"). It negotiates the auth method, sends
// a CONNECT for target and inspects the reply header.
func CheckProxy(ctx context.Context, proxyAddress, target string) ProxyStatus {
	ctx, cancel := context.WithTimeout(ctx, checkProxyTimeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", proxyAddress)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ProxyStatusTimeout
		}
		return ProxyStatusCannotConnect
	}
	defer conn.Close()

	deadline, _ := ctx.Deadline()
	if err := conn.SetDeadline(deadline); err != nil {
		return ProxyStatusCannotConnect
	}

	if _, err := conn.Write([]byte{socks5Version, 0x01, socks5AuthNone}); err != nil {
		return ProxyStatusCannotConnect
	}

	authResp := make([]byte, 2)
	if _, err := io.ReadFull(conn, authResp); err != nil {
		return readFailure(err)
	}
	if authResp[0] != socks5Version || authResp[1] != socks5AuthNone {
		return ProxyStatusWrongType
	}

	req, err := connectRequest(target)
	if err != nil {
		return ProxyStatusWrongType
	}
	if _, err := conn.Write(req); err != nil {
		return ProxyStatusCannotConnect
	}

	// version, reply, reserved, address type
	connectResp := make([]byte, 4)
	if _, err := io.ReadFull(conn, connectResp); err != nil {
		return readFailure(err)
	}
	if connectResp[0] != socks5Version {
		return ProxyStatusWrongType
	}
	if connectResp[1] != socks5ReplySuccess {
		return ProxyStatusTargetUnreachable
	}
	return ProxyStatusOK
}

// connectRequest builds a CONNECT request for target.
func connectRequest(target string) ([]byte, error) {
	host, portStr, err := net.SplitHostPort(target)
	if err != nil {
		return nil, err
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return nil, err
	}

	req := []byte{socks5Version, socks5CmdConnect, 0x00}
	ip := net.ParseIP(host)
	switch {
	case ip != nil && ip.To4() != nil:
		req = append(req, socks5AddrTypeIPv4)
		req = append(req, ip.To4()...)
	case ip != nil:
		req = append(req, socks5AddrTypeIPv6)
		req = append(req, ip.To16()...)
	default:
		if len(host) > 255 {
			return nil, ErrInvalidProxyAddress
		}
		req = append(req, socks5AddrTypeDomID, byte(len(host)))
		req = append(req, host...)
	}
	return append(req, byte(port>>8), byte(port&0xFF)), nil
}

func readFailure(err error) ProxyStatus {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return ProxyStatusTimeout
	}
	return ProxyStatusWrongType
}
