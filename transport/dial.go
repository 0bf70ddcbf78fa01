package transport

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net"
	"strconv"

	"github.com/tanglekit/nodeclient/config"
)

var ErrBadCABundle = errors.New("no usable certificates in the CA bundle")

// Dial establishes a plaintext TCP connection. Meant for tests and
// trusted local setups; nodes on the open network speak TLS.
func Dial(cfg config.NET, host string, port int) (Client, error) {
	conn, err := net.DialTimeout("tcp", join(host, port), cfg.DialTimeout)
	if err != nil {
		return nil, err
	}

	return NewClient(conn, cfg.ReadTimeout, make([]byte, cfg.ReadBufferSize)), nil
}

// DialTLS establishes a TLS connection, verifying the node against
// caPEM when given, or the system root pool otherwise.
func DialTLS(cfg config.NET, host string, port int, caPEM []byte) (Client, error) {
	tlsCfg := &tls.Config{
		ServerName: host,
	}

	if caPEM != nil {
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caPEM) {
			return nil, ErrBadCABundle
		}

		tlsCfg.RootCAs = pool
	}

	dialer := net.Dialer{Timeout: cfg.DialTimeout}
	conn, err := tls.DialWithDialer(&dialer, "tcp", join(host, port), tlsCfg)
	if err != nil {
		return nil, err
	}

	return NewClient(conn, cfg.ReadTimeout, make([]byte, cfg.ReadBufferSize)), nil
}

func join(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
