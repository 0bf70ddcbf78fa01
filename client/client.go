package client

import (
	"errors"
	"io"

	"github.com/rs/zerolog"
	"github.com/tanglekit/nodeclient/config"
	"github.com/tanglekit/nodeclient/http"
	"github.com/tanglekit/nodeclient/http/status"
	"github.com/tanglekit/nodeclient/internal/buffer"
	"github.com/tanglekit/nodeclient/internal/protocol/http1"
	"github.com/tanglekit/nodeclient/transport"
)

// Dialer opens a fresh, already-secured connection for one exchange
// attempt. The client closes it when the attempt ends, whatever the
// outcome, so retries never leak sockets.
type Dialer func() (transport.Client, error)

// TLSDialer adapts transport.DialTLS to the per-attempt Dialer shape.
func TLSDialer(cfg *config.Config, host string, port int, caPEM []byte) Dialer {
	return func() (transport.Client, error) {
		return transport.DialTLS(cfg.NET, host, port, caPEM)
	}
}

// TCPDialer is TLSDialer's plaintext sibling, for tests and trusted
// local nodes.
func TCPDialer(cfg *config.Config, host string, port int) Dialer {
	return func() (transport.Client, error) {
		return transport.Dial(cfg.NET, host, port)
	}
}

type Option func(*Client)

// WithLogger attaches a logger for attempt-level diagnostics. The
// client is silent by default.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// Client performs synchronous request/response exchanges against a
// node. It holds no connection state: every attempt dials, sends,
// receives and closes. A Client is safe for sequential reuse; for
// concurrent calls run one exchange per goroutine via separate Query
// invocations, which share nothing but the immutable config.
type Client struct {
	cfg  *config.Config
	dial Dialer
	log  zerolog.Logger
}

func New(cfg *config.Config, dial Dialer, options ...Option) *Client {
	c := &Client{
		cfg:  cfg,
		dial: dial,
		log:  zerolog.Nop(),
	}

	for _, option := range options {
		option(c)
	}

	return c
}

// Query runs one full exchange: send the request, reconstruct the
// response. Retryable failures (transport reads failing or the peer
// closing early) re-run the whole exchange, fresh connection and fresh
// parse, up to cfg.Exchange.MaxRetries extra attempts with no delay in
// between. Every other failure is returned immediately with its kind
// preserved. On success the caller owns the response body.
func (c *Client) Query(request *http.Request) (*http.Response, error) {
	if err := c.validate(request); err != nil {
		return nil, err
	}

	response, err := c.exchange(request)
	for retry := 0; err != nil && status.IsRetryable(err) && retry < c.cfg.Exchange.MaxRetries; retry++ {
		c.log.Debug().Err(err).Int("retry", retry+1).Msg("re-running exchange")
		response, err = c.exchange(request)
	}

	return response, err
}

func (c *Client) validate(request *http.Request) error {
	switch {
	case request == nil:
		return status.ErrNilRequest
	case c.dial == nil:
		return status.ErrNoDialer
	case len(request.Host) == 0:
		return status.ErrNoHost
	case len(request.Path) == 0:
		return status.ErrNoPath
	default:
		return nil
	}
}

// exchange is a single attempt: fresh connection, fresh parser, fresh
// response buffer. No state survives into the next attempt.
func (c *Client) exchange(request *http.Request) (*http.Response, error) {
	conn, err := c.dial()
	if err != nil {
		return nil, status.ErrConnect.Because(err)
	}
	defer conn.Close()

	if err = http1.NewSerializer(c.cfg, conn).Send(request); err != nil {
		return nil, err
	}

	parser := http1.NewParser(
		c.cfg,
		http.NewResponse(),
		buffer.New(c.cfg.HTTP.ResponseLineSpace.Default, c.cfg.HTTP.ResponseLineSpace.Maximal),
		buffer.New(c.cfg.HTTP.HeadersSpace.Default, c.cfg.HTTP.HeadersSpace.Maximal),
	)

	for {
		data, err := conn.Read()
		if len(data) > 0 {
			done, perr := parser.Parse(data)
			if perr != nil {
				return nil, perr
			}

			if done {
				return parser.Response(), nil
			}
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, status.ErrPrematureClose
			}

			return nil, status.ErrReceive.Because(err)
		}
	}
}
