package config

import "time"

type (
	// Space bounds a growable buffer: Default is the initial allocation,
	// Maximal is the hard cap after which writes are refused.
	Space struct {
		Default, Maximal int
	}

	NET struct {
		// ReadBufferSize is the size of the buffer a single receive call
		// reads into, thereby the upper bound of a chunk fed to the
		// response parser.
		ReadBufferSize int
		// ReadTimeout limits how long a single receive call may stay
		// blocked without any data arriving.
		ReadTimeout time.Duration
		// DialTimeout bounds connection establishment, including the
		// TLS handshake.
		DialTimeout time.Duration
	}

	HTTP struct {
		// ResponseLineSpace limits the response status line (protocol,
		// code and reason phrase).
		ResponseLineSpace Space
		// HeadersSpace limits the total memory spent on response header
		// keys and values.
		HeadersSpace Space
		// HeadersNumber is the maximal count of response headers.
		HeadersNumber int
		// RequestHeadSpace bounds the rendered request head. Exceeding
		// it means the caller configured an oversized path, host or
		// content type, not that the peer misbehaved.
		RequestHeadSpace Space
		// MaxBodySize rejects responses declaring a bigger body than the
		// client is willing to buffer.
		MaxBodySize int64
	}

	Exchange struct {
		// MaxRetries is how many times the whole exchange is re-run
		// after a retryable receive failure. Zero disables retries.
		// There is no delay between attempts.
		MaxRetries int
	}

	API struct {
		// Version is sent as the X-API-Version request header.
		Version int
		// ContentType and Accept are the values for the corresponding
		// request headers.
		ContentType, Accept string
	}
)

// Config holds all tunables of the client: buffer limits, timeouts and
// the retry ceiling. Always start from Default() and override fields
// instead of constructing the struct manually.
type Config struct {
	NET      NET
	HTTP     HTTP
	Exchange Exchange
	API      API
}

func Default() *Config {
	return &Config{
		NET: NET{
			ReadBufferSize: 2 * 1024,
			ReadTimeout:    30 * time.Second,
			DialTimeout:    10 * time.Second,
		},
		HTTP: HTTP{
			ResponseLineSpace: Space{
				Default: 256,
				Maximal: 1024,
			},
			HeadersSpace: Space{
				Default: 1 * 1024,
				Maximal: 16 * 1024,
			},
			HeadersNumber: 50,
			RequestHeadSpace: Space{
				Default: 512,
				// matches the fixed header buffer of historic clients,
				// but overflow here is an error instead of a corruption
				Maximal: 1024,
			},
			MaxBodySize: 512 * 1024 * 1024,
		},
		Exchange: Exchange{
			MaxRetries: 3,
		},
		API: API{
			Version:     1,
			ContentType: "application/json",
			Accept:      "application/json",
		},
	}
}
