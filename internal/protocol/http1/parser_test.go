package http1

import (
	"fmt"
	"testing"

	"github.com/dchest/uniuri"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanglekit/nodeclient/config"
	"github.com/tanglekit/nodeclient/http"
	"github.com/tanglekit/nodeclient/http/status"
	"github.com/tanglekit/nodeclient/internal/buffer"
)

func getParser(cfg *config.Config) (*Parser, *http.Response) {
	response := http.NewResponse()
	p := NewParser(
		cfg, response,
		buffer.New(cfg.HTTP.ResponseLineSpace.Default, cfg.HTTP.ResponseLineSpace.Maximal),
		buffer.New(cfg.HTTP.HeadersSpace.Default, cfg.HTTP.HeadersSpace.Maximal),
	)

	return p, response
}

func splitIntoParts(raw []byte, n int) (parts [][]byte) {
	for i := 0; i < len(raw); i += n {
		end := i + n
		if end > len(raw) {
			end = len(raw)
		}

		parts = append(parts, raw[i:end])
	}

	return parts
}

func feedPartially(p *Parser, raw []byte, n int) (done bool, err error) {
	for _, chunk := range splitIntoParts(raw, n) {
		done, err = p.Parse(chunk)
		if done || err != nil {
			return done, err
		}
	}

	return done, err
}

func generateResponse(body string, extraHeaders ...string) []byte {
	head := fmt.Sprintf("HTTP/1.1 200 OK\r\nContent-Length: %d\r\n", len(body))
	for _, header := range extraHeaders {
		head += header + "\r\n"
	}

	return []byte(head + "\r\n" + body)
}

func TestParser(t *testing.T) {
	t.Run("simple response", func(t *testing.T) {
		parser, response := getParser(config.Default())
		done, err := parser.Parse(generateResponse("hello"))
		require.NoError(t, err)
		require.True(t, done)
		assert.Equal(t, status.OK, response.Code)
		assert.Equal(t, "OK", response.Status)
		assert.Equal(t, 5, response.ContentLength)
		assert.Equal(t, "hello", string(response.Body))
	})

	t.Run("headers are collected", func(t *testing.T) {
		parser, response := getParser(config.Default())
		done, err := parser.Parse(generateResponse("hi", "Server: node", "X-Milestone:   1024"))
		require.NoError(t, err)
		require.True(t, done)
		assert.Equal(t, "node", response.Headers.Value("server"))
		assert.Equal(t, "1024", response.Headers.Value("X-Milestone"))
	})

	t.Run("zero content length", func(t *testing.T) {
		parser, response := getParser(config.Default())
		done, err := parser.Parse([]byte("HTTP/1.1 204 No Content\r\nContent-Length: 0\r\n\r\n"))
		require.NoError(t, err)
		require.True(t, done)
		assert.Equal(t, status.NoContent, response.Code)
		assert.Empty(t, response.Body)
	})

	t.Run("no reason phrase", func(t *testing.T) {
		parser, response := getParser(config.Default())
		done, err := parser.Parse([]byte("HTTP/1.1 200\r\nContent-Length: 0\r\n\r\n"))
		require.NoError(t, err)
		require.True(t, done)
		assert.Equal(t, status.OK, response.Code)
		assert.Empty(t, response.Status)
	})

	t.Run("lf-only line endings", func(t *testing.T) {
		parser, response := getParser(config.Default())
		done, err := parser.Parse([]byte("HTTP/1.1 200 OK\nContent-Length: 5\n\nhello"))
		require.NoError(t, err)
		require.True(t, done)
		assert.Equal(t, "hello", string(response.Body))
	})

	t.Run("headers first then body chunk", func(t *testing.T) {
		// headers-only chunk declaring 5 bytes, then "hello", then
		// nothing more: the parse must complete on the second chunk
		parser, response := getParser(config.Default())
		done, err := parser.Parse([]byte("HTTP/1.1 200 OK\r\nContent-Length: 5\r\n\r\n"))
		require.NoError(t, err)
		require.False(t, done)

		done, err = parser.Parse([]byte("hello"))
		require.NoError(t, err)
		require.True(t, done)
		assert.Equal(t, "hello", string(response.Body))
		assert.Equal(t, 5, response.ContentLength)
	})
}

func TestParserRechunking(t *testing.T) {
	// chunk boundaries must never change the outcome, so parse the same
	// response with every possible chunk size
	raw := generateResponse("hello world", "Server: node", "Connection: close")

	for n := 1; n <= len(raw); n++ {
		parser, response := getParser(config.Default())
		done, err := feedPartially(parser, raw, n)
		require.NoError(t, err, "chunk size %d", n)
		require.True(t, done, "chunk size %d", n)
		require.Equal(t, "hello world", string(response.Body), "chunk size %d", n)
		require.Equal(t, status.OK, response.Code, "chunk size %d", n)
	}
}

func TestParserLongRandomBody(t *testing.T) {
	body := uniuri.NewLen(3000)
	raw := generateResponse(body)

	parser, response := getParser(config.Default())
	done, err := feedPartially(parser, raw, 256)
	require.NoError(t, err)
	require.True(t, done)
	assert.Equal(t, body, string(response.Body))
}

func TestParserFailures(t *testing.T) {
	t.Run("undeclared length", func(t *testing.T) {
		parser, _ := getParser(config.Default())
		_, err := parser.Parse([]byte("HTTP/1.1 200 OK\r\n\r\nhello"))
		require.ErrorIs(t, err, status.ErrUndeclaredLength)
		assert.Equal(t, status.UndeclaredLength, status.KindOf(err))
	})

	t.Run("chunked transfer encoding", func(t *testing.T) {
		parser, _ := getParser(config.Default())
		_, err := parser.Parse([]byte("HTTP/1.1 200 OK\r\nTransfer-Encoding: chunked\r\n\r\n"))
		require.ErrorIs(t, err, status.ErrUndeclaredLength)
	})

	t.Run("body overflow", func(t *testing.T) {
		parser, response := getParser(config.Default())
		_, err := parser.Parse([]byte("HTTP/1.1 200 OK\r\nContent-Length: 5\r\n\r\nhello world"))
		require.ErrorIs(t, err, status.ErrBodyOverflow)
		assert.Equal(t, status.Overflow, status.KindOf(err))
		// a failed parse never exposes a partial body
		assert.Nil(t, response.Body)
	})

	t.Run("body overflow across chunks", func(t *testing.T) {
		// the first chunk fills the buffer to exactly its capacity; the
		// second must be refused without touching the stored bytes
		parser, response := getParser(config.Default())
		done, err := parser.Parse([]byte("HTTP/1.1 200 OK\r\nContent-Length: 5\r\n\r\n"))
		require.NoError(t, err)
		require.False(t, done)

		done, err = parser.Parse([]byte("hello"))
		require.NoError(t, err)
		require.True(t, done)
		require.Equal(t, "hello", string(response.Body))

		kept := string(response.Body)
		_, err = parser.Parse([]byte("!"))
		require.ErrorIs(t, err, status.ErrBodyOverflow)
		assert.Equal(t, kept, string(response.Body))
	})

	t.Run("malformed status code", func(t *testing.T) {
		parser, _ := getParser(config.Default())
		_, err := parser.Parse([]byte("HTTP/1.1 2x0 OK\r\n\r\n"))
		require.ErrorIs(t, err, status.ErrBadResponse)
		assert.Equal(t, status.BadResponse, status.KindOf(err))
	})

	t.Run("unsupported protocol", func(t *testing.T) {
		for _, proto := range []string{"SPDY/3", "HTTP/2", "ICMP"} {
			parser, _ := getParser(config.Default())
			_, err := parser.Parse([]byte(proto + " 200 OK\r\n\r\n"))
			require.ErrorIs(t, err, status.ErrUnsupportedProtocol, proto)
		}
	})

	t.Run("duplicate content-length", func(t *testing.T) {
		parser, _ := getParser(config.Default())
		_, err := parser.Parse([]byte("HTTP/1.1 200 OK\r\nContent-Length: 5\r\nContent-Length: 6\r\n\r\n"))
		require.ErrorIs(t, err, status.ErrBadResponse)
	})

	t.Run("garbage content-length", func(t *testing.T) {
		parser, _ := getParser(config.Default())
		_, err := parser.Parse([]byte("HTTP/1.1 200 OK\r\nContent-Length: 5x\r\n\r\n"))
		require.ErrorIs(t, err, status.ErrBadResponse)
	})

	t.Run("too many headers", func(t *testing.T) {
		cfg := config.Default()
		cfg.HTTP.HeadersNumber = 2
		parser, _ := getParser(cfg)
		_, err := parser.Parse(generateResponse("", "A: 1", "B: 2", "C: 3"))
		require.ErrorIs(t, err, status.ErrTooManyHeaders)
	})

	t.Run("headers section too large", func(t *testing.T) {
		cfg := config.Default()
		cfg.HTTP.HeadersSpace = config.Space{Default: 8, Maximal: 8}
		parser, _ := getParser(cfg)
		_, err := parser.Parse(generateResponse("", "X-Very-Long-Header-Name: value"))
		require.ErrorIs(t, err, status.ErrHeaderFieldsTooLarge)
	})

	t.Run("response line too long", func(t *testing.T) {
		cfg := config.Default()
		cfg.HTTP.ResponseLineSpace = config.Space{Default: 4, Maximal: 4}
		parser, _ := getParser(cfg)
		_, err := parser.Parse([]byte("HTTP/1.1 200 Some Very Long Reason Phrase\r\n\r\n"))
		require.ErrorIs(t, err, status.ErrTooLongResponseLine)
	})

	t.Run("declared body too large", func(t *testing.T) {
		cfg := config.Default()
		cfg.HTTP.MaxBodySize = 10
		parser, _ := getParser(cfg)
		_, err := parser.Parse([]byte("HTTP/1.1 200 OK\r\nContent-Length: 11\r\n\r\n"))
		require.ErrorIs(t, err, status.ErrBodyTooLarge)
	})

	t.Run("absurd content-length", func(t *testing.T) {
		parser, _ := getParser(config.Default())
		_, err := parser.Parse([]byte("HTTP/1.1 200 OK\r\nContent-Length: 99999999999999999999999999\r\n\r\n"))
		require.ErrorIs(t, err, status.ErrBodyTooLarge)
	})
}
