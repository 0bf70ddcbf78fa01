package transport

import (
	"net"
	"time"
)

// Client is a single established connection to a node. Read hands out
// whatever arrived, bounded by the read buffer the client was built
// with; Write may transmit fewer bytes than requested, reporting how
// many actually went out.
type Client interface {
	Read() ([]byte, error)
	Unread([]byte)
	Write([]byte) (int, error)
	Conn() net.Conn
	Remote() net.Addr
	Close() error
}

type client struct {
	conn    net.Conn
	buff    []byte
	pending []byte
	timeout time.Duration
}

func NewClient(conn net.Conn, timeout time.Duration, buff []byte) Client {
	return &client{
		conn:    conn,
		buff:    buff,
		timeout: timeout,
	}
}

// Read reads data into the internal buffer and returns a piece of it
// back. Timeouts are handled automatically.
func (c *client) Read() ([]byte, error) {
	if len(c.pending) > 0 {
		pending := c.pending
		c.pending = nil

		return pending, nil
	}

	if err := c.conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
		return nil, err
	}

	n, err := c.conn.Read(c.buff)

	return c.buff[:n], err
}

// Unread preserves a chunk of data from the previous read for the next
// one.
func (c *client) Unread(b []byte) {
	c.pending = b
}

func (c *client) Write(b []byte) (int, error) {
	return c.conn.Write(b)
}

// Conn unwraps the underlying net.Conn.
func (c *client) Conn() net.Conn {
	return c.conn
}

func (c *client) Remote() net.Addr {
	return c.conn.RemoteAddr()
}

func (c *client) Close() error {
	return c.conn.Close()
}
