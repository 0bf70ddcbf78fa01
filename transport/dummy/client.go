package dummy

import (
	"io"
	"net"

	"github.com/tanglekit/nodeclient/transport"
)

var _ transport.Client = new(Client)

// Client replays a scripted sequence of reads and journals every write,
// making it a universal mock for exchange tests. Once the script runs
// out it reports io.EOF, or a custom error if one was injected.
type Client struct {
	pointer    int
	data       [][]byte
	tmp        []byte
	written    []byte
	readErr    error
	writeErr   error
	writeCap   int
	closed     bool
	closeCalls int
}

func NewClient(data ...[]byte) *Client {
	return &Client{
		data:    data,
		readErr: io.EOF,
	}
}

// FailReadsWith replaces the end-of-script io.EOF with err.
func (c *Client) FailReadsWith(err error) *Client {
	c.readErr = err
	return c
}

// FailWritesWith makes every Write call return err.
func (c *Client) FailWritesWith(err error) *Client {
	c.writeErr = err
	return c
}

// PartialWrites caps each Write at n bytes, so senders must loop.
func (c *Client) PartialWrites(n int) *Client {
	c.writeCap = n
	return c
}

func (c *Client) Read() (data []byte, err error) {
	if c.closed {
		return nil, io.EOF
	}

	if len(c.tmp) > 0 {
		data, c.tmp = c.tmp, nil

		return data, nil
	}

	if c.pointer >= len(c.data) {
		return nil, c.readErr
	}

	piece := c.data[c.pointer]
	c.pointer++

	return piece, nil
}

func (c *Client) Unread(b []byte) {
	c.tmp = b
}

func (c *Client) Write(b []byte) (int, error) {
	if c.writeErr != nil {
		return -1, c.writeErr
	}

	n := len(b)
	if c.writeCap > 0 && n > c.writeCap {
		n = c.writeCap
	}

	c.written = append(c.written, b[:n]...)

	return n, nil
}

// Written reports everything sent through the client so far.
func (c *Client) Written() []byte {
	return c.written
}

func (c *Client) Conn() net.Conn {
	return nil
}

func (c *Client) Remote() net.Addr {
	return nil
}

func (c *Client) Close() error {
	c.closed = true
	c.closeCalls++
	return nil
}

func (c *Client) Closed() bool {
	return c.closed
}

// CloseCalls counts Close invocations, letting tests catch both leaked
// and double-closed connections.
func (c *Client) CloseCalls() int {
	return c.closeCalls
}
