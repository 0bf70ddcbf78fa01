package http1

import (
	"strconv"

	"github.com/tanglekit/nodeclient/config"
	"github.com/tanglekit/nodeclient/http"
	"github.com/tanglekit/nodeclient/http/status"
	"github.com/tanglekit/nodeclient/internal/buffer"
	"github.com/tanglekit/nodeclient/transport"
)

// Serializer renders the request head into a bounded buffer and
// transmits head and body over the transport. Rendering never writes
// past the configured head space: an oversized path or host is refused
// before a single byte hits the wire.
type Serializer struct {
	client transport.Client
	head   *buffer.Buffer
}

func NewSerializer(cfg *config.Config, client transport.Client) *Serializer {
	return &Serializer{
		client: client,
		head:   buffer.New(cfg.HTTP.RequestHeadSpace.Default, cfg.HTTP.RequestHeadSpace.Maximal),
	}
}

// Send writes the whole request: the header block terminated by an
// empty line, then the body. Partial sends are looped on; any write
// failure aborts immediately and is not retried here.
func (s *Serializer) Send(request *http.Request) error {
	if !s.renderHead(request) {
		return status.ErrRequestHeadTooLarge
	}

	if err := s.sendAll(s.head.Finish()); err != nil {
		return err
	}

	return s.sendAll(request.Body)
}

func (s *Serializer) renderHead(request *http.Request) (ok bool) {
	return s.head.AppendString("POST ") &&
		s.head.AppendString(request.Path) &&
		s.head.AppendString(" HTTP/1.1\r\nHost: ") &&
		s.head.AppendString(request.Host) &&
		s.head.AppendString("\r\nX-API-Version: ") &&
		s.head.AppendString(strconv.Itoa(request.APIVersion)) &&
		s.head.AppendString("\r\nContent-Type: ") &&
		s.head.AppendString(request.ContentType) &&
		s.head.AppendString("\r\nAccept: ") &&
		s.head.AppendString(request.Accept) &&
		s.head.AppendString("\r\nContent-Length: ") &&
		s.head.AppendString(strconv.Itoa(len(request.Body))) &&
		s.head.AppendString("\r\n\r\n")
}

func (s *Serializer) sendAll(data []byte) error {
	for len(data) > 0 {
		sent, err := s.client.Write(data)
		if err != nil {
			return status.ErrSend.Because(err)
		}

		// advance by exactly what the transport reports as sent
		data = data[sent:]
	}

	return nil
}
