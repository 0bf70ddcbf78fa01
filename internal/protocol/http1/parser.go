package http1

import (
	"bytes"

	"github.com/indigo-web/utils/uf"
	"github.com/tanglekit/nodeclient/config"
	"github.com/tanglekit/nodeclient/http"
	"github.com/tanglekit/nodeclient/http/status"
	"github.com/tanglekit/nodeclient/internal/buffer"
	"github.com/tanglekit/nodeclient/internal/strcomp"
)

// Parser reconstructs exactly one response from a stream of transport
// chunks. Feed it raw chunks via Parse until it reports done or fails;
// both outcomes are terminal, a fresh Parser is needed for the next
// exchange. Transitions are strictly forward: status line, headers,
// then a body of exactly the declared length.
type Parser struct {
	cfg              *config.Config
	state            parserState
	response         *http.Response
	respLine         *buffer.Buffer
	headers          *buffer.Buffer
	body             *buffer.Buffer
	key              string
	contentLength    int64
	metContentLength bool
	headersNumber    int
}

func NewParser(cfg *config.Config, response *http.Response, respLine, headers *buffer.Buffer) *Parser {
	return &Parser{
		cfg:      cfg,
		state:    eProto,
		response: response,
		respLine: respLine,
		headers:  headers,
	}
}

// Response exposes the reply being reconstructed. Valid only after
// Parse reported done.
func (p *Parser) Response() *http.Response {
	return p.response
}

// Parse advances the state machine by one transport chunk. It consumes
// the chunk entirely or returns an error; done reports whether the
// whole message (headers and body) has been reconstructed.
func (p *Parser) Parse(data []byte) (done bool, err error) {
	switch p.state {
	case eProto:
		goto proto
	case eCode:
		goto code
	case eStatus:
		goto statusText
	case eHeaderKey:
		goto headerKey
	case eContentLength:
		goto contentLength
	case eContentLengthCR:
		goto contentLengthCR
	case eHeaderValue:
		goto headerValue
	case eHeaderValueCRLFCR:
		goto headerValueCRLFCR
	case eBody:
		goto body
	default:
		panic("BUG: response parser: unknown state")
	}

proto:
	{
		sp := bytes.IndexByte(data, ' ')
		if sp == -1 {
			if !p.respLine.Append(data) {
				return false, status.ErrTooLongResponseLine
			}

			p.state = eProto
			return false, nil
		}

		var protocol []byte
		if p.respLine.SegmentLength() == 0 {
			protocol = data[:sp]
		} else {
			if !p.respLine.Append(data[:sp]) {
				return false, status.ErrTooLongResponseLine
			}

			protocol = p.respLine.Finish()
		}

		if !isSupportedProtocol(protocol) {
			return false, status.ErrUnsupportedProtocol
		}

		data = data[sp+1:]
		goto code
	}

code:
	for i := 0; i < len(data); i++ {
		switch char := data[i]; {
		case char == ' ':
			data = data[i+1:]
			goto statusText
		case char == '\r' || char == '\n':
			// status line without a reason phrase
			data = data[i:]
			goto statusText
		case char < '0' || char > '9':
			return false, status.ErrBadResponse
		default:
			p.response.Code = status.Code(int(p.response.Code)*10 + int(char-'0'))
		}
	}

	p.state = eCode
	return false, nil

statusText:
	{
		lf := bytes.IndexByte(data, '\n')
		if lf == -1 {
			if !p.respLine.Append(data) {
				return false, status.ErrTooLongResponseLine
			}

			p.state = eStatus
			return false, nil
		}

		if !p.respLine.Append(data[:lf]) {
			return false, status.ErrTooLongResponseLine
		}

		p.response.Status = uf.B2S(stripCR(p.respLine.Finish()))
		data = data[lf+1:]
		goto headerKey
	}

headerKey:
	{
		if len(data) == 0 {
			p.state = eHeaderKey
			return false, nil
		}

		switch data[0] {
		case '\n':
			data = data[1:]
			goto headersComplete
		case '\r':
			data = data[1:]
			goto headerValueCRLFCR
		}

		colon := bytes.IndexByte(data, ':')
		if colon == -1 {
			if !p.headers.Append(data) {
				return false, status.ErrHeaderFieldsTooLarge
			}

			p.state = eHeaderKey
			return false, nil
		}

		if !p.headers.Append(data[:colon]) {
			return false, status.ErrHeaderFieldsTooLarge
		}

		p.key = uf.B2S(p.headers.Finish())
		data = data[colon+1:]

		if p.headersNumber++; p.headersNumber > p.cfg.HTTP.HeadersNumber {
			return false, status.ErrTooManyHeaders
		}

		if strcomp.EqualFold(p.key, "Content-Length") {
			if p.metContentLength {
				return false, status.ErrBadResponse
			}

			p.metContentLength = true
			goto contentLength
		}

		goto headerValue
	}

contentLength:
	for i, char := range data {
		if char == ' ' {
			continue
		}

		if char < '0' || char > '9' {
			data = data[i:]
			goto contentLengthEnd
		}

		p.contentLength = p.contentLength*10 + int64(char-'0')
		if p.contentLength > maxContentLength {
			return false, status.ErrBodyTooLarge
		}
	}

	p.state = eContentLength
	return false, nil

contentLengthEnd:
	// data is guaranteed to hold at least one byte here: the loop above
	// exits into this label only when it met a non-digit character
	p.response.ContentLength = int(p.contentLength)

	switch data[0] {
	case '\r':
		data = data[1:]
		goto contentLengthCR
	case '\n':
		data = data[1:]
		goto headerKey
	default:
		return false, status.ErrBadResponse
	}

contentLengthCR:
	if len(data) == 0 {
		p.state = eContentLengthCR
		return false, nil
	}

	if data[0] != '\n' {
		return false, status.ErrBadResponse
	}

	data = data[1:]
	goto headerKey

headerValue:
	{
		lf := bytes.IndexByte(data, '\n')
		if lf == -1 {
			if !p.headers.Append(data) {
				return false, status.ErrHeaderFieldsTooLarge
			}

			p.state = eHeaderValue
			return false, nil
		}

		if !p.headers.Append(data[:lf]) {
			return false, status.ErrHeaderFieldsTooLarge
		}

		value := uf.B2S(trimPrefixSpaces(stripCR(p.headers.Finish())))
		data = data[lf+1:]
		p.response.Headers.Add(p.key, value)

		// a chunked (or otherwise encoded) body has no up-front length,
		// and this protocol cannot live without one
		if strcomp.EqualFold(p.key, "Transfer-Encoding") && !strcomp.EqualFold(value, "identity") {
			return false, status.ErrUndeclaredLength
		}

		goto headerKey
	}

headerValueCRLFCR:
	if len(data) == 0 {
		p.state = eHeaderValueCRLFCR
		return false, nil
	}

	if data[0] != '\n' {
		return false, status.ErrBadResponse
	}

	data = data[1:]
	goto headersComplete

headersComplete:
	if !p.metContentLength {
		return false, status.ErrUndeclaredLength
	}

	if p.contentLength > p.cfg.HTTP.MaxBodySize {
		return false, status.ErrBodyTooLarge
	}

	// the body store is allocated once, with capacity equal to the
	// declared length. Append refusal past that point is the overflow
	// boundary check.
	p.body = buffer.New(int(p.contentLength), int(p.contentLength))

	if p.contentLength == 0 {
		p.response.Body = nil
		return true, nil
	}

	goto body

body:
	if len(data) == 0 {
		p.state = eBody
		return false, nil
	}

	if !p.body.Append(data) {
		return false, status.ErrBodyOverflow
	}

	if int64(p.body.SegmentLength()) == p.contentLength {
		p.response.Body = p.body.Finish()
		return true, nil
	}

	p.state = eBody
	return false, nil
}

func isSupportedProtocol(proto []byte) bool {
	return bytes.Equal(proto, []byte("HTTP/1.1")) || bytes.Equal(proto, []byte("HTTP/1.0"))
}

func stripCR(b []byte) []byte {
	if len(b) > 0 && b[len(b)-1] == '\r' {
		return b[:len(b)-1]
	}

	return b
}

func trimPrefixSpaces(b []byte) []byte {
	for i, char := range b {
		if char != ' ' {
			return b[i:]
		}
	}

	return b[:0]
}
