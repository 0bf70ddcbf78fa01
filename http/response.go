package http

import (
	"github.com/tanglekit/nodeclient/http/status"
	"github.com/tanglekit/nodeclient/kv"
)

// Response is the reconstructed node reply. It is built fresh for every
// exchange attempt; Body ownership passes to the caller once the parse
// completes and is never exposed partially.
type Response struct {
	Code   status.Code
	Status string
	// Headers holds all response header fields except Content-Length,
	// which is promoted into ContentLength.
	Headers       *kv.Storage
	ContentLength int
	Body          []byte
}

func NewResponse() *Response {
	return &Response{
		Headers: kv.New(),
	}
}
