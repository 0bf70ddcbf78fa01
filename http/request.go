package http

// MIME values commonly used for ContentType and Accept.
const (
	ApplicationJSON           = "application/json"
	ApplicationFormURLEncoded = "application/x-www-form-urlencoded"
)

// Request describes a single call against a node. The caller owns every
// field; the client only reads them for the duration of the exchange,
// so one Request may be reused across calls and retries.
type Request struct {
	// Path is the request target, e.g. "/".
	Path string
	// Host names the node, also sent as the Host header.
	Host string
	// APIVersion is sent as the X-API-Version header.
	APIVersion  int
	ContentType string
	Accept      string
	// Body is the serialized call. Its length is known up front and is
	// declared verbatim as Content-Length; chunked requests don't exist
	// in this protocol.
	Body []byte
}
