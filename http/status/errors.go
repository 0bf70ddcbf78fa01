package status

import "errors"

// Kind classifies an exchange failure. The retry loop keys off it: only
// ReceiveFailed and PrematureClose are eligible for re-attempting the
// whole exchange, everything else propagates immediately.
type Kind uint8

const (
	Unknown Kind = iota
	// InvalidArgument means a required input was nil, empty or does not
	// fit the configured limits.
	InvalidArgument
	// ConnectFailed means the connection could not be established.
	ConnectFailed
	// SendFailed means a transport write failed mid-request.
	SendFailed
	// ReceiveFailed means a transport read failed.
	ReceiveFailed
	// PrematureClose means the peer closed the connection before the
	// response completed.
	PrematureClose
	// BadResponse means the response violates the framing grammar.
	BadResponse
	// UndeclaredLength means the response carries no finite
	// Content-Length, which this protocol requires.
	UndeclaredLength
	// Overflow means the peer sent more body bytes than it declared.
	Overflow
)

type Error struct {
	Kind    Kind
	Message string
}

func NewError(kind Kind, message string) Error {
	return Error{
		Kind:    kind,
		Message: message,
	}
}

func (e Error) Error() string {
	return e.Message
}

// Because derives an error of the same kind carrying the cause's text,
// so transport failures keep their detail without losing the kind.
func (e Error) Because(cause error) error {
	return Error{
		Kind:    e.Kind,
		Message: e.Message + ": " + cause.Error(),
	}
}

// KindOf extracts the failure kind, or Unknown for foreign errors.
func KindOf(err error) Kind {
	var e Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return Unknown
}

// IsRetryable reports whether the whole exchange may be re-run after
// this failure. Zero bytes received and a partially received response
// are deliberately not distinguished.
func IsRetryable(err error) bool {
	switch KindOf(err) {
	case ReceiveFailed, PrematureClose:
		return true
	default:
		return false
	}
}

var (
	ErrNilRequest          = NewError(InvalidArgument, "request must not be nil")
	ErrNoHost              = NewError(InvalidArgument, "request host is empty")
	ErrNoPath              = NewError(InvalidArgument, "request path is empty")
	ErrNoDialer            = NewError(InvalidArgument, "client has no dialer")
	ErrRequestHeadTooLarge = NewError(InvalidArgument, "request head exceeds the configured buffer")

	ErrConnect        = NewError(ConnectFailed, "could not connect to the node")
	ErrSend           = NewError(SendFailed, "send failed")
	ErrReceive        = NewError(ReceiveFailed, "receive failed")
	ErrPrematureClose = NewError(PrematureClose, "connection closed before the response completed")

	ErrBadResponse          = NewError(BadResponse, "malformed response")
	ErrTooLongResponseLine  = NewError(BadResponse, "response line is too long")
	ErrHeaderFieldsTooLarge = NewError(BadResponse, "too large headers section")
	ErrTooManyHeaders       = NewError(BadResponse, "too many headers")
	ErrUnsupportedProtocol  = NewError(BadResponse, "HTTP version not supported")
	ErrBodyTooLarge         = NewError(BadResponse, "response body is too large")

	ErrUndeclaredLength = NewError(UndeclaredLength, "response declares no finite content length")
	ErrBodyOverflow     = NewError(Overflow, "response body exceeds the declared content length")
)
