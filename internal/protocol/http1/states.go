package http1

// maxContentLength caps the declared length before it is checked
// against the configured limit, keeping the digit accumulator far away
// from int64 wraparound.
const maxContentLength = int64(1) << 50

type parserState uint8

const (
	eProto parserState = iota + 1
	eCode
	eStatus
	eHeaderKey
	eContentLength
	eContentLengthCR
	eHeaderValue
	eHeaderValueCRLFCR
	eBody
)
