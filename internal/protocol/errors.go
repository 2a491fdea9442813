package protocol

import "errors"

var (
	ErrMalformedPayload = errors.New("protocol: malformed payload")
	ErrMissingIntent    = errors.New("protocol: missing intent")
	ErrBufferOverflow   = errors.New("protocol: receive buffer overflow")
)
