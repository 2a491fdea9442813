package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Limits constrains per-connection receive buffering.
type Limits struct {
	MaxBufferBytes int
}

func DefaultLimits() Limits {
	return Limits{MaxBufferBytes: 1 << 20}
}

// Buffer accumulates raw reads for one connection and splits off
// complete JSON documents in arrival order. A document truncated by a
// short read is retained until the remaining bytes arrive; bytes that
// can never become a valid document are discarded.
type Buffer struct {
	limits Limits
	data   []byte
}

func NewBuffer(limits Limits) *Buffer {
	if limits.MaxBufferBytes <= 0 {
		limits = DefaultLimits()
	}
	return &Buffer{limits: limits}
}

// Append adds one raw read to the buffer.
func (b *Buffer) Append(p []byte) error {
	if len(b.data)+len(p) > b.limits.MaxBufferBytes {
		b.data = nil
		return fmt.Errorf("%w: exceeds %d bytes", ErrBufferOverflow, b.limits.MaxBufferBytes)
	}
	b.data = append(b.data, p...)
	return nil
}

// Len reports the number of buffered, not yet consumed bytes.
func (b *Buffer) Len() int { return len(b.data) }

// Next returns the next complete JSON document, if one is buffered.
// ok is false when the buffer is empty or holds only a partial
// document. A buffer that cannot parse into any document is dropped
// and reported as ErrMalformedPayload.
func (b *Buffer) Next() (doc []byte, ok bool, err error) {
	b.data = bytes.TrimLeft(b.data, " \t\r\n")
	if len(b.data) == 0 {
		return nil, false, nil
	}

	dec := json.NewDecoder(bytes.NewReader(b.data))
	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, false, nil
		}
		b.data = nil
		return nil, false, fmt.Errorf("%w: %s", ErrMalformedPayload, err)
	}

	consumed := int(dec.InputOffset())
	rest := b.data[consumed:]
	b.data = append(b.data[:0:0], rest...)
	return raw, true, nil
}
