package protocol

import (
	"errors"
	"testing"
)

func TestBufferSplitDocumentWaitsForTail(t *testing.T) {
	b := NewBuffer(DefaultLimits())
	if err := b.Append([]byte(`{"intent":"spa`)); err != nil {
		t.Fatalf("append: %v", err)
	}
	if doc, ok, err := b.Next(); ok || err != nil {
		t.Fatalf("partial document should not yield: doc=%q ok=%v err=%v", doc, ok, err)
	}
	if err := b.Append([]byte(`wn_actor"}`)); err != nil {
		t.Fatalf("append: %v", err)
	}
	doc, ok, err := b.Next()
	if err != nil || !ok {
		t.Fatalf("expected complete document: ok=%v err=%v", ok, err)
	}
	if string(doc) != `{"intent":"spawn_actor"}` {
		t.Fatalf("unexpected document: %q", doc)
	}
}

func TestBufferConcatenatedDocumentsYieldInOrder(t *testing.T) {
	b := NewBuffer(DefaultLimits())
	if err := b.Append([]byte(`{"intent":"a"} {"intent":"b"}`)); err != nil {
		t.Fatalf("append: %v", err)
	}
	first, ok, err := b.Next()
	if err != nil || !ok {
		t.Fatalf("first document: ok=%v err=%v", ok, err)
	}
	second, ok, err := b.Next()
	if err != nil || !ok {
		t.Fatalf("second document: ok=%v err=%v", ok, err)
	}
	if string(first) != `{"intent":"a"}` || string(second) != `{"intent":"b"}` {
		t.Fatalf("order mismatch: %q then %q", first, second)
	}
	if _, ok, _ := b.Next(); ok {
		t.Fatalf("buffer should be drained")
	}
}

func TestBufferDropsBytesThatCannotParse(t *testing.T) {
	b := NewBuffer(DefaultLimits())
	if err := b.Append([]byte(`}}}garbage`)); err != nil {
		t.Fatalf("append: %v", err)
	}
	_, ok, err := b.Next()
	if ok || !errors.Is(err, ErrMalformedPayload) {
		t.Fatalf("expected malformed payload drop, got ok=%v err=%v", ok, err)
	}
	if b.Len() != 0 {
		t.Fatalf("buffer should be dropped, %d bytes remain", b.Len())
	}
}

func TestBufferOverflowDiscards(t *testing.T) {
	b := NewBuffer(Limits{MaxBufferBytes: 8})
	if err := b.Append([]byte(`{"intent":`)); !errors.Is(err, ErrBufferOverflow) {
		t.Fatalf("expected ErrBufferOverflow, got %v", err)
	}
	if b.Len() != 0 {
		t.Fatalf("overflowed buffer should be empty, %d bytes remain", b.Len())
	}
}
