package dispatch

import (
	"errors"
	"testing"

	"github.com/voidwell/scenectl/internal/protocol"
)

type namedHandler struct{ name string }

func (h namedHandler) Name() string { return h.name }
func (h namedHandler) Handle(protocol.Command, HostContext) Result {
	return success("ok")
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(namedHandler{name: "a"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := r.Register(namedHandler{name: "a"}); !errors.Is(err, ErrHandlerExists) {
		t.Fatalf("expected ErrHandlerExists, got %v", err)
	}
}

func TestRegistryRejectsNilAndEmptyNames(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(nil); !errors.Is(err, ErrHandlerNil) {
		t.Fatalf("expected ErrHandlerNil, got %v", err)
	}
	if err := r.Register(namedHandler{name: "  "}); !errors.Is(err, ErrInvalidIntent) {
		t.Fatalf("expected ErrInvalidIntent, got %v", err)
	}
}

func TestRegistryIntentsSorted(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := r.Register(namedHandler{name: name}); err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
	}
	got := r.Intents()
	want := []string{"alpha", "mid", "zeta"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order mismatch: got %v", got)
		}
	}
}

func TestBuiltinsCoverReferenceIntent(t *testing.T) {
	r := NewRegistry()
	if err := RegisterBuiltins(r); err != nil {
		t.Fatalf("builtins: %v", err)
	}
	if _, ok := r.Resolve("spawn_actor"); !ok {
		t.Fatalf("spawn_actor missing from builtins")
	}
}
