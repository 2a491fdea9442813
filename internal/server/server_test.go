package server

import (
	"net"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/voidwell/scenectl/internal/dispatch"
	"github.com/voidwell/scenectl/internal/host/memworld"
	"github.com/voidwell/scenectl/internal/testutil/testlog"
)

func newTestServer(t *testing.T) (*Server, *memworld.World) {
	t.Helper()
	testlog.Start(t)

	w := memworld.New()
	w.RegisterClass("Box")

	reg := dispatch.NewRegistry()
	if err := dispatch.RegisterBuiltins(reg); err != nil {
		t.Fatalf("register builtins: %v", err)
	}
	hc := dispatch.HostContext{Types: w, Factory: w, World: w}
	d := dispatch.NewDispatcher(reg, hc, zerolog.Nop())

	s := New(d, Options{PollWindow: 2 * time.Millisecond}, zerolog.Nop())
	t.Cleanup(s.Stop)
	return s, w
}

func dialControl(t *testing.T, s *Server) net.Conn {
	t.Helper()
	conn, err := net.Dial("tcp", s.Addr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// tickUntil drives the server loop from the test goroutine until cond
// holds or the deadline passes.
func tickUntil(t *testing.T, s *Server, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		s.Tick()
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("condition never held: %s", what)
}

func TestStartTwiceKeepsOneListener(t *testing.T) {
	s, _ := newTestServer(t)
	if err := s.Start(0); err != nil {
		t.Fatalf("start: %v", err)
	}
	addr := s.Addr().String()

	if err := s.Start(0); err != nil {
		t.Fatalf("second start should be idempotent success: %v", err)
	}
	if got := s.Addr().String(); got != addr {
		t.Fatalf("listener changed: %s -> %s", addr, got)
	}
	if !s.Status().Listening {
		t.Fatalf("server should report listening")
	}
}

func TestStartFailureLeavesNothingBehind(t *testing.T) {
	s, _ := newTestServer(t)
	other, _ := newTestServer(t)

	if err := s.Start(0); err != nil {
		t.Fatalf("start: %v", err)
	}
	port := uint16(s.Addr().(*net.TCPAddr).Port)

	if err := other.Start(port); err == nil {
		t.Fatalf("expected bind conflict on port %d", port)
	}
	if other.Status().Listening {
		t.Fatalf("failed start must not mark listening")
	}
	if other.Addr() != nil {
		t.Fatalf("failed start leaked a listener")
	}
	// the loser must still be startable elsewhere
	if err := other.Start(0); err != nil {
		t.Fatalf("restart after failure: %v", err)
	}
}

func TestStopIsIdempotentAndSafeWithoutStart(t *testing.T) {
	s, _ := newTestServer(t)
	s.Stop()
	s.Stop()

	if err := s.Start(0); err != nil {
		t.Fatalf("start: %v", err)
	}
	s.Stop()
	s.Stop()
	if s.Status().Listening {
		t.Fatalf("server should not report listening after stop")
	}
	s.Tick() // no-op when stopped
}

func TestSpawnCommandEndToEnd(t *testing.T) {
	s, w := newTestServer(t)
	if err := s.Start(0); err != nil {
		t.Fatalf("start: %v", err)
	}

	conn := dialControl(t, s)
	if _, err := conn.Write([]byte(`{"intent":"spawn_actor","parameters":{"class":"Box","location":[1,2,3]}}`)); err != nil {
		t.Fatalf("write: %v", err)
	}

	tickUntil(t, s, "entity spawned", func() bool { return w.Count() == 1 })

	infos := w.List("Box")
	if len(infos) != 1 {
		t.Fatalf("expected one Box, got %d", len(infos))
	}
	if infos[0].Position.X != 1 || infos[0].Position.Y != 2 || infos[0].Position.Z != 3 {
		t.Fatalf("wrong position: %+v", infos[0].Position)
	}
	if got := s.Status().Connections; got != 1 {
		t.Fatalf("connection should stay open, have %d", got)
	}
}

func TestUnknownIntentLeavesWorldUntouched(t *testing.T) {
	s, w := newTestServer(t)
	if err := s.Start(0); err != nil {
		t.Fatalf("start: %v", err)
	}

	conn := dialControl(t, s)
	if _, err := conn.Write([]byte(`{"intent":"noop"}`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	// follow with a ping so the test can observe the noop was consumed
	if _, err := conn.Write([]byte(`{"intent":"ping"}`)); err != nil {
		t.Fatalf("write: %v", err)
	}

	before := s.Status().Ticks
	tickUntil(t, s, "messages consumed", func() bool { return s.Status().Ticks > before+2 })

	if w.Count() != 0 {
		t.Fatalf("noop must not mutate the world, have %d entities", w.Count())
	}
	if got := s.Status().Connections; got != 1 {
		t.Fatalf("connection should survive bad intents, have %d", got)
	}
}

func TestDisconnectDetectedNextTick(t *testing.T) {
	s, _ := newTestServer(t)
	if err := s.Start(0); err != nil {
		t.Fatalf("start: %v", err)
	}

	conn := dialControl(t, s)
	second := dialControl(t, s)
	_ = second

	tickUntil(t, s, "both clients accepted", func() bool { return s.Status().Connections == 2 })

	_ = conn.Close()
	tickUntil(t, s, "disconnect swept", func() bool { return s.Status().Connections == 1 })
}

func TestDocumentSplitAcrossWrites(t *testing.T) {
	s, w := newTestServer(t)
	if err := s.Start(0); err != nil {
		t.Fatalf("start: %v", err)
	}

	conn := dialControl(t, s)
	if _, err := conn.Write([]byte(`{"intent":"spawn_actor","parameters":{"class":"Bo`)); err != nil {
		t.Fatalf("write: %v", err)
	}

	tickUntil(t, s, "client accepted", func() bool { return s.Status().Connections == 1 })
	for i := 0; i < 5; i++ {
		s.Tick()
	}
	if w.Count() != 0 {
		t.Fatalf("half a document must not dispatch")
	}

	if _, err := conn.Write([]byte(`x","location":[4,5,6]}}`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	tickUntil(t, s, "reassembled document dispatched", func() bool { return w.Count() == 1 })

	infos := w.List("Box")
	if infos[0].Position.X != 4 || infos[0].Position.Y != 5 || infos[0].Position.Z != 6 {
		t.Fatalf("wrong position: %+v", infos[0].Position)
	}
}

func TestTwoDocumentsInOneWrite(t *testing.T) {
	s, w := newTestServer(t)
	if err := s.Start(0); err != nil {
		t.Fatalf("start: %v", err)
	}

	conn := dialControl(t, s)
	payload := `{"intent":"spawn_actor","parameters":{"class":"Box","location":[0,0,0]}}` +
		`{"intent":"spawn_actor","parameters":{"class":"Box","location":[1,1,1]}}`
	if _, err := conn.Write([]byte(payload)); err != nil {
		t.Fatalf("write: %v", err)
	}

	tickUntil(t, s, "both documents dispatched", func() bool { return w.Count() == 2 })
}

func TestMalformedMessageKeepsConnectionOpen(t *testing.T) {
	s, w := newTestServer(t)
	if err := s.Start(0); err != nil {
		t.Fatalf("start: %v", err)
	}

	conn := dialControl(t, s)
	if _, err := conn.Write([]byte(`]]]not json[[[`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	tickUntil(t, s, "client accepted", func() bool { return s.Status().Connections == 1 })
	for i := 0; i < 5; i++ {
		s.Tick()
	}

	// a valid command afterwards still goes through
	if _, err := conn.Write([]byte(`{"intent":"spawn_actor","parameters":{"class":"Box","location":[7,8,9]}}`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	tickUntil(t, s, "command after garbage dispatched", func() bool { return w.Count() == 1 })
	if got := s.Status().Connections; got != 1 {
		t.Fatalf("malformed payload must not drop the connection, have %d", got)
	}
}
