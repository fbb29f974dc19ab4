// recover_test.go
package pet7018z

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

var recoverParams = ConnectParams{Host: "192.0.2.10", Port: 502, Timeout: time.Second}

// logSink records recovery progress lines for assertions.
type logSink struct {
	lines []string
}

func (s *logSink) logf(format string, args ...any) {
	s.lines = append(s.lines, fmt.Sprintf(format, args...))
}

func wantIdentity(t *testing.T, id string) {
	t.Helper()
	if want := "ICP DAS, 7018, 2.2.2, 3.0.0, 1.0.2"; id != want {
		t.Fatalf("identity = %q, want %q", id, want)
	}
}

func TestEnsureConnectedFresh(t *testing.T) {
	tr := newFakeTransport()
	seedIdentity(tr)
	d := New(tr)

	var sink logSink
	id, step, err := EnsureConnected(d, recoverParams, sink.logf)
	if err != nil {
		t.Fatalf("EnsureConnected: %v", err)
	}
	wantIdentity(t, id)
	if step != StepFreshConnect {
		t.Fatalf("step = %v, want %v", step, StepFreshConnect)
	}
	if tr.opens != 1 {
		t.Fatalf("opens = %d, want 1", tr.opens)
	}
	if len(sink.lines) != 0 {
		t.Fatalf("unexpected progress lines: %v", sink.lines)
	}
}

func TestEnsureConnectedEstablishedSession(t *testing.T) {
	tr := newFakeTransport()
	seedIdentity(tr)
	d := New(tr)
	if err := d.Connect(recoverParams); err != nil {
		t.Fatalf("connect: %v", err)
	}

	id, step, err := EnsureConnected(d, recoverParams, nil)
	if err != nil {
		t.Fatalf("EnsureConnected: %v", err)
	}
	wantIdentity(t, id)
	if step != StepNone {
		t.Fatalf("step = %v, want %v", step, StepNone)
	}
	if tr.opens != 1 {
		t.Fatalf("opens = %d, want 1 (no reconnect on a healthy session)", tr.opens)
	}
}

func TestEnsureConnectedRetriesFreshConnect(t *testing.T) {
	tr := newFakeTransport()
	seedIdentity(tr)
	tr.openErrs = []error{errors.New("connection refused"), nil}
	d := New(tr)

	var sink logSink
	id, step, err := EnsureConnected(d, recoverParams, sink.logf)
	if err != nil {
		t.Fatalf("EnsureConnected: %v", err)
	}
	wantIdentity(t, id)
	if step != StepOverwriteConnect {
		t.Fatalf("step = %v, want %v", step, StepOverwriteConnect)
	}
	if tr.opens != 2 {
		t.Fatalf("opens = %d, want exactly 2 (one retry)", tr.opens)
	}
	if len(sink.lines) != 1 {
		t.Fatalf("progress lines = %v, want exactly the first failure", sink.lines)
	}
}

func TestEnsureConnectedReconnectsStaleSession(t *testing.T) {
	tr := newFakeTransport()
	seedIdentity(tr)
	d := New(tr)
	if err := d.Connect(recoverParams); err != nil {
		t.Fatalf("connect: %v", err)
	}
	tr.readErrs = []error{errors.New("timeout")} // first probe read fails

	var sink logSink
	id, step, err := EnsureConnected(d, recoverParams, sink.logf)
	if err != nil {
		t.Fatalf("EnsureConnected: %v", err)
	}
	wantIdentity(t, id)
	if step != StepReconnect {
		t.Fatalf("step = %v, want %v", step, StepReconnect)
	}
	if tr.closes != 1 || tr.opens != 2 {
		t.Fatalf("closes = %d opens = %d, want 1 and 2", tr.closes, tr.opens)
	}
	if len(sink.lines) != 1 {
		t.Fatalf("progress lines = %v, want exactly the probe failure", sink.lines)
	}
}

func TestEnsureConnectedReconnectsAfterFreshProbeFailure(t *testing.T) {
	tr := newFakeTransport()
	seedIdentity(tr)
	tr.readErrs = []error{errors.New("timeout")} // probe on the new session fails once
	d := New(tr)

	id, step, err := EnsureConnected(d, recoverParams, nil)
	if err != nil {
		t.Fatalf("EnsureConnected: %v", err)
	}
	wantIdentity(t, id)
	if step != StepReconnect {
		t.Fatalf("step = %v, want %v", step, StepReconnect)
	}
	if tr.opens != 2 || tr.closes != 1 {
		t.Fatalf("opens = %d closes = %d, want 2 and 1", tr.opens, tr.closes)
	}
}

func TestEnsureConnectedOverwritesUnclosableSession(t *testing.T) {
	tr := newFakeTransport()
	seedIdentity(tr)
	d := New(tr)
	if err := d.Connect(recoverParams); err != nil {
		t.Fatalf("connect: %v", err)
	}
	tr.readErrs = []error{errors.New("timeout")}
	tr.closeErrs = []error{errors.New("use of closed network connection")}

	var sink logSink
	id, step, err := EnsureConnected(d, recoverParams, sink.logf)
	if err != nil {
		t.Fatalf("EnsureConnected: %v", err)
	}
	wantIdentity(t, id)
	if step != StepOverwriteConnect {
		t.Fatalf("step = %v, want %v", step, StepOverwriteConnect)
	}
	if tr.opens != 2 {
		t.Fatalf("opens = %d, want 2", tr.opens)
	}
	// probe failure and disconnect failure each get their own line
	if len(sink.lines) != 2 {
		t.Fatalf("progress lines = %v, want 2", sink.lines)
	}
}

func TestEnsureConnectedExhausted(t *testing.T) {
	first := errors.New("connection refused")
	last := errors.New("no route to host")
	tr := newFakeTransport()
	tr.openErrs = []error{first, last}
	d := New(tr)

	var sink logSink
	_, step, err := EnsureConnected(d, recoverParams, sink.logf)
	if err == nil {
		t.Fatal("EnsureConnected succeeded with both connects failing")
	}
	if !errors.Is(err, last) {
		t.Fatalf("error does not wrap the most recent cause: %v", err)
	}
	if step != StepOverwriteConnect {
		t.Fatalf("step = %v, want %v", step, StepOverwriteConnect)
	}
	if tr.opens != 2 {
		t.Fatalf("opens = %d, want exactly 2", tr.opens)
	}
	if len(sink.lines) != 2 {
		t.Fatalf("progress lines = %v, want one per failed attempt", sink.lines)
	}
}
