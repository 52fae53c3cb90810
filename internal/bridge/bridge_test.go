package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/astriolab/skywidget/internal/script"
)

// stubHost records dispatched scripts and serves canned eval results.
type stubHost struct {
	execs   []string
	evals   []string
	result  json.RawMessage
	evalErr error
	execErr error
}

func (s *stubHost) Exec(_ context.Context, js string) error {
	s.execs = append(s.execs, js)
	return s.execErr
}

func (s *stubHost) Eval(_ context.Context, expr string) (json.RawMessage, error) {
	s.evals = append(s.evals, expr)
	if s.evalErr != nil {
		return nil, s.evalErr
	}
	return s.result, nil
}

func openGate() bool   { return true }
func closedGate() bool { return false }

func TestCommandApplied(t *testing.T) {
	host := &stubHost{}
	b := New("w1", host, openGate, zap.NewNop())

	out := b.SetLocation(context.Background(), 40.0, -75.0)
	if out.Status != Applied {
		t.Fatalf("outcome: got %v, want Applied", out)
	}
	if len(host.execs) != 1 {
		t.Fatalf("expected 1 dispatched fragment, got %d", len(host.execs))
	}
	if !strings.Contains(host.execs[0], "stel.observer.latitude = 40 * stel.D2R;") {
		t.Errorf("fragment missing latitude assignment:\n%s", host.execs[0])
	}
}

func TestCommandDroppedWhenNotReady(t *testing.T) {
	host := &stubHost{}
	b := New("w1", host, closedGate, zap.NewNop())

	out := b.SetFieldOfView(context.Background(), 45)
	if out.Status != DroppedNotReady {
		t.Fatalf("outcome: got %v, want DroppedNotReady", out)
	}
	if len(host.execs) != 0 {
		t.Fatalf("dropped command must not reach the host, got %d dispatches", len(host.execs))
	}
}

func TestCommandFailed(t *testing.T) {
	host := &stubHost{execErr: errors.New("session gone")}
	b := New("w1", host, openGate, zap.NewNop())

	out := b.LookAt(context.Background(), "NAME Jupiter")
	if out.Status != Failed {
		t.Fatalf("outcome: got %v, want Failed", out)
	}
	if out.Err == nil {
		t.Fatal("Failed outcome must carry the dispatch error")
	}
}

func TestCommandWithNilGateAlwaysDispatches(t *testing.T) {
	host := &stubHost{}
	b := New("w1", host, nil, zap.NewNop())

	if out := b.SetLayerVisible(context.Background(), script.MilkyWay, true); out.Status != Applied {
		t.Fatalf("outcome: got %v, want Applied", out)
	}
	if len(host.execs) != 1 {
		t.Fatalf("expected 1 dispatch, got %d", len(host.execs))
	}
}

func TestQueryAltitudeNormalized(t *testing.T) {
	host := &stubHost{result: json.RawMessage(`200`)}
	b := New("w1", host, openGate, zap.NewNop())

	alt, ok := b.ObjectAltitude(context.Background(), "NAME Polaris")
	if !ok {
		t.Fatal("expected a value")
	}
	if alt != -160 {
		t.Errorf("altitude 200 must fold to -160, got %v", alt)
	}
}

func TestQueryAzimuthNotNormalized(t *testing.T) {
	host := &stubHost{result: json.RawMessage(`200`)}
	b := New("w1", host, openGate, zap.NewNop())

	az, ok := b.ObjectAzimuth(context.Background(), "NAME Polaris")
	if !ok {
		t.Fatal("expected a value")
	}
	if az != 200 {
		t.Errorf("azimuth must stay in [0, 360), got %v", az)
	}
}

func TestQueryEvalErrorIsAbsentWithOneWarning(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	host := &stubHost{evalErr: errors.New("eval timeout")}
	b := New("w1", host, openGate, zap.New(core))

	_, ok := b.ObjectAltitude(context.Background(), "NAME Sun")
	if ok {
		t.Fatal("failed query must resolve to an absent value")
	}
	if n := logs.FilterLevelExact(zap.WarnLevel).Len(); n != 1 {
		t.Errorf("expected exactly 1 warning, got %d", n)
	}
}

func TestQueryNullIsAbsentWithOneWarning(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	host := &stubHost{result: json.RawMessage(`null`)}
	b := New("w1", host, openGate, zap.New(core))

	_, ok := b.ObjectAltitude(context.Background(), "NAME Nothing")
	if ok {
		t.Fatal("null result must resolve to an absent value")
	}
	if n := logs.FilterLevelExact(zap.WarnLevel).Len(); n != 1 {
		t.Errorf("expected exactly 1 warning, got %d", n)
	}
}

func TestIsReady(t *testing.T) {
	host := &stubHost{result: json.RawMessage(`true`)}
	b := New("w7", host, closedGate, zap.NewNop())

	// IsReady bypasses the gate: it is the readiness probe.
	if !b.IsReady(context.Background()) {
		t.Fatal("expected ready")
	}
	if len(host.evals) != 1 || host.evals[0] != "window.w7_ready === true" {
		t.Errorf("unexpected readiness expression: %v", host.evals)
	}
}

func TestIsReadyFailureReadsNotReady(t *testing.T) {
	host := &stubHost{evalErr: errors.New("no session")}
	b := New("w1", host, nil, zap.NewNop())

	if b.IsReady(context.Background()) {
		t.Fatal("eval failure must read as not ready")
	}
}
