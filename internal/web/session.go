package web

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/astriolab/skywidget/pkg/protocol"
)

// DefaultEvalTimeout bounds a single browser-side evaluation.
const DefaultEvalTimeout = 3 * time.Second

// outboundCapacity is the per-session envelope buffer. Envelopes queue
// here until the browser's event stream drains them.
const outboundCapacity = 64

// Session is one browser's scripting surface. It implements
// bridge.ScriptHost: Exec enqueues an envelope on the event stream, Eval
// additionally parks the caller until the browser posts the result back
// or the timeout elapses.
//
// Envelopes are delivered in dispatch order per session.
type Session struct {
	id          string
	evalTimeout time.Duration
	logger      *zap.Logger

	out    chan protocol.Envelope
	closed chan struct{}
	once   sync.Once

	mu      sync.Mutex
	pending map[string]chan protocol.EvalResult

	callSeq atomic.Uint64
}

// NewSession creates a session. evalTimeout <= 0 selects
// DefaultEvalTimeout.
func NewSession(id string, evalTimeout time.Duration, logger *zap.Logger) *Session {
	if evalTimeout <= 0 {
		evalTimeout = DefaultEvalTimeout
	}
	return &Session{
		id:          id,
		evalTimeout: evalTimeout,
		out:         make(chan protocol.Envelope, outboundCapacity),
		closed:      make(chan struct{}),
		pending:     make(map[string]chan protocol.EvalResult),
		logger: logger.With(
			zap.String("component", "session"),
			zap.String("session_id", id),
		),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Events is the outbound envelope stream, drained by the SSE handler.
func (s *Session) Events() <-chan protocol.Envelope { return s.out }

// Exec enqueues a fire-and-forget script fragment.
func (s *Session) Exec(ctx context.Context, script string) error {
	return s.enqueue(ctx, protocol.Envelope{
		Type:   protocol.EnvelopeExec,
		Script: script,
	})
}

// Eval enqueues an evaluation and suspends the caller until the browser
// posts the result, the session timeout elapses, or the context ends.
func (s *Session) Eval(ctx context.Context, expr string) (json.RawMessage, error) {
	callID := fmt.Sprintf("c%d", s.callSeq.Add(1))

	ch := make(chan protocol.EvalResult, 1)
	s.mu.Lock()
	s.pending[callID] = ch
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.pending, callID)
		s.mu.Unlock()
	}()

	err := s.enqueue(ctx, protocol.Envelope{
		Type:   protocol.EnvelopeEval,
		ID:     callID,
		Script: expr,
	})
	if err != nil {
		return nil, err
	}

	timer := time.NewTimer(s.evalTimeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		if res.Error != "" {
			return nil, &EvalRejectedError{SessionID: s.id, CallID: callID, Reason: res.Error}
		}
		if res.Value == "" {
			return json.RawMessage("null"), nil
		}
		return json.RawMessage(res.Value), nil
	case <-timer.C:
		return nil, &EvalTimeoutError{SessionID: s.id, CallID: callID, Duration: s.evalTimeout}
	case <-s.closed:
		return nil, &SessionClosedError{SessionID: s.id}
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Resolve delivers a posted evaluation result to its waiting caller.
// Unknown call IDs are ignored; the caller may already have timed out.
func (s *Session) Resolve(res protocol.EvalResult) {
	s.mu.Lock()
	ch, ok := s.pending[res.ID]
	s.mu.Unlock()

	if !ok {
		s.logger.Debug("Result for unknown or expired call",
			zap.String("call_id", res.ID),
		)
		return
	}
	ch <- res
}

// Close tears the session down. Idempotent. Parked Eval callers resolve
// with a SessionClosedError.
func (s *Session) Close() {
	s.once.Do(func() {
		close(s.closed)
		s.logger.Debug("Session closed")
	})
}

// Closed reports whether the session has been torn down.
func (s *Session) Closed() bool {
	select {
	case <-s.closed:
		return true
	default:
		return false
	}
}

// enqueue is non-blocking: dispatch has no backpressure, a full buffer
// is an error rather than a stall.
func (s *Session) enqueue(ctx context.Context, env protocol.Envelope) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.Closed() {
		return &SessionClosedError{SessionID: s.id}
	}

	select {
	case s.out <- env:
		return nil
	default:
		return &QueueFullError{SessionID: s.id, Capacity: outboundCapacity}
	}
}
