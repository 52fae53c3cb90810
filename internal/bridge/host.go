package bridge

import (
	"context"
	"encoding/json"
	"fmt"
)

// ScriptHost is the asynchronously-reachable scripting surface one widget
// talks to, normally a browser session. Exec is fire-and-forget; Eval
// suspends the caller until the host returns a result or its internal
// timeout elapses.
type ScriptHost interface {
	// Exec dispatches a script fragment for execution. No confirmation
	// of success is returned beyond transport-level errors.
	Exec(ctx context.Context, script string) error

	// Eval evaluates a script expression and returns its JSON-encoded
	// result. A host-side throw, an unreachable host, or a timeout all
	// surface as an error.
	Eval(ctx context.Context, expr string) (json.RawMessage, error)
}

// CommandStatus classifies what happened to a dispatched command.
type CommandStatus int

const (
	// Applied means the fragment was handed to the host.
	Applied CommandStatus = iota
	// DroppedNotReady means the engine is not ready and the command was
	// discarded without touching the host. Dropped commands are not
	// replayed; callers needing guaranteed application gate on readiness.
	DroppedNotReady
	// Failed means the host rejected the dispatch.
	Failed
)

func (s CommandStatus) String() string {
	switch s {
	case Applied:
		return "applied"
	case DroppedNotReady:
		return "dropped_not_ready"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// CommandOutcome reports the fate of one command. Err is set only for
// Failed outcomes.
type CommandOutcome struct {
	Status CommandStatus
	Err    error
}

func (o CommandOutcome) String() string {
	if o.Err != nil {
		return fmt.Sprintf("%s: %v", o.Status, o.Err)
	}
	return o.Status.String()
}

// applied and dropped are the two error-free outcomes.
var (
	applied = CommandOutcome{Status: Applied}
	dropped = CommandOutcome{Status: DroppedNotReady}
)

func failed(err error) CommandOutcome {
	return CommandOutcome{Status: Failed, Err: err}
}
