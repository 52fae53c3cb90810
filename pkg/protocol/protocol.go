package protocol

// Shared wire contract between the Go side and the browser runtime.
// This package defines the handle naming scheme and the envelope types
// carried over a widget session channel.

import "fmt"

// InitPayload is dispatched once per widget instance to boot the engine
// in the browser. Field names match what the client runtime expects.
type InitPayload struct {
	InstanceID      string  `json:"instanceId"`
	CanvasID        string  `json:"canvasId"`
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
	EngineScriptURL string  `json:"engineScriptUrl"`
	EngineBinaryURL string  `json:"engineBinaryUrl"`
	DataDirURL      string  `json:"dataDirUrl"`
}

// EngineHandle returns the name of the global engine object for an instance.
// The client runtime publishes the booted engine under window.<id>_stel.
func EngineHandle(instanceID string) string {
	return fmt.Sprintf("%s_stel", instanceID)
}

// ReadyFlag returns the name of the global readiness boolean for an instance.
func ReadyFlag(instanceID string) string {
	return fmt.Sprintf("%s_ready", instanceID)
}

// CanvasID returns the DOM id of the canvas the engine renders into.
func CanvasID(instanceID string) string {
	return fmt.Sprintf("%s_canvas", instanceID)
}

// Envelope kinds carried on the session channel.
const (
	EnvelopeExec = "exec" // fire-and-forget script execution
	EnvelopeEval = "eval" // evaluate and post the result back
)

// Envelope is an outbound message to the browser runtime.
// ID is set only for eval envelopes and correlates the result.
type Envelope struct {
	Type   string `json:"type"`
	ID     string `json:"id,omitempty"`
	Script string `json:"script"`
}

// EvalResult is posted back by the browser runtime for an eval envelope.
// Value holds the JSON-encoded evaluation result; Error is set when the
// browser-side evaluation threw.
type EvalResult struct {
	ID    string `json:"id"`
	Value string `json:"value,omitempty"`
	Error string `json:"error,omitempty"`
}
