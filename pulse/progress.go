// Package pulse reports the progress of long-running discovery runs.
//
// The orchestrators only see the ProgressEmitter interface. The CLI picks the
// implementation: CLIEmitter for terminals, JSONEmitter for machine readers,
// NopEmitter for library callers that do not care.
package pulse

import "time"

// Stages emitted by the discovery orchestrators, one per phase per round.
const (
	StageLoad     = "load"
	StageSample   = "sample"
	StageInduce   = "induce"
	StageValidate = "validate"
	StageDone     = "done"
)

// ProgressEmitter defines the domain-agnostic interface for emitting progress
// updates during a discovery run.
type ProgressEmitter interface {
	// EmitStage announces the start of a processing stage
	EmitStage(stage string, message string)

	// EmitProgress announces batch progress with count and optional metadata
	EmitProgress(count int, metadata map[string]interface{})

	// EmitComplete announces successful completion with summary
	EmitComplete(summary map[string]interface{})

	// EmitError announces an error during processing
	EmitError(stage string, err error)

	// EmitInfo emits general informational message
	EmitInfo(message string)
}

// ProgressEvent is the structured form of one emitted event.
type ProgressEvent struct {
	Type      string                 `json:"type"` // "stage", "progress", "complete", "error", "info"
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

// NopEmitter discards every event.
type NopEmitter struct{}

func (NopEmitter) EmitStage(string, string)                {}
func (NopEmitter) EmitProgress(int, map[string]interface{}) {}
func (NopEmitter) EmitComplete(map[string]interface{})      {}
func (NopEmitter) EmitError(string, error)                  {}
func (NopEmitter) EmitInfo(string)                          {}

// OrNop returns e, or a NopEmitter when e is nil.
func OrNop(e ProgressEmitter) ProgressEmitter {
	if e == nil {
		return NopEmitter{}
	}
	return e
}
