package pulse

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/pterm/pterm"
	"go.uber.org/zap"

	"github.com/teranos/depminer/logger"
	"github.com/teranos/depminer/sym"
)

// CLIEmitter outputs pretty-printed progress to a terminal using pterm.
type CLIEmitter struct {
	verbosity int
}

// NewCLIEmitter creates a CLI progress emitter for terminal output
func NewCLIEmitter(verbosity int) *CLIEmitter {
	return &CLIEmitter{verbosity: verbosity}
}

// EmitStage prints a stage announcement. Per-round phases are only shown at
// -v and above.
func (e *CLIEmitter) EmitStage(stage string, message string) {
	if e.verbosity < 1 && stage != StageLoad {
		return
	}
	pterm.Printf("%s %s: %s\n", sym.ForStage(stage), pterm.LightCyan(stage), message)
}

// EmitProgress prints a progress count
func (e *CLIEmitter) EmitProgress(count int, metadata map[string]interface{}) {
	if e.verbosity < 2 {
		return
	}
	if itemType, ok := metadata["type"].(string); ok {
		pterm.Printf("  %s %s\n", pterm.Green(fmt.Sprintf("%d", count)), itemType)
	} else {
		pterm.Printf("  %s items\n", pterm.Green(fmt.Sprintf("%d", count)))
	}
}

// EmitComplete prints completion summary
func (e *CLIEmitter) EmitComplete(summary map[string]interface{}) {
	pterm.Success.Println("Discovery complete")
	if e.verbosity >= 1 {
		for _, key := range sortedKeys(summary) {
			pterm.Printf("  %s: %v\n", key, summary[key])
		}
	}
}

// EmitError prints an error
func (e *CLIEmitter) EmitError(stage string, err error) {
	pterm.Error.Printf("Error in %s: %v\n", stage, err)
}

// EmitInfo prints informational message
func (e *CLIEmitter) EmitInfo(message string) {
	if e.verbosity >= 1 {
		pterm.Info.Println(message)
	}
}

// JSONEmitter writes one JSON object per event.
type JSONEmitter struct {
	mu      sync.Mutex
	encoder *json.Encoder
	now     func() time.Time
}

// NewJSONEmitter creates a JSON progress emitter writing to w.
func NewJSONEmitter(w io.Writer) *JSONEmitter {
	return &JSONEmitter{encoder: json.NewEncoder(w), now: time.Now}
}

func (e *JSONEmitter) emit(eventType string, data map[string]interface{}) {
	e.mu.Lock()
	defer e.mu.Unlock()
	_ = e.encoder.Encode(ProgressEvent{Type: eventType, Timestamp: e.now(), Data: data})
}

// EmitStage emits a stage event as JSON
func (e *JSONEmitter) EmitStage(stage string, message string) {
	e.emit("stage", map[string]interface{}{"stage": stage, "message": message})
}

// EmitProgress emits a progress event as JSON
func (e *JSONEmitter) EmitProgress(count int, metadata map[string]interface{}) {
	data := map[string]interface{}{"count": count}
	for k, v := range metadata {
		data[k] = v
	}
	e.emit("progress", data)
}

// EmitComplete emits a completion event as JSON
func (e *JSONEmitter) EmitComplete(summary map[string]interface{}) {
	e.emit("complete", summary)
}

// EmitError emits an error event as JSON
func (e *JSONEmitter) EmitError(stage string, err error) {
	e.emit("error", map[string]interface{}{"stage": stage, "error": err.Error()})
}

// EmitInfo emits an info event as JSON
func (e *JSONEmitter) EmitInfo(message string) {
	e.emit("info", map[string]interface{}{"message": message})
}

// LogEmitter forwards events to a zap logger at debug level, for runs
// without an interactive terminal.
type LogEmitter struct {
	logger *zap.SugaredLogger
}

// NewLogEmitter returns an emitter logging through l.
func NewLogEmitter(l *zap.SugaredLogger) *LogEmitter {
	return &LogEmitter{logger: logger.OrNop(l)}
}

func (e *LogEmitter) EmitStage(stage string, message string) {
	e.logger.Debugw(message, logger.FieldPhase, stage)
}

func (e *LogEmitter) EmitProgress(count int, metadata map[string]interface{}) {
	fields := []interface{}{logger.FieldCount, count}
	for _, k := range sortedKeys(metadata) {
		fields = append(fields, k, metadata[k])
	}
	e.logger.Debugw("Progress", fields...)
}

func (e *LogEmitter) EmitComplete(summary map[string]interface{}) {
	fields := make([]interface{}, 0, 2*len(summary))
	for _, k := range sortedKeys(summary) {
		fields = append(fields, k, summary[k])
	}
	e.logger.Infow("Discovery complete", fields...)
}

func (e *LogEmitter) EmitError(stage string, err error) {
	e.logger.Errorw("Discovery failed", logger.FieldPhase, stage, logger.FieldError, err)
}

func (e *LogEmitter) EmitInfo(message string) {
	e.logger.Infow(message)
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
