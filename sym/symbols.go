// Package sym defines the glyphs depminer prints for its commands and
// discovery phases. They are stable across CLI output and documentation.
package sym

// Command glyphs.
const (
	UCC     = "⊡" // ucc: unique column combinations
	FD      = "⟶" // fd: functional dependencies
	AM      = "≡" // am: configuration and system settings
	Runs    = "⊔" // runs: persisted discovery runs
	Version = "✦" // version: build information
)

// Phase glyphs.
const (
	Load     = "⨳" // reading and partitioning the input
	Sample   = "⋈" // comparing row pairs for witnesses
	Induce   = "⌬" // refining candidates from witnesses
	Validate = "⊨" // checking candidates against the data
	Done     = "✿" // antichain complete
)

// SymbolToCommand maps glyph strings to their text command equivalents.
var SymbolToCommand = map[string]string{
	UCC:     "ucc",
	FD:      "fd",
	AM:      "am",
	Runs:    "runs",
	Version: "version",
}

// CommandToSymbol maps text commands to their canonical glyph strings.
var CommandToSymbol = map[string]string{
	"ucc":     UCC,
	"fd":      FD,
	"am":      AM,
	"runs":    Runs,
	"version": Version,
}

// CommandDescriptions provides one-line explanations for help output.
var CommandDescriptions = map[string]string{
	"ucc":     "Discover minimal unique column combinations",
	"fd":      "Discover minimal functional dependencies",
	"am":      "Show and manage configuration",
	"runs":    "List and inspect persisted runs",
	"version": "Show build information",
}

var stageGlyphs = map[string]string{
	"load":     Load,
	"sample":   Sample,
	"induce":   Induce,
	"validate": Validate,
	"done":     Done,
}

// ForStage returns the glyph of a discovery phase, or "•" for unknown stages.
func ForStage(stage string) string {
	if g, ok := stageGlyphs[stage]; ok {
		return g
	}
	return "•"
}
