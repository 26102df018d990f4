package profile

import (
	"strings"
	"time"
)

// Kind names the dependency class a run discovered.
type Kind string

const (
	KindUCC Kind = "ucc"
	KindFD  Kind = "fd"
)

// FD is a functional dependency over column names.
type FD struct {
	LHS []string `json:"lhs" yaml:"lhs"`
	RHS string   `json:"rhs" yaml:"rhs"`
}

// String renders "[a, b] -> c".
func (f FD) String() string {
	return "[" + strings.Join(f.LHS, ", ") + "] -> " + f.RHS
}

// Stats counts the work of a run.
type Stats struct {
	Rounds           int           `json:"rounds" yaml:"rounds"`
	Witnesses        int           `json:"witnesses" yaml:"witnesses"`
	Validations      int           `json:"validations" yaml:"validations"`
	LoadDuration     time.Duration `json:"load_duration" yaml:"load_duration"`
	DiscoverDuration time.Duration `json:"discover_duration" yaml:"discover_duration"`
}

// Result is one finished discovery run.
type Result struct {
	RunID     string     `json:"run_id" yaml:"run_id"`
	Kind      Kind       `json:"kind" yaml:"kind"`
	Dataset   string     `json:"dataset" yaml:"dataset"`
	Columns   []string   `json:"columns" yaml:"columns"`
	Rows      int        `json:"rows" yaml:"rows"`
	UCCs      [][]string `json:"uccs,omitempty" yaml:"uccs,omitempty"`
	FDs       []FD       `json:"fds,omitempty" yaml:"fds,omitempty"`
	Options   Options    `json:"options" yaml:"options"`
	Stats     Stats      `json:"stats" yaml:"stats"`
	StartedAt time.Time  `json:"started_at" yaml:"started_at"`
	Version   string     `json:"version" yaml:"version"`
}

// Count returns the number of discovered dependencies.
func (r *Result) Count() int {
	if r.Kind == KindFD {
		return len(r.FDs)
	}
	return len(r.UCCs)
}

// Dependencies renders every dependency as one line.
func (r *Result) Dependencies() []string {
	out := make([]string, 0, r.Count())
	if r.Kind == KindFD {
		for _, fd := range r.FDs {
			out = append(out, fd.String())
		}
		return out
	}
	for _, u := range r.UCCs {
		out = append(out, "["+strings.Join(u, ", ")+"]")
	}
	return out
}
