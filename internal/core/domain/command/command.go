package command

import (
	"bridgebot/internal/core/domain"
	"context"

	"github.com/gofrs/uuid/v5"
)

type Mode int

const (
	// ModeSplit tokenizes the remainder on whitespace and checks arity.
	ModeSplit Mode = iota
	// ModeRaw hands the remainder over untouched.
	ModeRaw
	// ModeStructured parses the remainder against a declared schema.
	ModeStructured
)

func (m Mode) String() string {
	switch m {
	case ModeSplit:
		return "split"
	case ModeRaw:
		return "raw"
	case ModeStructured:
		return "structured"
	default:
		return "unknown"
	}
}

// Variadic as Arity.Max accepts any number of arguments past Min.
const Variadic = -1

type Arity struct {
	Min int
	Max int
}

// Argument declares one slot of a structured schema. Flags are referred to by
// their long name without dashes.
type Argument struct {
	Name     string
	Short    string
	Flag     bool
	Required bool
	Default  string
	Help     string
}

// Emitter receives handler output. Each Emit sends exactly one line before it returns.
type Emitter interface {
	Emit(item domain.OutputItem) error
}

type Handler func(ctx context.Context, inv *Invocation, out Emitter) error

type Entry struct {
	Matcher Matcher
	Mode    Mode
	Arity   Arity
	Schema  []Argument
	// Usage is the program name shown in structured usage lines.
	Usage   string
	Help    string
	Handler Handler
}

// Name is the first token of the matcher, used for logs and metrics.
func (e *Entry) Name() string {
	if len(e.Matcher.Tokens) == 0 {
		return ""
	}
	return e.Matcher.Tokens[0]
}

// Invocation is one attempt to run a handler.
type Invocation struct {
	ID    uuid.UUID
	Seq   uint64
	Entry *Entry
	Line  domain.Line
	// Ran is the trigger token as typed by the user.
	Ran  string
	Args Args
}

// Args holds the parsed arguments, shaped by the entry's mode.
type Args struct {
	// Positional holds split arguments up to the entry's maximum arity.
	Positional []string
	// Rest holds surplus split arguments of a variadic entry.
	Rest   []string
	Raw    string
	Values Values
}

// Values are the results of a structured parse, keyed by argument name.
type Values map[string]string

func (v Values) Get(name string) string {
	return v[name]
}

func (v Values) Has(name string) bool {
	_, ok := v[name]
	return ok
}
