package command

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Builder attaches matcher, parsing mode and argument schema to a handler.
// Mistakes are collected and returned by Build so that startup can abort.
type Builder struct {
	entry      Entry
	raw        bool
	structured bool
	arity      bool
	errs       []error
}

// New starts a split-mode entry taking no arguments.
func New(matcher Matcher) *Builder {
	return &Builder{entry: Entry{Matcher: matcher, Mode: ModeSplit}}
}

// Raw passes the remainder of the message to the handler untouched.
func (b *Builder) Raw() *Builder {
	if b.structured {
		b.errs = append(b.errs, ErrModeConflict)
	}
	b.raw = true

	return b
}

// Structured parses the remainder against the declared schema. name is only
// used in usage lines.
func (b *Builder) Structured(name string) *Builder {
	if b.raw {
		b.errs = append(b.errs, ErrModeConflict)
	}
	b.structured = true
	b.entry.Usage = name

	return b
}

// Args sets the number of required split arguments. Optional or variadic
// arguments set before it are kept.
func (b *Builder) Args(n int) *Builder {
	if n < 0 {
		b.errs = append(b.errs, fmt.Errorf("%w: %d arguments", ErrInvalidArity, n))
		return b
	}
	b.arity = true
	if b.entry.Arity.Max == Variadic {
		b.entry.Arity.Min = n
		return b
	}
	optional := b.entry.Arity.Max - b.entry.Arity.Min
	b.entry.Arity = Arity{Min: n, Max: n + optional}

	return b
}

// OptionalArgs accepts up to n more arguments after the required ones.
func (b *Builder) OptionalArgs(n int) *Builder {
	if n < 0 {
		b.errs = append(b.errs, fmt.Errorf("%w: %d optional arguments", ErrInvalidArity, n))
		return b
	}
	b.arity = true
	if b.entry.Arity.Max != Variadic {
		b.entry.Arity.Max += n
	}

	return b
}

// Variadic accepts any number of arguments past the required ones.
func (b *Builder) Variadic() *Builder {
	b.arity = true
	b.entry.Arity.Max = Variadic

	return b
}

func (b *Builder) Positional(name string) *Builder {
	return b.argument(Argument{Name: name, Required: true})
}

func (b *Builder) Flag(name, def string) *Builder {
	return b.argument(Argument{Name: trimDashes(name), Flag: true, Default: def})
}

// FlagP is Flag with a one letter shorthand.
func (b *Builder) FlagP(name, short, def string) *Builder {
	return b.argument(Argument{Name: trimDashes(name), Short: trimDashes(short), Flag: true, Default: def})
}

func (b *Builder) RequiredFlag(name string) *Builder {
	return b.argument(Argument{Name: trimDashes(name), Flag: true, Required: true})
}

// Argument declares a fully specified schema slot.
func (b *Builder) Argument(arg Argument) *Builder {
	arg.Name = trimDashes(arg.Name)
	arg.Short = trimDashes(arg.Short)
	return b.argument(arg)
}

func (b *Builder) Help(text string) *Builder {
	b.entry.Help = text
	return b
}

func (b *Builder) Handle(handler Handler) *Builder {
	b.entry.Handler = handler
	return b
}

func (b *Builder) Build() (*Entry, error) {
	errs := append([]error{}, b.errs...)

	if len(b.entry.Matcher.Tokens) == 0 {
		errs = append(errs, ErrMissingMatcher)
	}
	for _, token := range b.entry.Matcher.Tokens {
		if token == "" || strings.ContainsFunc(token, unicode.IsSpace) {
			errs = append(errs, fmt.Errorf("%w: invalid token %q", ErrMissingMatcher, token))
		}
	}
	if b.entry.Handler == nil {
		errs = append(errs, ErrMissingHandler)
	}
	if len(b.entry.Schema) > 0 && !b.structured {
		errs = append(errs, ErrSchemaWithoutStructured)
	}
	if b.arity && (b.raw || b.structured) {
		errs = append(errs, fmt.Errorf("%w: arity only applies to split mode", ErrModeConflict))
	}
	errs = append(errs, validateSchema(b.entry.Schema)...)

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("invalid command %s: %w", b.entry.Matcher, err)
	}

	entry := b.entry
	switch {
	case b.raw:
		entry.Mode = ModeRaw
	case b.structured:
		entry.Mode = ModeStructured
	}
	if entry.Usage == "" {
		entry.Usage = entry.Name()
	}

	return &entry, nil
}

func (b *Builder) argument(arg Argument) *Builder {
	if b.raw {
		b.errs = append(b.errs, ErrModeConflict)
	}
	b.entry.Schema = append(b.entry.Schema, arg)

	return b
}

func validateSchema(schema []Argument) []error {
	var errs []error
	names := make(map[string]bool)
	shorts := make(map[string]bool)

	for _, arg := range schema {
		if arg.Name == "" {
			errs = append(errs, fmt.Errorf("%w: empty argument name", ErrDuplicateArgument))
			continue
		}
		if names[arg.Name] {
			errs = append(errs, fmt.Errorf("%w: %s", ErrDuplicateArgument, arg.Name))
		}
		names[arg.Name] = true

		if arg.Short == "" {
			continue
		}
		if !arg.Flag || len(arg.Short) != 1 {
			errs = append(errs, fmt.Errorf("%w: invalid shorthand %q for %s", ErrDuplicateArgument, arg.Short, arg.Name))
		}
		if shorts[arg.Short] {
			errs = append(errs, fmt.Errorf("%w: -%s", ErrDuplicateArgument, arg.Short))
		}
		shorts[arg.Short] = true
	}

	return errs
}

func trimDashes(name string) string {
	return strings.TrimLeft(name, "-")
}
