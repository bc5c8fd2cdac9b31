package command

import (
	"fmt"
	"strings"
)

// Parse turns the message remainder into handler arguments according to the
// entry's mode. ran is the trigger token and only shows up in error replies.
func Parse(entry *Entry, ran, remainder string) (Args, error) {
	switch entry.Mode {
	case ModeRaw:
		return Args{Raw: remainder}, nil
	case ModeStructured:
		values, err := parseStructured(entry, remainder)
		if err != nil {
			return Args{}, err
		}
		return Args{Raw: remainder, Values: values}, nil
	default:
		return parseSplit(entry.Arity, ran, remainder)
	}
}

func parseSplit(arity Arity, ran, remainder string) (Args, error) {
	tokens := strings.Fields(remainder)

	if len(tokens) < arity.Min {
		return Args{}, usageError(fmt.Sprintf("Not enough arguments for command %s (expected %s, got %d).",
			ran, arity.expected(), len(tokens)))
	}
	if arity.Max != Variadic && len(tokens) > arity.Max {
		return Args{}, usageError(fmt.Sprintf("Too many arguments for command %s (expected %s, got %d).",
			ran, arity.expected(), len(tokens)))
	}

	fixed := arity.Max
	if fixed == Variadic {
		fixed = arity.Min
	}
	fixed = min(fixed, len(tokens))

	args := Args{Raw: remainder, Positional: tokens[:fixed]}
	if fixed < len(tokens) {
		args.Rest = tokens[fixed:]
	}

	return args, nil
}

func (a Arity) expected() string {
	switch {
	case a.Max == Variadic:
		return fmt.Sprintf("at least %d", a.Min)
	case a.Min == a.Max:
		return fmt.Sprintf("%d", a.Min)
	default:
		return fmt.Sprintf("%d to %d", a.Min, a.Max)
	}
}
