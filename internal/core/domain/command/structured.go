package command

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/spf13/pflag"
)

// parseStructured splits the remainder with shell quoting rules and replays
// it against the entry's schema. Failures mirror argparse: the usage line
// followed by a line naming the violation.
func parseStructured(entry *Entry, remainder string) (Values, error) {
	usage := Usage(entry)

	tokens, err := shellquote.Split(remainder)
	if err != nil {
		return nil, usageError(usage, splitError(err))
	}

	slots := positionals(entry.Schema)

	var flags, given, extras []string
	for i := 0; i < len(tokens); i++ {
		token := tokens[i]

		if token == "--" {
			for _, rest := range tokens[i+1:] {
				given, extras = takePositional(given, extras, rest, len(slots))
			}
			break
		}

		if !looksLikeFlag(token) {
			given, extras = takePositional(given, extras, token, len(slots))
			continue
		}

		arg, inline := lookupFlag(entry.Schema, token)
		if arg == nil {
			extras = append(extras, token)
			continue
		}

		flags = append(flags, token)
		if inline {
			continue
		}
		if i+1 >= len(tokens) || looksLikeFlag(tokens[i+1]) {
			return nil, usageError(usage, "argument "+flagDisplay(*arg)+": expected one argument")
		}
		flags = append(flags, tokens[i+1])
		i++
	}

	fs := pflag.NewFlagSet(entry.Usage, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	for _, arg := range entry.Schema {
		if arg.Flag {
			fs.StringP(arg.Name, arg.Short, arg.Default, arg.Help)
		}
	}

	if err := fs.Parse(flags); err != nil {
		return nil, usageError(usage, err.Error())
	}

	values := make(Values, len(entry.Schema))
	var missing []string
	slot := 0
	for _, arg := range entry.Schema {
		if !arg.Flag {
			if slot >= len(given) {
				missing = append(missing, arg.Name)
			} else {
				values[arg.Name] = given[slot]
			}
			slot++
			continue
		}

		f := fs.Lookup(arg.Name)
		if arg.Required && !f.Changed {
			missing = append(missing, flagDisplay(arg))
			continue
		}
		values[arg.Name] = f.Value.String()
	}

	if len(missing) > 0 {
		return nil, usageError(usage, "the following arguments are required: "+strings.Join(missing, ", "))
	}
	if len(extras) > 0 {
		return nil, usageError(usage, "unrecognized arguments: "+strings.Join(extras, " "))
	}

	return values, nil
}

// Usage renders the argparse style synopsis of a structured entry.
func Usage(entry *Entry) string {
	sb := &strings.Builder{}
	sb.WriteString("usage: ")
	sb.WriteString(entry.Usage)

	for _, arg := range entry.Schema {
		if !arg.Flag {
			continue
		}
		part := "--" + arg.Name + " " + metavar(arg.Name)
		if !arg.Required {
			part = "[" + part + "]"
		}
		sb.WriteString(" " + part)
	}
	for _, arg := range positionals(entry.Schema) {
		sb.WriteString(" " + arg.Name)
	}

	return sb.String()
}

func positionals(schema []Argument) []Argument {
	var slots []Argument
	for _, arg := range schema {
		if !arg.Flag {
			slots = append(slots, arg)
		}
	}

	return slots
}

func takePositional(given, extras []string, token string, slots int) ([]string, []string) {
	if len(given) < slots {
		return append(given, token), extras
	}
	return given, append(extras, token)
}

// lookupFlag finds the declared flag a token refers to and reports whether the
// value is attached to the token itself (--name=value, -nvalue).
func lookupFlag(schema []Argument, token string) (*Argument, bool) {
	if name, ok := strings.CutPrefix(token, "--"); ok {
		name, _, inline := strings.Cut(name, "=")
		for i := range schema {
			if schema[i].Flag && schema[i].Name == name {
				return &schema[i], inline
			}
		}
		return nil, false
	}

	short := token[1:2]
	for i := range schema {
		if schema[i].Flag && schema[i].Short == short {
			return &schema[i], len(token) > 2
		}
	}

	return nil, false
}

func looksLikeFlag(token string) bool {
	if len(token) < 2 || token[0] != '-' || token == "--" {
		return false
	}
	_, err := strconv.ParseFloat(token, 64)

	return err != nil
}

func flagDisplay(arg Argument) string {
	if arg.Short != "" {
		return "-" + arg.Short + "/--" + arg.Name
	}
	return "--" + arg.Name
}

func metavar(name string) string {
	return strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}

func splitError(err error) string {
	switch {
	case errors.Is(err, shellquote.UnterminatedSingleQuoteError),
		errors.Is(err, shellquote.UnterminatedDoubleQuoteError):
		return "No closing quotation"
	case errors.Is(err, shellquote.UnterminatedEscapeError):
		return "No escaped character"
	default:
		return err.Error()
	}
}
