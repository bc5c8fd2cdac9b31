package command

import (
	"fmt"
	"strings"
)

type MatcherKind int

const (
	MatchExact MatcherKind = iota
	MatchPrefix
	// MatchAnyOf matches exactly against any of a set of aliases.
	MatchAnyOf
)

func (k MatcherKind) String() string {
	switch k {
	case MatchExact:
		return "exact"
	case MatchPrefix:
		return "prefix"
	case MatchAnyOf:
		return "any"
	default:
		return fmt.Sprintf("MatcherKind(%d)", int(k))
	}
}

type Matcher struct {
	Kind   MatcherKind
	Tokens []string
}

func Exact(token string) Matcher {
	return Matcher{Kind: MatchExact, Tokens: []string{token}}
}

func Prefix(token string) Matcher {
	return Matcher{Kind: MatchPrefix, Tokens: []string{token}}
}

func AnyOf(tokens ...string) Matcher {
	return Matcher{Kind: MatchAnyOf, Tokens: tokens}
}

// Matches reports whether the trigger token selects this matcher.
func (m Matcher) Matches(token string) bool {
	for _, t := range m.Tokens {
		switch m.Kind {
		case MatchPrefix:
			if strings.HasPrefix(token, t) {
				return true
			}
		default:
			if token == t {
				return true
			}
		}
	}

	return false
}

func (m Matcher) String() string {
	return m.Kind.String() + ":" + strings.Join(m.Tokens, ",")
}
