package domain

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// SplitTrigger separates the trigger token from the rest of a message. Leading
// whitespace is ignored and exactly one separating whitespace character is
// dropped, everything after it is returned untouched.
func SplitTrigger(message string) (string, string) {
	message = strings.TrimLeftFunc(message, unicode.IsSpace)

	i := strings.IndexFunc(message, unicode.IsSpace)
	if i < 0 {
		return message, ""
	}

	_, size := utf8.DecodeRuneInString(message[i:])
	return message[:i], message[i+size:]
}

// ParseCommand returns the trigger token of a message.
func ParseCommand(message string) string {
	trigger, _ := SplitTrigger(message)
	return trigger
}

// ParseCommandArgs returns everything after the trigger token.
func ParseCommandArgs(message string) string {
	_, remainder := SplitTrigger(message)
	return remainder
}
