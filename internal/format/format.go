// Package format holds IRC formatting and colour codes. Codes are best
// effort, some clients ignore them and some channels strip them.
package format

import (
	"errors"
	"fmt"
)

// Formatting toggles. Reset clears all of them.
const (
	Bold          = "\x02"
	Italic        = "\x1D"
	Underline     = "\x1F"
	Strikethrough = "\x1E"
	Monospace     = "\x11"
	ReverseColour = "\x16"
	Reset         = "\x0F"
)

// Colour presets. Default is not supported everywhere.
const (
	White      = "00"
	Black      = "01"
	Blue       = "02"
	Green      = "03"
	Red        = "04"
	Brown      = "05"
	Magenta    = "06"
	Orange     = "07"
	Yellow     = "08"
	LightGreen = "09"
	Cyan       = "10"
	LightCyan  = "11"
	LightBlue  = "12"
	Pink       = "13"
	Grey       = "14"
	LightGrey  = "15"
	Default    = "99"
)

const colourCode = "\x03"

var ErrInvalidColour = errors.New("colour codes must be two digits")

// Colour builds a colour prefix. An empty bg keeps the current background.
// With escape set and no bg, a bold-unbold pair is appended so a following
// digit is not read as part of the code.
func Colour(fg, bg string, escape bool) (string, error) {
	if !validCode(fg) || (bg != "" && !validCode(bg)) {
		return "", fmt.Errorf("%w: fg %q, bg %q", ErrInvalidColour, fg, bg)
	}

	if bg != "" {
		return colourCode + fg + "," + bg, nil
	}

	if escape {
		return colourCode + fg + Bold + Bold, nil
	}

	return colourCode + fg, nil
}

// MustColour is Colour for presets known to be valid.
func MustColour(fg, bg string, escape bool) string {
	c, err := Colour(fg, bg, escape)
	if err != nil {
		panic(err)
	}

	return c
}

func validCode(code string) bool {
	return len(code) == 2 && code[0] >= '0' && code[0] <= '9' && code[1] >= '0' && code[1] <= '9'
}
