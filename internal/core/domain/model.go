package domain

// PrivMsg is the only line command that is dispatched to handlers.
const PrivMsg = "PRIVMSG"

type User struct {
	Nick     string `json:"nick"`
	Hostmask string `json:"hostmask"`
	Account  string `json:"account"`
	Modes    string `json:"modes"`
}

// Line is one inbound line delivered by a transport.
type Line struct {
	Command string `json:"command"`
	Channel string `json:"channel,omitempty"`
	User    User   `json:"user"`
	Message string `json:"message"`
}

type Target int

const (
	// TargetSender addresses the user who triggered the command.
	TargetSender Target = iota
	TargetUser
	TargetNone
	TargetAction
)

func (t Target) String() string {
	switch t {
	case TargetSender:
		return "sender"
	case TargetUser:
		return "user"
	case TargetNone:
		return "none"
	case TargetAction:
		return "action"
	default:
		return "unknown"
	}
}

// OutputItem is a single line produced by a handler.
type OutputItem struct {
	Target Target
	User   string
	Text   string
}

// Reply addresses text to the user who triggered the command.
func Reply(text string) OutputItem {
	return OutputItem{Target: TargetSender, Text: text}
}

// To addresses text to the given nick.
func To(nick, text string) OutputItem {
	return OutputItem{Target: TargetUser, User: nick, Text: text}
}

// Say emits text without addressing anyone.
func Say(text string) OutputItem {
	return OutputItem{Target: TargetNone, Text: text}
}

// Act emits text as an action, e.g. "* bot is now dead.".
func Act(text string) OutputItem {
	return OutputItem{Target: TargetAction, Text: text}
}

// Outbound is a resolved line ready for a transport. Target is never
// TargetSender here, the router replaces it with TargetUser.
type Outbound struct {
	Channel string
	Target  Target
	User    string
	Text    string
}

const actionPrefix = "\x01ACTION "

// Wire encodes the line the way the bridge expects it.
func (o Outbound) Wire() string {
	switch o.Target {
	case TargetAction:
		return actionPrefix + o.Text + "\x01"
	case TargetUser, TargetSender:
		if o.User == "" {
			return o.Text
		}
		return o.User + ": " + o.Text
	default:
		return o.Text
	}
}

type Prompt struct {
	Prompt string
	Author Author
}

type Author string

const (
	AuthorUser      Author = "user"
	AuthorAssistant Author = "assistant"
)
