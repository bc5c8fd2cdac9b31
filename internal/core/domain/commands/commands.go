package commands

import (
	"bridgebot/internal/core/domain"
	"bridgebot/internal/core/domain/command"
	"bridgebot/internal/format"
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Register adds the built-in commands in the order they are matched. ask may
// be nil, in which case !ask is not registered.
func Register(registry *command.Registry, ask *AskHandler) error {
	builders := []*command.Builder{
		command.New(command.Exact("!hello")).
			Help("Says hello.").
			Handle(hello),
		command.New(command.Exact("!firstchar")).Args(1).
			Help("Tells you the first character of a word.").
			Handle(firstChar),
		command.New(command.Exact("!echo")).Raw().
			Help("Repeats the message back.").
			Handle(echo),
		command.New(command.Exact("!argparse")).Structured("argparse").
			Positional("url").
			Flag("user-agent", "bridgebot").
			Help("Shows how structured arguments are parsed.").
			Handle(argparse),
		command.New(command.Exact("!dead")).
			Help("Dies dramatically.").
			Handle(dead),
		command.New(command.Exact("!rainbow")).Raw().
			Help("Repeats the message in colour.").
			Handle(rainbow),
		command.New(command.Exact("!foo")).
			Handle(reply("Bar!")),
		// shadowed by the entry above
		command.New(command.Exact("!foo")).
			Handle(reply("Baz!")),
		command.New(command.Exact("!help")).OptionalArgs(1).
			Help("Lists commands, or describes one.").
			Handle(help(registry)),
	}

	if ask != nil {
		builders = append(builders, command.New(command.AnyOf("!ask", "!chat")).Raw().
			Help("Asks the language model. The conversation is kept for a while per channel.").
			Handle(ask.Respond))
	}

	// catches every remaining token starting with !s
	builders = append(builders, command.New(command.Prefix("!s")).Raw().
		Help("Matches anything starting with !s.").
		Handle(prefix))

	for _, b := range builders {
		if err := registry.Register(b); err != nil {
			return err
		}
	}

	return nil
}

func reply(text string) command.Handler {
	return func(_ context.Context, _ *command.Invocation, out command.Emitter) error {
		return out.Emit(domain.Reply(text))
	}
}

func hello(_ context.Context, _ *command.Invocation, out command.Emitter) error {
	if err := out.Emit(domain.Reply("Hello!")); err != nil {
		return err
	}

	return out.Emit(domain.Reply("This command takes no arguments!"))
}

func firstChar(_ context.Context, inv *command.Invocation, out command.Emitter) error {
	word := inv.Args.Positional[0]
	r, _ := utf8.DecodeRuneInString(word)

	return out.Emit(domain.Reply(fmt.Sprintf("The first character of %s is %c.", word, r)))
}

func echo(_ context.Context, inv *command.Invocation, out command.Emitter) error {
	if strings.TrimSpace(inv.Args.Raw) == "" {
		return out.Emit(domain.Reply("Nothing to echo."))
	}

	return out.Emit(domain.Reply(inv.Args.Raw))
}

func argparse(_ context.Context, inv *command.Invocation, out command.Emitter) error {
	values := inv.Args.Values

	return out.Emit(domain.Reply(fmt.Sprintf("Would fetch %s as %s.", values.Get("url"), values.Get("user-agent"))))
}

func dead(_ context.Context, _ *command.Invocation, out command.Emitter) error {
	if err := out.Emit(domain.Say("I am now dead.")); err != nil {
		return err
	}

	return out.Emit(domain.Act("is now dead."))
}

var rainbowColours = []string{
	format.Red, format.Orange, format.Yellow, format.Green, format.Blue, format.Magenta,
}

func rainbow(_ context.Context, inv *command.Invocation, out command.Emitter) error {
	text := strings.TrimSpace(inv.Args.Raw)
	if text == "" {
		text = "rainbow"
	}

	sb := &strings.Builder{}
	i := 0
	for _, r := range text {
		if unicode.IsSpace(r) {
			sb.WriteRune(r)
			continue
		}
		// escaped so that a digit in the text is not read as part of the code
		sb.WriteString(format.MustColour(rainbowColours[i%len(rainbowColours)], "", true))
		sb.WriteRune(r)
		i++
	}
	sb.WriteString(format.Reset)

	return out.Emit(domain.Say(sb.String()))
}

func prefix(_ context.Context, inv *command.Invocation, out command.Emitter) error {
	return out.Emit(domain.Reply(fmt.Sprintf("You ran %s.", inv.Ran)))
}

func help(registry *command.Registry) command.Handler {
	return func(_ context.Context, inv *command.Invocation, out command.Emitter) error {
		entries := registry.List()

		if len(inv.Args.Positional) == 1 {
			token := inv.Args.Positional[0]
			for _, entry := range entries {
				if !entry.Matcher.Matches(token) {
					continue
				}

				if err := out.Emit(domain.Reply(describe(entry))); err != nil {
					return err
				}
				if entry.Mode == command.ModeStructured {
					return out.Emit(domain.Reply(command.Usage(entry)))
				}
				return nil
			}

			return out.Emit(domain.Reply(fmt.Sprintf("No such command: %s", token)))
		}

		seen := make(map[string]bool)
		names := make([]string, 0, len(entries))
		for _, entry := range entries {
			name := entry.Name()
			if seen[name] {
				continue
			}
			seen[name] = true
			names = append(names, name)
		}

		return out.Emit(domain.Reply("Commands: " + strings.Join(names, ", ")))
	}
}

func describe(entry *command.Entry) string {
	text := entry.Help
	if text == "" {
		text = "No help available."
	}

	return entry.Name() + ": " + text
}
