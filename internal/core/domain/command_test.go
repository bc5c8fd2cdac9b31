package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCommandArgs(t *testing.T) {
	type TestCase struct {
		description string
		args        string
		want        string
	}

	testCases := []TestCase{
		{
			description: "should discard first word",
			args:        "!firstchar egg",
			want:        "egg",
		},
		{
			description: "should only discard first word",
			args:        "!echo 12 13",
			want:        "12 13",
		},
		{
			description: "keeps inner whitespace",
			args:        "!echo   spaced  out ",
			want:        "  spaced  out ",
		},
		{
			description: "ignores leading whitespace",
			args:        "  !echo hi",
			want:        "hi",
		},
		{
			description: "separated by tab",
			args:        "!echo\thi",
			want:        "hi",
		},
		{
			description: "empty on no args",
			args:        "!hello",
			want:        "",
		},
		{
			description: "empty on no input",
			args:        "",
			want:        "",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			got := ParseCommandArgs(testCase.args)

			assert.Equal(t, testCase.want, got)
		})
	}
}

func TestParseCommand(t *testing.T) {
	type TestCase struct {
		description string
		args        string
		want        string
	}

	testCases := []TestCase{
		{
			description: "should return first word",
			args:        "!hello",
			want:        "!hello",
		},
		{
			description: "should discard following word",
			args:        "!firstchar egg",
			want:        "!firstchar",
		},
		{
			description: "should discard following words",
			args:        "!argparse https://google.com --user-agent X",
			want:        "!argparse",
		},
		{
			description: "keeps case",
			args:        "!Hello",
			want:        "!Hello",
		},
		{
			description: "empty on no input",
			args:        "",
			want:        "",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			got := ParseCommand(testCase.args)

			assert.Equal(t, testCase.want, got)
		})
	}
}

func TestOutboundWire(t *testing.T) {
	tests := []struct {
		name string
		out  Outbound
		want string
	}{
		{
			name: "addressed to user",
			out:  Outbound{Target: TargetUser, User: "alice", Text: "Hello!"},
			want: "alice: Hello!",
		},
		{
			name: "broadcast",
			out:  Outbound{Target: TargetNone, Text: "I am now dead."},
			want: "I am now dead.",
		},
		{
			name: "action",
			out:  Outbound{Target: TargetAction, Text: "is now dead."},
			want: "\x01ACTION is now dead.\x01",
		},
		{
			name: "user target without nick",
			out:  Outbound{Target: TargetUser, Text: "nobody"},
			want: "nobody",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.out.Wire())
		})
	}
}

func TestOutputItemConstructors(t *testing.T) {
	assert.Equal(t, OutputItem{Target: TargetSender, Text: "a"}, Reply("a"))
	assert.Equal(t, OutputItem{Target: TargetUser, User: "bob", Text: "b"}, To("bob", "b"))
	assert.Equal(t, OutputItem{Target: TargetNone, Text: "c"}, Say("c"))
	assert.Equal(t, OutputItem{Target: TargetAction, Text: "d"}, Act("d"))
	assert.Equal(t, "action", TargetAction.String())
}
