package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderModes(t *testing.T) {
	tests := []struct {
		name    string
		builder *Builder
		want    Mode
		arity   Arity
	}{
		{
			name:    "defaults to split without arguments",
			builder: New(Exact("!hello")).Handle(noop),
			want:    ModeSplit,
			arity:   Arity{Min: 0, Max: 0},
		},
		{
			name:    "fixed arity",
			builder: New(Exact("!firstchar")).Args(1).Handle(noop),
			want:    ModeSplit,
			arity:   Arity{Min: 1, Max: 1},
		},
		{
			name:    "optional arguments",
			builder: New(Exact("!opt")).Args(1).OptionalArgs(2).Handle(noop),
			want:    ModeSplit,
			arity:   Arity{Min: 1, Max: 3},
		},
		{
			name:    "variadic",
			builder: New(Exact("!many")).Args(2).Variadic().Handle(noop),
			want:    ModeSplit,
			arity:   Arity{Min: 2, Max: Variadic},
		},
		{
			name:    "variadic before required",
			builder: New(Exact("!many")).Variadic().Args(1).Handle(noop),
			want:    ModeSplit,
			arity:   Arity{Min: 1, Max: Variadic},
		},
		{
			name:    "optional before required",
			builder: New(Exact("!opt")).OptionalArgs(2).Args(1).Handle(noop),
			want:    ModeSplit,
			arity:   Arity{Min: 1, Max: 3},
		},
		{
			name:    "raw",
			builder: New(Exact("!echo")).Raw().Handle(noop),
			want:    ModeRaw,
		},
		{
			name:    "structured",
			builder: New(Exact("!argparse")).Structured("argparse").Positional("url").Handle(noop),
			want:    ModeStructured,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			entry, err := tc.builder.Build()
			require.NoError(t, err)
			assert.Equal(t, tc.want, entry.Mode)
			assert.Equal(t, tc.arity, entry.Arity)
		})
	}
}

func TestBuilderErrors(t *testing.T) {
	tests := []struct {
		name    string
		builder *Builder
		wantErr error
	}{
		{
			name:    "raw then structured",
			builder: New(Exact("!x")).Raw().Structured("x").Handle(noop),
			wantErr: ErrModeConflict,
		},
		{
			name:    "structured then raw",
			builder: New(Exact("!x")).Structured("x").Raw().Handle(noop),
			wantErr: ErrModeConflict,
		},
		{
			name:    "argument on raw entry",
			builder: New(Exact("!x")).Raw().Positional("url").Handle(noop),
			wantErr: ErrModeConflict,
		},
		{
			name:    "argument without structured mode",
			builder: New(Exact("!x")).Flag("user-agent", "").Handle(noop),
			wantErr: ErrSchemaWithoutStructured,
		},
		{
			name:    "arity on structured entry",
			builder: New(Exact("!x")).Structured("x").Args(1).Handle(noop),
			wantErr: ErrModeConflict,
		},
		{
			name:    "negative arity",
			builder: New(Exact("!x")).Args(-1).Handle(noop),
			wantErr: ErrInvalidArity,
		},
		{
			name:    "duplicate argument",
			builder: New(Exact("!x")).Structured("x").Positional("url").Flag("url", "").Handle(noop),
			wantErr: ErrDuplicateArgument,
		},
		{
			name:    "duplicate shorthand",
			builder: New(Exact("!x")).Structured("x").FlagP("a", "v", "").FlagP("b", "v", "").Handle(noop),
			wantErr: ErrDuplicateArgument,
		},
		{
			name:    "missing handler",
			builder: New(Exact("!x")),
			wantErr: ErrMissingHandler,
		},
		{
			name:    "no tokens",
			builder: New(AnyOf()).Handle(noop),
			wantErr: ErrMissingMatcher,
		},
		{
			name:    "token with whitespace",
			builder: New(Exact("!a b")).Handle(noop),
			wantErr: ErrMissingMatcher,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			entry, err := tc.builder.Build()
			require.ErrorIs(t, err, tc.wantErr)
			assert.Nil(t, entry)
		})
	}
}

func TestBuilderUsageName(t *testing.T) {
	entry := mustBuild(t, New(Exact("!argparse")).Structured("fetch").Positional("url").Handle(noop))
	assert.Equal(t, "fetch", entry.Usage)

	entry = mustBuild(t, New(Exact("!hello")).Handle(noop))
	assert.Equal(t, "!hello", entry.Usage)
}

func TestBuilderFlagNames(t *testing.T) {
	entry := mustBuild(t, New(Exact("!x")).Structured("x").
		FlagP("--user-agent", "-A", "curl").
		RequiredFlag("--token").
		Argument(Argument{Name: "--depth", Flag: true, Default: "1", Help: "crawl depth"}).
		Handle(noop))

	require.Len(t, entry.Schema, 3)
	assert.Equal(t, Argument{Name: "user-agent", Short: "A", Flag: true, Default: "curl"}, entry.Schema[0])
	assert.Equal(t, Argument{Name: "token", Flag: true, Required: true}, entry.Schema[1])
	assert.Equal(t, "depth", entry.Schema[2].Name)
}
