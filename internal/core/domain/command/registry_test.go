package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop(_ context.Context, _ *Invocation, _ Emitter) error {
	return nil
}

func mustBuild(t *testing.T, b *Builder) *Entry {
	t.Helper()

	entry, err := b.Build()
	require.NoError(t, err)

	return entry
}

func TestRegister(t *testing.T) {
	cr := &Registry{}

	err := cr.Register(New(Exact("!test")).Handle(noop))
	require.NoError(t, err)
	assert.Len(t, cr.entries, 1)
}

func TestRegisterInvalid(t *testing.T) {
	cr := &Registry{}

	err := cr.Register(New(Exact("!test")))
	require.ErrorIs(t, err, ErrMissingHandler)
	assert.Empty(t, cr.entries)
}

func TestMatchEmptyRegistry(t *testing.T) {
	cr := &Registry{}

	entry, ok := cr.Match("!test")
	assert.False(t, ok)
	assert.Nil(t, entry)
}

func TestMatchCommandNotFound(t *testing.T) {
	cr := &Registry{}
	require.NoError(t, cr.Register(New(Exact("!test")).Handle(noop)))

	_, ok := cr.Match("!foo")
	assert.False(t, ok)
}

func TestMatchCommandFound(t *testing.T) {
	cr := &Registry{}
	require.NoError(t, cr.Register(New(Exact("!test")).Handle(noop)))

	entry, ok := cr.Match("!test")
	require.True(t, ok)
	assert.Equal(t, "!test", entry.Name())
}

func TestMatchFirstRegisteredWins(t *testing.T) {
	cr := &Registry{}
	first := mustBuild(t, New(Exact("!foo")).Help("Bar!").Handle(noop))
	second := mustBuild(t, New(Exact("!foo")).Help("Baz!").Handle(noop))
	third := mustBuild(t, New(Prefix("!f")).Help("prefix").Handle(noop))

	require.NoError(t, cr.Add(first))
	require.NoError(t, cr.Add(second))
	require.NoError(t, cr.Add(third))

	for range 10 {
		entry, ok := cr.Match("!foo")
		require.True(t, ok)
		assert.Same(t, first, entry)
	}

	entry, ok := cr.Match("!fo")
	require.True(t, ok)
	assert.Same(t, third, entry)
}

func TestMatchKinds(t *testing.T) {
	tests := []struct {
		name    string
		matcher Matcher
		token   string
		want    bool
	}{
		{name: "exact hit", matcher: Exact("!hello"), token: "!hello", want: true},
		{name: "exact miss on longer token", matcher: Exact("!hello"), token: "!hellooo", want: false},
		{name: "exact is case sensitive", matcher: Exact("!hello"), token: "!Hello", want: false},
		{name: "prefix hit", matcher: Prefix("!s"), token: "!shdiuahiudhiuhsaawgef", want: true},
		{name: "prefix equal", matcher: Prefix("!s"), token: "!s", want: true},
		{name: "prefix miss", matcher: Prefix("!s"), token: "!hello", want: false},
		{name: "any of first", matcher: AnyOf("!bye", "!quit"), token: "!bye", want: true},
		{name: "any of second", matcher: AnyOf("!bye", "!quit"), token: "!quit", want: true},
		{name: "any of miss", matcher: AnyOf("!bye", "!quit"), token: "!q", want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.matcher.Matches(tc.token))
		})
	}
}

func TestPrefixOrderIsRegistrationOrder(t *testing.T) {
	cr := &Registry{}
	short := mustBuild(t, New(Prefix("!s")).Handle(noop))
	long := mustBuild(t, New(Prefix("!sh")).Handle(noop))

	require.NoError(t, cr.Add(short))
	require.NoError(t, cr.Add(long))

	entry, ok := cr.Match("!shout")
	require.True(t, ok)
	assert.Same(t, short, entry)
}

func TestFreeze(t *testing.T) {
	cr := &Registry{}
	require.NoError(t, cr.Register(New(Exact("!a")).Handle(noop)))

	cr.Freeze()

	err := cr.Register(New(Exact("!b")).Handle(noop))
	require.ErrorIs(t, err, ErrRegistryFrozen)

	_, ok := cr.Match("!a")
	assert.True(t, ok)
}

func TestList(t *testing.T) {
	cr := &Registry{}
	require.NoError(t, cr.Register(New(Exact("!foo")).Handle(noop)))
	require.NoError(t, cr.Register(New(Exact("!bar")).Handle(noop)))

	list := cr.List()

	require.Len(t, list, 2)
	assert.Equal(t, "!foo", list[0].Name())
	assert.Equal(t, "!bar", list[1].Name())

	list[0] = nil
	assert.NotNil(t, cr.List()[0])
}
