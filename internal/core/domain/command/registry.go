package command

import (
	"sync/atomic"

	"github.com/rs/zerolog/log"
)

// Registry holds entries in registration order. It is filled during setup and
// read without locking once frozen.
type Registry struct {
	entries []*Entry
	frozen  atomic.Bool
}

func (r *Registry) Add(entry *Entry) error {
	if r.frozen.Load() {
		return ErrRegistryFrozen
	}

	log.Info().
		Str("handler", entry.Matcher.String()).
		Str("mode", entry.Mode.String()).
		Msg("adding command handler to registry")
	r.entries = append(r.entries, entry)

	return nil
}

// Register builds the entry and adds it.
func (r *Registry) Register(b *Builder) error {
	entry, err := b.Build()
	if err != nil {
		return err
	}

	return r.Add(entry)
}

// Freeze rejects further registrations.
func (r *Registry) Freeze() {
	r.frozen.Store(true)
}

// Match returns the first entry, in registration order, whose matcher accepts
// token. Later entries with the same matcher are shadowed.
func (r *Registry) Match(token string) (*Entry, bool) {
	for _, entry := range r.entries {
		if entry.Matcher.Matches(token) {
			return entry, true
		}
	}

	log.Debug().Str("command", token).Msg("no handler for command")
	return nil, false
}

func (r *Registry) List() []*Entry {
	list := make([]*Entry, len(r.entries))
	copy(list, r.entries)

	return list
}
