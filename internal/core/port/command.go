package port

import "bridgebot/internal/core/domain/command"

type CommandRegistry interface {
	// Match returns the first registered entry whose matcher accepts the trigger token.
	Match(token string) (*command.Entry, bool)
	// List returns all entries in registration order.
	List() []*command.Entry
}
