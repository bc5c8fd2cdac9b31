package port

import (
	"bridgebot/internal/core/domain"
	"context"
)

type LineSender interface {
	// Send delivers a resolved outbound line to the chat.
	Send(ctx context.Context, out domain.Outbound) error
}

type LineSource interface {
	// Listen pushes inbound lines into lines until ctx is done or the transport fails permanently.
	Listen(ctx context.Context, lines chan<- domain.Line) error
}
