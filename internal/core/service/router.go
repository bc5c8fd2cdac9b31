package service

import (
	"bridgebot/internal/core/domain"
	"bridgebot/internal/core/domain/command"
	"bridgebot/internal/core/port"
	"context"
	"fmt"
)

// Router turns handler output into outbound lines, one per item, in order.
type Router struct {
	sender port.LineSender
}

func NewRouter(sender port.LineSender) *Router {
	return &Router{sender: sender}
}

// Resolve fills in the addressing of an item relative to the line that triggered it.
func (r *Router) Resolve(line domain.Line, item domain.OutputItem) domain.Outbound {
	out := domain.Outbound{
		Channel: line.Channel,
		Target:  item.Target,
		User:    item.User,
		Text:    item.Text,
	}

	switch item.Target {
	case domain.TargetSender:
		out.Target = domain.TargetUser
		out.User = line.User.Nick
	case domain.TargetNone, domain.TargetAction:
		out.User = ""
	}

	return out
}

// Route resolves and sends a single item.
func (r *Router) Route(ctx context.Context, line domain.Line, item domain.OutputItem) error {
	err := r.sender.Send(ctx, r.Resolve(line, item))
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrSendingReplyFailed, err)
	}

	return nil
}

// Emitter binds the router to the line a handler is answering.
func (r *Router) Emitter(ctx context.Context, line domain.Line) command.Emitter {
	return &emitter{ctx: ctx, router: r, line: line}
}

type emitter struct {
	ctx    context.Context
	router *Router
	line   domain.Line
}

func (e *emitter) Emit(item domain.OutputItem) error {
	return e.router.Route(e.ctx, e.line, item)
}
