package service

import (
	"bridgebot/internal/core/domain"
	"bridgebot/internal/core/domain/command"
	"bridgebot/internal/core/port"
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog/log"
)

// Dispatcher runs each inbound line through match, parse, schedule and reply.
type Dispatcher struct {
	registry  port.CommandRegistry
	scheduler *Scheduler
	router    *Router
	metrics   *Metrics
	seq       atomic.Uint64
}

func NewDispatcher(registry port.CommandRegistry, scheduler *Scheduler, router *Router,
	metrics *Metrics) *Dispatcher {
	if metrics == nil {
		metrics = NewMetrics(nil)
	}

	return &Dispatcher{
		registry:  registry,
		scheduler: scheduler,
		router:    router,
		metrics:   metrics,
	}
}

// Dispatch handles one line. Unknown commands are dropped silently. It blocks
// until the invocation is admitted by the scheduler and only fails if ctx ends
// first.
func (d *Dispatcher) Dispatch(ctx context.Context, line domain.Line) error {
	if line.Command != domain.PrivMsg {
		return nil
	}

	trigger, remainder := domain.SplitTrigger(line.Message)
	entry, ok := d.registry.Match(trigger)
	if !ok {
		return nil
	}

	id, err := uuid.NewV4()
	if err != nil {
		log.Warn().Err(err).Msg("could not generate invocation id")
	}

	inv := &command.Invocation{
		ID:    id,
		Seq:   d.seq.Add(1),
		Entry: entry,
		Line:  line,
		Ran:   trigger,
	}

	l := log.With().
		Str("invocation", id.String()).
		Uint64("seq", inv.Seq).
		Str("command", entry.Name()).
		Str("nick", line.User.Nick).
		Logger()

	inv.Args, err = command.Parse(entry, trigger, remainder)
	if err != nil {
		l.Debug().Err(err).Msg("usage error")
		d.metrics.Invocations.WithLabelValues(entry.Name(), outcomeUsage).Inc()
		return d.scheduler.Submit(ctx, d.usageJob(inv, err))
	}

	l.Debug().Msg("running handler command")

	return d.scheduler.Submit(ctx, Job{
		Name: entry.Name(),
		Seq:  inv.Seq,
		Run: func(ctx context.Context) error {
			err := entry.Handler(ctx, inv, d.router.Emitter(ctx, line))
			if err != nil {
				return fmt.Errorf("command %s: %w", trigger, err)
			}

			d.metrics.Invocations.WithLabelValues(entry.Name(), outcomeOK).Inc()
			return nil
		},
		Fault: d.fault(inv),
	})
}

// Run dispatches lines from source until ctx ends or the source gives up, then
// waits for in-flight invocations.
func (d *Dispatcher) Run(ctx context.Context, source port.LineSource) error {
	lines := make(chan domain.Line)
	errc := make(chan error, 1)

	go func() {
		errc <- source.Listen(ctx, lines)
	}()

	defer d.scheduler.Wait()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("dispatcher stopping")
			return nil
		case err := <-errc:
			if ctx.Err() != nil {
				return nil
			}
			if err == nil {
				err = domain.ErrStreamClosed
			}
			return fmt.Errorf("line source stopped: %w", err)
		case line := <-lines:
			if err := d.Dispatch(ctx, line); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
		}
	}
}

// usageJob replies with the parse failure. It goes through the scheduler so
// the reply keeps its place among the other invocations' output.
func (d *Dispatcher) usageJob(inv *command.Invocation, err error) Job {
	var usage *command.UsageError
	if !errors.As(err, &usage) {
		usage = &command.UsageError{Lines: []string{err.Error()}}
	}

	return Job{
		Name: inv.Entry.Name(),
		Seq:  inv.Seq,
		Run: func(ctx context.Context) error {
			for _, text := range usage.Lines {
				if err := d.router.Route(ctx, inv.Line, domain.Reply(text)); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func (d *Dispatcher) fault(inv *command.Invocation) func(context.Context, error) {
	return func(ctx context.Context, _ error) {
		d.metrics.Invocations.WithLabelValues(inv.Entry.Name(), outcomeFault).Inc()

		err := d.router.Route(ctx, inv.Line, domain.Reply(domain.InternalErrorReply))
		if err != nil {
			log.Err(err).Str("invocation", inv.ID.String()).Msg("failed to report handler fault")
		}
	}
}
