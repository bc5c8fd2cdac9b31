package commands

import (
	"bridgebot/internal/core/domain"
	"bridgebot/internal/core/domain/command"
	"bridgebot/internal/core/port"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// AskHandler forwards prompts to a text generator. Each channel keeps its own
// conversation until it has been idle for cacheDuration.
type AskHandler struct {
	textGenerator port.TextGenerator
	cacheDuration time.Duration
	timeout       time.Duration
	cache         sync.Map
}

type Conversation struct {
	mu       sync.Mutex
	channel  string
	messages []domain.Prompt
	timer    *time.Timer
	lastUsed time.Time
	expired  bool
}

func NewAskHandler(textGenerator port.TextGenerator, cacheDuration, timeout time.Duration) *AskHandler {
	return &AskHandler{
		textGenerator: textGenerator,
		cacheDuration: cacheDuration,
		timeout:       timeout,
	}
}

func (h *AskHandler) Respond(ctx context.Context, inv *command.Invocation, out command.Emitter) error {
	l := log.With().
		Str("invocation", inv.ID.String()).
		Str("channel", inv.Line.Channel).
		Str("command", inv.Ran).
		Logger()

	promptText := strings.TrimSpace(inv.Args.Raw)
	if promptText == "" {
		l.Debug().Msg(domain.ErrEmptyPrompt.Error())
		return out.Emit(domain.Reply("please input a prompt"))
	}

	l.Info().Msg("handling request")

	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	conversation := h.conversation(inv.Line.Channel)
	defer h.release(conversation)

	conversation.messages = append(conversation.messages, domain.Prompt{
		Author: domain.AuthorUser,
		Prompt: inv.Line.User.Nick + ": " + promptText,
	})

	response, err := h.textGenerator.GenerateFromPrompt(ctx, conversation.messages)
	if err != nil {
		conversation.messages = conversation.messages[:len(conversation.messages)-1]
		return fmt.Errorf("failed to generate reply: %w", err)
	}

	l.Debug().Msg("reply generated")
	conversation.messages = append(conversation.messages, domain.Prompt{Author: domain.AuthorAssistant, Prompt: response})

	for _, line := range strings.Split(response, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := out.Emit(domain.Reply(line)); err != nil {
			return err
		}
	}

	return nil
}

// conversation returns the channel's conversation, locked. Callers hand it
// back with release.
func (h *AskHandler) conversation(channel string) *Conversation {
	for {
		c, loaded := h.cache.LoadOrStore(channel, &Conversation{channel: channel})
		convo, _ := c.(*Conversation)
		convo.mu.Lock()

		// expired between the load and the lock
		if convo.expired {
			convo.mu.Unlock()
			continue
		}

		if !loaded {
			log.Debug().Str("channel", channel).Msg("new conversation")
			convo.timer = time.AfterFunc(h.cacheDuration, func() { h.expire(convo) })
		}
		convo.lastUsed = time.Now()

		return convo
	}
}

// release unlocks the conversation and pushes back its expiry.
func (h *AskHandler) release(convo *Conversation) {
	convo.lastUsed = time.Now()
	convo.timer.Reset(h.cacheDuration)
	convo.mu.Unlock()
}

func (h *AskHandler) expire(convo *Conversation) {
	convo.mu.Lock()
	defer convo.mu.Unlock()

	// used while the timer was firing, the reset timer runs again later
	if time.Since(convo.lastUsed) < h.cacheDuration {
		return
	}

	log.Debug().Str("channel", convo.channel).Msg("clearing conversation")
	convo.expired = true
	h.cache.CompareAndDelete(convo.channel, convo)
}
