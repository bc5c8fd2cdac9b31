package bridge

import (
	"bridgebot/internal/core/domain"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog/log"
)

// Sender posts outbound lines to the bridge.
type Sender struct {
	url  string
	opts options
}

func NewSender(url string, opts ...Option) *Sender {
	return &Sender{url: url, opts: buildOptions(sendInitialInterval, opts)}
}

func (s *Sender) Send(ctx context.Context, out domain.Outbound) error {
	return s.SendText(ctx, out.Wire())
}

// SendText posts an already encoded line, retrying a few times before giving up.
func (s *Sender) SendText(ctx context.Context, text string) error {
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, s.post(ctx, text)
	},
		backoff.WithBackOff(sendBackOff(s.opts.interval)),
		backoff.WithMaxTries(sendMaxTries),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, d time.Duration) {
			log.Warn().Err(err).Dur("retry_in", d).Msg("error when sending message, retrying")
		}),
	)
	if err != nil {
		log.Error().Err(err).Msg("max tries reached when sending message")
		return fmt.Errorf("%w: %w", domain.ErrSendingReplyFailed, err)
	}

	return nil
}

func (s *Sender) post(ctx context.Context, text string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, strings.NewReader(text))
	if err != nil {
		return backoff.Permanent(fmt.Errorf("building send request: %w", err))
	}
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")

	resp, err := s.opts.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		return fmt.Errorf("posting to bridge: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Code: resp.StatusCode}
	}

	return nil
}
