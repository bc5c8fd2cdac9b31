package bridge

import (
	"bridgebot/internal/core/domain"
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog/log"
)

var errStreamEnded = errors.New("bridge stream ended")

// Stream reads newline delimited JSON lines from the bridge.
type Stream struct {
	url  string
	opts options
}

func NewStream(url string, opts ...Option) *Stream {
	return &Stream{url: url, opts: buildOptions(streamInitialInterval, opts)}
}

// Listen reconnects forever with exponential backoff. It only returns on
// cancellation or a permanent *StatusError.
func (s *Stream) Listen(ctx context.Context, lines chan<- domain.Line) error {
	l := log.With().Str("url", s.url).Logger()

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		err := s.read(ctx, lines)
		if ctx.Err() != nil {
			return struct{}{}, backoff.Permanent(ctx.Err())
		}

		var status *StatusError
		if errors.As(err, &status) && status.Permanent() {
			return struct{}{}, backoff.Permanent(err)
		}
		if err == nil {
			err = errStreamEnded
		}

		return struct{}{}, err
	},
		backoff.WithBackOff(streamBackOff(s.opts.interval)),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, d time.Duration) {
			l.Warn().Err(err).Dur("retry_in", d).Msg("bridge stream interrupted")
		}),
	)
	if ctx.Err() != nil {
		return ctx.Err()
	}

	return err
}

func (s *Stream) read(ctx context.Context, lines chan<- domain.Line) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return backoff.Permanent(fmt.Errorf("building stream request: %w", err))
	}

	resp, err := s.opts.client.Do(req)
	if err != nil {
		return fmt.Errorf("connecting to bridge: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Code: resp.StatusCode}
	}

	log.Info().Str("url", s.url).Msg("connected to bridge stream")

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}

		var line domain.Line
		if err := json.Unmarshal(raw, &line); err != nil {
			log.Warn().Err(err).Bytes("line", raw).Msg("skipping malformed bridge line")
			continue
		}

		select {
		case lines <- line:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return scanner.Err()
}
