package bridge

import (
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
)

const (
	streamInitialInterval = time.Second
	streamMaxInterval     = 64 * time.Second
	sendInitialInterval   = time.Second
	sendMultiplier        = 1.5
	sendMaxTries          = 6
	maxLineSize           = 1 << 20
)

// StatusError is returned when the bridge answers with anything but 200.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("bridge returned status %d", e.Code)
}

// Permanent reports whether retrying cannot help. Client errors other than
// 400 mean the URL or credentials are wrong.
func (e *StatusError) Permanent() bool {
	return e.Code > 400 && e.Code < 500
}

type Option func(*options)

type options struct {
	client   *http.Client
	interval time.Duration
}

// WithClient replaces http.DefaultClient.
func WithClient(client *http.Client) Option {
	return func(o *options) {
		o.client = client
	}
}

// WithRetryInterval sets the first retry delay. Later delays grow from it.
func WithRetryInterval(d time.Duration) Option {
	return func(o *options) {
		o.interval = d
	}
}

func buildOptions(initial time.Duration, opts []Option) options {
	o := options{client: http.DefaultClient, interval: initial}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

func streamBackOff(initial time.Duration) *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = initial
	b.Multiplier = 2
	b.MaxInterval = initial * (streamMaxInterval / streamInitialInterval)
	b.RandomizationFactor = 0

	return b
}

func sendBackOff(initial time.Duration) *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = initial
	b.Multiplier = sendMultiplier
	b.RandomizationFactor = 0

	return b
}
