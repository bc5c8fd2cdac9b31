package bridge

import (
	"bridgebot/internal/core/domain"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testInterval = time.Millisecond

func TestStreamListen(t *testing.T) {
	var connects atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := connects.Add(1)
		if n == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}

		fmt.Fprintln(w, `{"command":"PRIVMSG","user":{"nick":"alice","hostmask":"a@b","account":"alice","modes":"o"},"message":"!hello"}`)
		fmt.Fprintln(w, `this is not json`)
		fmt.Fprintln(w)
		fmt.Fprintf(w, "{\"command\":\"PRIVMSG\",\"user\":{\"nick\":\"bob\"},\"message\":\"!firstchar %d\"}\n", n)
	}))
	defer server.Close()

	s := NewStream(server.URL, WithRetryInterval(testInterval))

	ctx, cancel := context.WithCancel(t.Context())
	lines := make(chan domain.Line)
	done := make(chan error, 1)
	go func() {
		done <- s.Listen(ctx, lines)
	}()

	var got []domain.Line
	for range 4 {
		select {
		case line := <-lines:
			got = append(got, line)
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for lines")
		}
	}
	cancel()

	require.ErrorIs(t, <-done, context.Canceled)

	assert.Equal(t, domain.Line{
		Command: domain.PrivMsg,
		User:    domain.User{Nick: "alice", Hostmask: "a@b", Account: "alice", Modes: "o"},
		Message: "!hello",
	}, got[0])
	assert.Equal(t, "!firstchar 2", got[1].Message)
	assert.Equal(t, "!hello", got[2].Message, "stream should reconnect after it ends")
	assert.Equal(t, "!firstchar 3", got[3].Message)
}

func TestStreamListenPermanentStatus(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		permanent bool
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, permanent: true},
		{name: "not found", status: http.StatusNotFound, permanent: true},
		{name: "bad request is retried", status: http.StatusBadRequest},
		{name: "server error is retried", status: http.StatusBadGateway},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var connects atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				connects.Add(1)
				w.WriteHeader(tc.status)
			}))
			defer server.Close()

			ctx, cancel := context.WithTimeout(t.Context(), 100*time.Millisecond)
			defer cancel()

			err := NewStream(server.URL, WithRetryInterval(testInterval)).Listen(ctx, make(chan domain.Line))

			if tc.permanent {
				var status *StatusError
				require.ErrorAs(t, err, &status)
				assert.Equal(t, tc.status, status.Code)
				assert.Equal(t, int32(1), connects.Load())
				return
			}

			require.ErrorIs(t, err, context.DeadlineExceeded)
			assert.Greater(t, connects.Load(), int32(1))
		})
	}
}

func TestSenderSend(t *testing.T) {
	var mu sync.Mutex
	var bodies []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		mu.Lock()
		bodies = append(bodies, string(body))
		mu.Unlock()
	}))
	defer server.Close()

	s := NewSender(server.URL, WithRetryInterval(testInterval))

	require.NoError(t, s.Send(t.Context(), domain.Outbound{Target: domain.TargetUser, User: "alice", Text: "Hello!"}))
	require.NoError(t, s.Send(t.Context(), domain.Outbound{Target: domain.TargetAction, Text: "is now dead."}))
	require.NoError(t, s.SendText(t.Context(), "raw line"))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"alice: Hello!", "\x01ACTION is now dead.\x01", "raw line"}, bodies)
}

func TestSenderRetries(t *testing.T) {
	tests := []struct {
		name      string
		failures  int32
		wantCalls int32
		wantErr   bool
	}{
		{name: "succeeds first time", failures: 0, wantCalls: 1},
		{name: "recovers after failures", failures: 3, wantCalls: 4},
		{name: "last try succeeds", failures: 5, wantCalls: 6},
		{name: "gives up", failures: 100, wantCalls: 6, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				if calls.Add(1) <= tc.failures {
					w.WriteHeader(http.StatusInternalServerError)
				}
			}))
			defer server.Close()

			err := NewSender(server.URL, WithRetryInterval(testInterval)).SendText(t.Context(), "hi")

			if tc.wantErr {
				require.ErrorIs(t, err, domain.ErrSendingReplyFailed)
				var status *StatusError
				require.ErrorAs(t, err, &status)
				assert.Equal(t, http.StatusInternalServerError, status.Code)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tc.wantCalls, calls.Load())
		})
	}
}

func TestStatusError(t *testing.T) {
	assert.Equal(t, "bridge returned status 404", (&StatusError{Code: 404}).Error())
	assert.True(t, (&StatusError{Code: 401}).Permanent())
	assert.True(t, (&StatusError{Code: 499}).Permanent())
	assert.False(t, (&StatusError{Code: 400}).Permanent())
	assert.False(t, (&StatusError{Code: 500}).Permanent())
}
