package snowboard

import (
	"net"
	"time"

	"github.com/pkg/errors"
)

var (
	ErrMalformedRequest  = errors.New("malformed request")
	ErrPayloadTooLarge   = errors.New("payload too large")
	ErrEmptyRead         = errors.New("empty request")
	ErrTLSNegotiation    = errors.New("tls negotiation failed")
	ErrNotUpgradeRequest = errors.New("not a websocket upgrade request")

	// ErrServerClosed is returned by Serve and ListenAndServe after Close.
	ErrServerClosed = errors.New("snowboard: server closed")
)

type acceptAction uint8

const (
	acceptRetry acceptAction = iota
	acceptStop
)

// classifyAcceptError decides what the accept loop does with an Accept
// failure. Only a closed listener ends the loop; anything else is
// retried after a backoff.
func classifyAcceptError(err error) acceptAction {
	if errors.Is(err, net.ErrClosed) {
		return acceptStop
	}
	return acceptRetry
}

const (
	minAcceptDelay = 5 * time.Millisecond
	maxAcceptDelay = time.Second
)

func nextAcceptDelay(d time.Duration) time.Duration {
	if d == 0 {
		return minAcceptDelay
	}
	d *= 2
	if d > maxAcceptDelay {
		d = maxAcceptDelay
	}
	return d
}
