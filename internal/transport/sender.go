package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/danmuck/remotext/internal/peer"
)

var ErrSenderClosed = errors.New("transport: sender closed")

// Sender writes one frame at a time. Send blocks until every byte and the
// terminator have been handed to the port.
type Sender struct {
	mu      sync.Mutex
	w       io.Writer
	limits  peer.Limits
	timeout time.Duration
}

func NewSender(w io.Writer, limits peer.Limits, timeout time.Duration) *Sender {
	return &Sender{w: w, limits: limits, timeout: timeout}
}

func (s *Sender) Send(ctx context.Context, m peer.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.w == nil {
		return ErrSenderClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if d, ok := s.w.(writeDeadliner); ok && s.timeout > 0 {
		deadline := time.Now().Add(s.timeout)
		if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
			deadline = ctxDeadline
		}
		_ = d.SetWriteDeadline(deadline)
		defer d.SetWriteDeadline(time.Time{})
	}
	if err := peer.WriteFrame(s.w, m, s.limits); err != nil {
		return fmt.Errorf("transport: send: %w", err)
	}
	return nil
}

// Detach stops further sends; in-flight sends finish first.
func (s *Sender) Detach() {
	s.mu.Lock()
	s.w = nil
	s.mu.Unlock()
}
