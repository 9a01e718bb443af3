package transport

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
)

// ByteSink receives inbound bytes one at a time, like a UART RX interrupt.
type ByteSink func(b byte)

// Receiver pumps bytes from a port into a sink.
type Receiver struct {
	r    io.ReadCloser
	sink ByteSink
}

func NewReceiver(r io.ReadCloser, sink ByteSink) *Receiver {
	return &Receiver{r: r, sink: sink}
}

// Run reads until the port fails or ctx ends. Cancelling ctx closes the port
// to unblock the pending read; Run then returns nil.
func (rx *Receiver) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { rx.r.Close() })
	defer stop()

	buf := make([]byte, 64)
	for {
		n, err := rx.r.Read(buf)
		for i := 0; i < n; i++ {
			rx.sink(buf[i])
		}
		if err == nil {
			continue
		}
		if ctx.Err() != nil {
			return nil
		}
		if errors.Is(err, io.EOF) {
			log.Info().Str("component", "transport").Msg("peer closed stream")
			return io.EOF
		}
		return fmt.Errorf("transport: receive: %w", err)
	}
}
