package transport

import (
	"fmt"
	"io"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// natsPort carries the byte stream over two subjects, one per direction.
// Message boundaries are not significant; the receiver sees a plain stream.
type natsPort struct {
	nc      *nats.Conn
	sub     *nats.Subscription
	publish string
	pr      *io.PipeReader
	pw      *io.PipeWriter
}

func openNATS(cfg Config) (Port, error) {
	nc, err := nats.Connect(cfg.Address,
		nats.Name("remotext"),
		nats.Timeout(cfg.DialTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("transport: nats connect %s: %w", cfg.Address, err)
	}
	return newNATSPort(nc, cfg.Publish, cfg.Subscribe)
}

func newNATSPort(nc *nats.Conn, publish, subscribe string) (*natsPort, error) {
	pr, pw := io.Pipe()
	p := &natsPort{nc: nc, publish: publish, pr: pr, pw: pw}
	sub, err := nc.Subscribe(subscribe, func(m *nats.Msg) {
		if _, err := pw.Write(m.Data); err != nil {
			log.Debug().Str("component", "transport").Err(err).Msg("nats inbound dropped")
		}
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("transport: nats subscribe %s: %w", subscribe, err)
	}
	p.sub = sub
	if err := nc.Flush(); err != nil {
		nc.Close()
		return nil, fmt.Errorf("transport: nats subscribe %s: %w", subscribe, err)
	}
	log.Info().
		Str("component", "transport").
		Str("publish", publish).
		Str("subscribe", subscribe).
		Msg("nats port open")
	return p, nil
}

func (p *natsPort) Read(b []byte) (int, error) {
	return p.pr.Read(b)
}

func (p *natsPort) Write(b []byte) (int, error) {
	data := make([]byte, len(b))
	copy(data, b)
	if err := p.nc.Publish(p.publish, data); err != nil {
		return 0, err
	}
	return len(b), p.nc.Flush()
}

// Close ends the inbound stream first so a callback blocked on the pipe is
// released, then drops the connection. Read returns io.EOF afterwards.
func (p *natsPort) Close() error {
	err := p.pw.Close()
	if p.sub != nil {
		_ = p.sub.Unsubscribe()
	}
	p.nc.Close()
	return err
}
