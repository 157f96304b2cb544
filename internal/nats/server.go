package nats

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/mark3labs/quizr/internal/logger"
)

const (
	readyTimeout    = 4 * time.Second
	drainTimeout    = 2 * time.Second
	shutdownTimeout = 5 * time.Second
)

// Bus is a running embedded server together with its JetStream stream.
type Bus struct {
	Server *server.Server
	Conn   *nats.Conn
	JS     jetstream.JetStream
	Stream jetstream.Stream
}

// Open starts an in-process JetStream server that stores its data under
// dataDir, connects to it without a network listener and ensures the
// question stream exists.
func Open(ctx context.Context, dataDir string) (*Bus, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("nats data dir: %w", err)
	}

	ns, err := server.NewServer(&server.Options{
		JetStream:  true,
		StoreDir:   dataDir,
		DontListen: true,
		NoSigs:     true,
	})
	if err != nil {
		return nil, fmt.Errorf("nats server: %w", err)
	}
	go ns.Start()
	if !ns.ReadyForConnections(readyTimeout) {
		ns.Shutdown()
		return nil, fmt.Errorf("nats server not ready after %s", readyTimeout)
	}
	logger.Debug("embedded NATS up, store %s", dataDir)

	bus := &Bus{Server: ns}
	bus.Conn, err = nats.Connect("", nats.InProcessServer(ns))
	if err != nil {
		ns.Shutdown()
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	if bus.JS, err = jetstream.New(bus.Conn); err != nil {
		_ = bus.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}
	if bus.Stream, err = SetupStream(ctx, bus.JS); err != nil {
		_ = bus.Close()
		return nil, fmt.Errorf("stream %s: %w", StreamName, err)
	}
	return bus, nil
}

// Close shuts the connection and the server down.
func (b *Bus) Close() error {
	if b == nil {
		return nil
	}
	return Shutdown(b.Conn, b.Server)
}

// Shutdown drains nc, falling back to a hard close, then stops ns and waits
// for it to exit. Either argument may be nil.
func Shutdown(nc *nats.Conn, ns *server.Server) error {
	if nc != nil {
		drained := make(chan error, 1)
		go func() { drained <- nc.Drain() }()
		select {
		case err := <-drained:
			if err != nil {
				logger.Warn("nats drain: %v", err)
				nc.Close()
			}
		case <-time.After(drainTimeout):
			logger.Warn("nats drain took longer than %s, closing", drainTimeout)
			nc.Close()
		}
	}

	if ns == nil {
		return nil
	}
	ns.Shutdown()
	stopped := make(chan struct{})
	go func() {
		ns.WaitForShutdown()
		close(stopped)
	}()
	select {
	case <-stopped:
		return nil
	case <-time.After(shutdownTimeout):
		return errors.New("nats server did not stop in time")
	}
}
