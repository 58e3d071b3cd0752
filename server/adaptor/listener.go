package adaptor

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"sync"
	"time"
)

// Listener accepts raw TCP connections and hands each one to the usecase
// on its own goroutine.
type Listener struct {
	uc           Usecase
	writeTimeout time.Duration
	logger       *slog.Logger
	wg           sync.WaitGroup
}

func NewListener(uc Usecase, writeTimeout time.Duration, logger *slog.Logger) *Listener {
	if logger == nil {
		logger = slog.Default()
	}
	return &Listener{uc: uc, writeTimeout: writeTimeout, logger: logger}
}

// Serve blocks until ctx is cancelled or ln fails. Cancelling ctx closes ln.
func (l *Listener) Serve(ctx context.Context, ln net.Listener) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			ln.Close()
		case <-done:
		}
	}()

	l.logger.Info("listening", "address", ln.Addr().String())
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				l.logger.Warn("accept timeout", "error", err)
				time.Sleep(50 * time.Millisecond)
				continue
			}
			return err
		}
		l.wg.Add(1)
		go func() {
			defer l.wg.Done()
			l.uc.ServeConn(ctx, NewFrameConn(conn, l.writeTimeout))
		}()
	}
}

// Wait blocks until every connection handed out by Serve has finished.
func (l *Listener) Wait() {
	l.wg.Wait()
}
