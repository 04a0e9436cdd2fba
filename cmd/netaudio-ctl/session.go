package main

import (
	"context"
	"fmt"

	"github.com/muurk/netaudio/internal/config"
	"github.com/muurk/netaudio/internal/dante"
)

// session is a client running in the background
type session struct {
	*dante.Client

	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// startSession opens a client for c and starts its Run loop
func startSession(ctx context.Context, c *config.Config) (*session, error) {
	client, err := dante.Open(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("failed to open client: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	s := &session{Client: client, cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(s.done)
		s.err = client.Run(runCtx)
	}()
	return s, nil
}

// Stop cancels the client and waits for it to close its sockets
func (s *session) Stop() error {
	s.cancel()
	<-s.done
	if s.err != nil {
		return fmt.Errorf("client failed: %w", s.err)
	}
	return nil
}

// withControl opens a client with only its control socket, for one-shot
// commands that send and forget.
func withControl(ctx context.Context, fn func(c *dante.Client) error) error {
	c := *cfg
	c.Discovery.Enabled = false
	c.Notifications.Enabled = false

	client, err := dante.Open(ctx, &c)
	if err != nil {
		return fmt.Errorf("failed to open client: %w", err)
	}
	defer client.Close()

	return fn(client)
}
