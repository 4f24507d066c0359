package main

import (
	"context"
	"os/signal"
	"syscall"

	"contentsync/internal/api"
	"contentsync/internal/credentials"
)

// signalContext is the root context for every command; Ctrl-C cancels it.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// newAuthedClient performs the full login handshake for one-shot commands.
func newAuthedClient(ctx context.Context) (*api.Client, error) {
	client := api.NewClient(CLI.APIURL)
	return api.Authenticate(ctx, client, credentials.Default(), CLI.Service, CLI.Author)
}
