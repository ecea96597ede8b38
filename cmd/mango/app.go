package main

import (
	"fmt"
	"time"

	"github.com/redmango/storefront/internal/backend"
	"github.com/redmango/storefront/internal/config"
	"github.com/redmango/storefront/internal/feedback"
	"github.com/redmango/storefront/internal/session"
	"github.com/redmango/storefront/internal/storage"
)

// terminalNotifier renders the client's transient notifications on the
// terminal, the counterpart of a toast in a graphical frontend.
type terminalNotifier struct{}

func (terminalNotifier) Success(msg string) { printSuccess("%s", msg) }
func (terminalNotifier) Error(msg string)   { printError("%s", msg) }

// terminalNavigator stands in for view navigation.
type terminalNavigator struct{}

func (terminalNavigator) GoToListing() { printStep("back to the catalog listing") }
func (terminalNavigator) GoToLogin()   { printStep("login required — run `mango login <userId>`") }

// app bundles the wiring every command needs: config, the backend
// client, durable storage and the stores built on it.
type app struct {
	cfg       config.Config
	client    *backend.Client
	store     *storage.Store
	sessions  *session.Manager
	notifier  terminalNotifier
	navigator terminalNavigator
}

var newApp = func() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	timeout, err := time.ParseDuration(cfg.API.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid api.timeout %q: %w", cfg.API.Timeout, err)
	}

	store, err := storage.Open(cfg.Storage.DataDir)
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}

	return &app{
		cfg:      cfg,
		client:   backend.New(cfg.API.BaseURL, timeout),
		store:    store,
		sessions: session.NewManager(store),
	}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

func (a *app) reviews() (*feedback.ReviewStore, error) {
	return feedback.LoadReviews(a.store, a.notifier)
}

func (a *app) ratings() *feedback.RatingStore {
	return feedback.NewRatingStore(a.store, a.sessions, a.notifier)
}
