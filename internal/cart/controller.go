// Package cart manages the quantity picker and the add-to-cart
// mutation on the item detail view.
package cart

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/redmango/storefront/internal/backend"
	"github.com/redmango/storefront/internal/session"
)

// ErrLoginRequired is returned when add-to-cart runs without an
// authenticated session; the user has already been redirected to login
// and no network call was made.
var ErrLoginRequired = errors.New("login required to add items to the cart")

// Client is the slice of the backend client the controller needs.
type Client interface {
	UpdateCart(ctx context.Context, update backend.CartUpdate) (backend.APIResponse, error)
}

// Sessions provides read access to the authenticated session.
type Sessions interface {
	Current() session.Session
}

// Notifier surfaces transient user-facing notifications.
type Notifier interface {
	Success(msg string)
}

// Navigator moves the user to another view.
type Navigator interface {
	GoToLogin()
}

// Controller holds the quantity counter for one catalog item and sends
// quantity-delta mutations to the backend. The quantity starts at 1 and
// is clamped so it can never drop below 1, whatever the step size.
// Rapid add-to-cart calls are not serialized against each other; the
// adding flag is an indicator, not a gate.
type Controller struct {
	itemID   string
	quantity int

	client    Client
	sessions  Sessions
	notifier  Notifier
	navigator Navigator
	adding    atomic.Bool
}

func NewController(itemID string, client Client, sessions Sessions, notifier Notifier, navigator Navigator) *Controller {
	return &Controller{
		itemID:    itemID,
		quantity:  1,
		client:    client,
		sessions:  sessions,
		notifier:  notifier,
		navigator: navigator,
	}
}

// Quantity returns the current counter value.
func (c *Controller) Quantity() int {
	return c.quantity
}

// Step applies a signed step to the quantity, clamping the result to a
// floor of 1. A decrement from 1 is a no-op.
func (c *Controller) Step(delta int) {
	q := c.quantity + delta
	if q < 1 {
		q = 1
	}
	c.quantity = q
}

// Adding reports whether an add-to-cart call is in flight.
func (c *Controller) Adding() bool {
	return c.adding.Load()
}

// AddToCart sends the current quantity as a delta mutation for the
// signed-in user. Without a session it redirects to login and performs
// no network call. A success response raises a toast; transport errors
// are returned to the caller. The adding flag is cleared on every path.
func (c *Controller) AddToCart(ctx context.Context) error {
	sess := c.sessions.Current()
	if !sess.Authenticated() {
		c.navigator.GoToLogin()
		return ErrLoginRequired
	}

	c.adding.Store(true)
	defer c.adding.Store(false)

	resp, err := c.client.UpdateCart(ctx, backend.CartUpdate{
		ItemID:        c.itemID,
		QuantityDelta: c.quantity,
		UserID:        sess.UserID,
	})
	if err != nil {
		return err
	}

	if resp.IsSuccess {
		c.notifier.Success("Item added to cart successfully!")
	}
	return nil
}
