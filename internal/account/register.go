// Package account drives the registration flow against the backend.
package account

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/redmango/storefront/internal/backend"
	"github.com/redmango/storefront/internal/session"
	"github.com/redmango/storefront/internal/validate"
)

// ErrBusy is returned when Submit is called while a previous
// registration is still pending.
var ErrBusy = errors.New("a registration is already in progress")

// Client is the slice of the backend client the registrar needs.
type Client interface {
	Register(ctx context.Context, reg backend.Registration) (backend.APIResponse, error)
}

// Notifier surfaces transient user-facing notifications.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Navigator moves the user to another view.
type Navigator interface {
	GoToLogin()
}

// Form is the raw registration form state. Email is validated but never
// transmitted; the register contract carries no email field.
type Form struct {
	UserName        string
	FullName        string
	Email           string
	PhoneNumber     string
	Password        string
	ConfirmPassword string
	Role            string
}

// Registrar submits registration forms: validate locally, call the
// backend, surface backend error messages, navigate to login on success.
type Registrar struct {
	client    Client
	notifier  Notifier
	navigator Navigator
	busy      atomic.Bool
}

func NewRegistrar(client Client, notifier Notifier, navigator Navigator) *Registrar {
	return &Registrar{client: client, notifier: notifier, navigator: navigator}
}

// Busy reports whether a registration is in flight.
func (r *Registrar) Busy() bool {
	return r.busy.Load()
}

// Submit validates f and registers the user. Validation errors fan out
// to the notifier and block the call. A backend failure surfaces its
// first error message as a notification; transport errors are returned
// bare. The busy flag is cleared on every path.
func (r *Registrar) Submit(ctx context.Context, f Form) error {
	if !r.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer r.busy.Store(false)

	errs := validate.Registration(validate.RegistrationInput{
		UserName:        f.UserName,
		FullName:        f.FullName,
		Email:           f.Email,
		PhoneNumber:     f.PhoneNumber,
		Password:        f.Password,
		ConfirmPassword: f.ConfirmPassword,
	})
	if len(errs) > 0 {
		for _, e := range errs {
			r.notifier.Error(e.Message)
		}
		return &validate.Failure{Errors: errs}
	}

	role, err := session.ParseRole(f.Role)
	if err != nil {
		r.notifier.Error(err.Error())
		return err
	}

	_, err = r.client.Register(ctx, backend.Registration{
		UserName:    f.UserName,
		Password:    f.Password,
		Role:        role,
		Name:        f.FullName,
		PhoneNumber: f.PhoneNumber,
	})
	if err != nil {
		var backendErr *backend.Error
		if errors.As(err, &backendErr) && len(backendErr.Messages) > 0 {
			r.notifier.Error(backendErr.Messages[0])
		}
		return err
	}

	r.notifier.Success("Registration successful! Please login to continue.")
	r.navigator.GoToLogin()
	return nil
}
