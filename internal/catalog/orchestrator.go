package catalog

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/redmango/storefront/internal/backend"
	"github.com/redmango/storefront/internal/validate"
)

// ErrBusy is returned when Submit is called while a previous submission
// is still pending.
var ErrBusy = errors.New("a submission is already in progress")

// ErrImageRequired is returned when a create-mode draft has no staged image.
var ErrImageRequired = errors.New("please upload an image")

// Mutator is the slice of the backend client the orchestrator needs.
type Mutator interface {
	CreateItem(ctx context.Context, up backend.ItemUpsert) (backend.APIResponse, error)
	UpdateItem(ctx context.Context, up backend.ItemUpsert) (backend.APIResponse, error)
}

// Notifier surfaces transient user-facing notifications.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Navigator moves the user to another view.
type Navigator interface {
	GoToListing()
}

// Orchestrator drives catalog item create/update submission: validate,
// build the payload, call the backend, notify and navigate on success.
// The busy flag blocks re-entrant submission while a call is pending.
type Orchestrator struct {
	client    Mutator
	notifier  Notifier
	navigator Navigator
	busy      atomic.Bool
}

func NewOrchestrator(client Mutator, notifier Notifier, navigator Navigator) *Orchestrator {
	return &Orchestrator{client: client, notifier: notifier, navigator: navigator}
}

// Busy reports whether a submission is in flight.
func (o *Orchestrator) Busy() bool {
	return o.busy.Load()
}

// Submit validates d and, if clean, sends it to the backend. Validation
// errors fan out to the notifier and block the call. Create mode
// requires a staged image. On a success response the user is notified
// and navigated to the listing view. Transport errors are returned to
// the caller without a notification. The busy flag is cleared on every
// path.
func (o *Orchestrator) Submit(ctx context.Context, d Draft) error {
	if !o.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer o.busy.Store(false)

	errs := validate.CatalogItem(validate.CatalogItemInput{
		Name:        d.Name,
		Description: d.Description,
		Category:    string(d.Category),
		Price:       d.Price,
	})
	if len(errs) > 0 {
		for _, e := range errs {
			o.notifier.Error(e.Message)
		}
		return &validate.Failure{Errors: errs}
	}

	creating := d.ID == ""
	if creating && d.Image == nil {
		o.notifier.Error("Please upload an image")
		return ErrImageRequired
	}

	up := backend.ItemUpsert{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		SpecialTag:  d.SpecialTag,
		Category:    string(d.Category),
		Price:       d.Price,
		File:        d.Image,
	}

	var resp backend.APIResponse
	var err error
	if creating {
		resp, err = o.client.CreateItem(ctx, up)
	} else {
		resp, err = o.client.UpdateItem(ctx, up)
	}
	if err != nil {
		return err
	}

	if resp.IsSuccess {
		if creating {
			o.notifier.Success("Catalog item created successfully")
		} else {
			o.notifier.Success("Catalog item updated successfully")
		}
		o.navigator.GoToListing()
	}
	return nil
}
