// Package leadform holds the state machine behind the lead-capture modal.
// It has no UI dependency: a presentation layer calls Open, UpdateField and
// Submit, and renders the snapshot accessors.
package leadform

import (
	"context"
	"fmt"
	"sync"

	"github.com/wolfman30/linkpage/internal/leads"
)

// Notifier delivers a valid submission to the notification endpoint.
type Notifier interface {
	Notify(ctx context.Context, sub leads.Submission) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, sub leads.Submission) error

func (f NotifierFunc) Notify(ctx context.Context, sub leads.Submission) error {
	return f(ctx, sub)
}

// Opener opens url in a new browsing context. Failures are not reported.
type Opener interface {
	Open(url string)
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(url string)

func (f OpenerFunc) Open(url string) {
	f(url)
}

// Options configures a Controller.
type Options struct {
	// ResourceURL is opened after a successful submission.
	ResourceURL string
	// ResetOnOpen clears the draft and errors every time the modal opens.
	ResetOnOpen bool
}

// Controller owns the form draft, its validation errors, the in-flight flag
// and the modal visibility.
type Controller struct {
	notifier    Notifier
	opener      Opener
	resourceURL string
	resetOnOpen bool

	mu         sync.Mutex
	draft      leads.Submission
	errors     leads.ValidationErrors
	submitting bool
	open       bool
}

// New creates a closed controller with an empty draft.
func New(notifier Notifier, opener Opener, opts Options) *Controller {
	if opener == nil {
		opener = OpenerFunc(func(string) {})
	}
	return &Controller{
		notifier:    notifier,
		opener:      opener,
		resourceURL: opts.ResourceURL,
		resetOnOpen: opts.ResetOnOpen,
		errors:      leads.ValidationErrors{},
	}
}

// Open shows the modal.
func (c *Controller) Open() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.resetOnOpen && !c.submitting {
		c.draft = leads.Submission{}
		c.errors = leads.ValidationErrors{}
	}
	c.open = true
}

// Close hides the modal. The draft and errors are kept.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = false
}

// UpdateField overwrites one field of the draft. Errors are left untouched
// until the next submit.
func (c *Controller) UpdateField(field leads.Field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.draft.Set(field, value) {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

// Validate evaluates the current draft without changing any state.
func (c *Controller) Validate() leads.ValidationErrors {
	c.mu.Lock()
	defer c.mu.Unlock()
	return leads.Validate(c.draft)
}

// Submit validates the draft and, when valid, sends it through the notifier.
// On success the modal closes and the resource URL is opened; on failure a
// submit error is recorded and the draft is kept for another attempt.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		return ErrSubmitting
	}
	errs := leads.Validate(c.draft)
	c.errors = errs
	if !errs.Empty() {
		c.mu.Unlock()
		return ErrInvalid
	}
	c.submitting = true
	draft := c.draft
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.submitting = false
		c.mu.Unlock()
	}()

	if err := c.notify(ctx, draft); err != nil {
		c.mu.Lock()
		c.errors = leads.ValidationErrors{leads.FieldSubmit: leads.MsgSubmitFailed}
		c.mu.Unlock()
		return fmt.Errorf("leadform: submit: %w", err)
	}

	c.mu.Lock()
	c.open = false
	c.mu.Unlock()

	go c.openResource()
	return nil
}

func (c *Controller) notify(ctx context.Context, draft leads.Submission) error {
	if c.notifier == nil {
		return fmt.Errorf("leadform: no notifier configured")
	}
	return c.notifier.Notify(ctx, draft)
}

func (c *Controller) openResource() {
	defer func() { _ = recover() }()
	c.opener.Open(c.resourceURL)
}

// Draft returns a copy of the current draft.
func (c *Controller) Draft() leads.Submission {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// Errors returns a copy of the current validation errors.
func (c *Controller) Errors() leads.ValidationErrors {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errors.Clone()
}

// Submitting reports whether a submission is in flight.
func (c *Controller) Submitting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitting
}

// IsOpen reports whether the modal is visible.
func (c *Controller) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}
