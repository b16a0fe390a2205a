package explorer

import (
	"context"
	"errors"
	"sync"
)

type DialogState int

const (
	DialogClosed DialogState = iota
	DialogOpen
	DialogSubmitting
)

func (s DialogState) String() string {
	switch s {
	case DialogOpen:
		return "open"
	case DialogSubmitting:
		return "submitting"
	default:
		return "closed"
	}
}

var (
	ErrDialogNotOpen = errors.New("dialog is not open")
	// ErrSubmissionDropped is returned when the dialog was closed while its submission
	// was in flight. The result has been discarded.
	ErrSubmissionDropped = errors.New("dialog closed before submission finished")
)

// Dialog is the state of a create or upload popup holding a form of type F.
//
//	Closed -> Open(form) -> Submitting -> Closed        on success
//	                                   -> Open(form, err) on failure
//
// Close is accepted in any state and discards the form. A submission that finishes
// after Close does not touch the dialog.
type Dialog[F any] struct {
	mu         sync.Mutex
	state      DialogState
	form       F
	err        error
	generation uint64
}

// Open shows the dialog with a fresh form.
func (d *Dialog[F]) Open(form F) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.generation++
	d.state = DialogOpen
	d.form = form
	d.err = nil
}

// Edit replaces the form while the dialog is open.
func (d *Dialog[F]) Edit(form F) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != DialogOpen {
		return ErrDialogNotOpen
	}
	d.form = form
	return nil
}

func (d *Dialog[F]) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.generation++
	d.state = DialogClosed
	var zero F
	d.form = zero
	d.err = nil
}

// Submit runs submit with the current form. It does not cancel submit when the dialog
// is closed meanwhile; it only ignores the outcome.
func (d *Dialog[F]) Submit(ctx context.Context, submit func(context.Context, F) error) error {
	d.mu.Lock()
	if d.state != DialogOpen {
		d.mu.Unlock()
		return ErrDialogNotOpen
	}
	d.state = DialogSubmitting
	d.err = nil
	form := d.form
	generation := d.generation
	d.mu.Unlock()

	err := submit(ctx, form)

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.generation != generation {
		return ErrSubmissionDropped
	}
	if err != nil {
		d.state = DialogOpen
		d.err = err
		return err
	}
	d.generation++
	d.state = DialogClosed
	var zero F
	d.form = zero
	return nil
}

// Snapshot returns the current state, form and last submission error.
func (d *Dialog[F]) Snapshot() (DialogState, F, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state, d.form, d.err
}
