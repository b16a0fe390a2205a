package explorer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type folderForm struct {
	Name string
}

func TestDialogSubmitSuccessCloses(t *testing.T) {
	var d Dialog[folderForm]
	d.Open(folderForm{Name: "Docs"})

	var got folderForm
	err := d.Submit(context.Background(), func(_ context.Context, f folderForm) error {
		state, _, _ := d.Snapshot()
		assert.Equal(t, DialogSubmitting, state)
		got = f
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, "Docs", got.Name)
	state, form, lastErr := d.Snapshot()
	assert.Equal(t, DialogClosed, state)
	assert.Equal(t, folderForm{}, form)
	assert.NoError(t, lastErr)
}

func TestDialogSubmitFailureReopensWithError(t *testing.T) {
	var d Dialog[folderForm]
	d.Open(folderForm{Name: " "})

	err := d.Submit(context.Background(), func(context.Context, folderForm) error {
		return ErrInvalidName
	})
	assert.ErrorIs(t, err, ErrInvalidName)

	state, form, lastErr := d.Snapshot()
	assert.Equal(t, DialogOpen, state)
	assert.Equal(t, " ", form.Name)
	assert.ErrorIs(t, lastErr, ErrInvalidName)

	require.NoError(t, d.Edit(folderForm{Name: "Docs"}))
	require.NoError(t, d.Submit(context.Background(), func(context.Context, folderForm) error { return nil }))
}

func TestDialogCloseDuringSubmitDropsResult(t *testing.T) {
	var d Dialog[folderForm]
	d.Open(folderForm{Name: "Docs"})

	err := d.Submit(context.Background(), func(context.Context, folderForm) error {
		d.Close()
		return errors.New("remote failure")
	})
	assert.ErrorIs(t, err, ErrSubmissionDropped)

	state, form, lastErr := d.Snapshot()
	assert.Equal(t, DialogClosed, state)
	assert.Equal(t, folderForm{}, form)
	assert.NoError(t, lastErr)
}

func TestDialogRejectsSubmitWhenNotOpen(t *testing.T) {
	var d Dialog[folderForm]
	called := false

	err := d.Submit(context.Background(), func(context.Context, folderForm) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrDialogNotOpen)
	assert.False(t, called)
	assert.ErrorIs(t, d.Edit(folderForm{}), ErrDialogNotOpen)
	assert.Equal(t, "closed", DialogClosed.String())
}
