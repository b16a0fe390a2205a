package validator

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "plain", input: "Docs", want: "Docs"},
		{name: "trimmed", input: "  My Folder  ", want: "My Folder"},
		{name: "unicode kept", input: "Résumé 2026.pdf", want: "Résumé 2026.pdf"},
		{name: "slashes kept", input: "a/b", want: "a/b"},
		{name: "empty", input: "", wantErr: true},
		{name: "whitespace only", input: " \t ", wantErr: true},
		{name: "control char", input: "bad\x00name", wantErr: true},
		{name: "too long", input: strings.Repeat("x", 256), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EntryName(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOptionalID(t *testing.T) {
	id, err := OptionalID("parent_id", "")
	require.NoError(t, err)
	assert.Nil(t, id)

	want := uuid.New()
	id, err = OptionalID("parent_id", want.String())
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, want, *id)

	_, err = OptionalID("parent_id", "not-a-uuid")
	assert.EqualError(t, err, "parent_id must be a valid UUID")
}

func TestContentType(t *testing.T) {
	assert.NoError(t, ContentType(""))
	assert.NoError(t, ContentType("text/plain; charset=utf-8"))
	assert.Error(t, ContentType("not a type;;"))
}
