package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"drive-service/internal/domain/entry"
	"drive-service/internal/memstore"
	"drive-service/internal/session"
	apperrors "drive-service/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	entries  *memstore.EntryStore
	objects  *memstore.ObjectStore
	pipeline *Pipeline
	sess     session.Session
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	entries := memstore.NewEntryStore()
	objects := memstore.NewObjectStore("user-files")
	sess, err := session.New(uuid.New())
	require.NoError(t, err)

	opts = append([]Option{WithLogger(log.New(io.Discard, "", 0))}, opts...)
	return &fixture{
		entries:  entries,
		objects:  objects,
		pipeline: New(entries, objects, opts...),
		sess:     sess,
	}
}

func (f *fixture) calls() int {
	return f.entries.TotalCalls() + f.objects.TotalCalls()
}

func textFile(name string, size int) File {
	return File{Name: name, MimeType: "text/plain", Size: int64(size), Content: bytes.NewReader(make([]byte, size))}
}

func TestUploadBatchRejectsEmptyBatch(t *testing.T) {
	f := newFixture(t)

	results, err := f.pipeline.UploadBatch(context.Background(), f.sess, nil, nil)

	assert.Nil(t, results)
	assert.ErrorIs(t, err, ErrEmptyBatch)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Zero(t, f.calls())
}

func TestUploadBatchRejectsTooManyFiles(t *testing.T) {
	for _, n := range []int{6, 7, 20} {
		t.Run(fmt.Sprintf("%d files", n), func(t *testing.T) {
			f := newFixture(t)
			files := make([]File, n)
			for i := range files {
				files[i] = textFile(fmt.Sprintf("f%d.txt", i), 10)
			}

			results, err := f.pipeline.UploadBatch(context.Background(), f.sess, nil, files)

			assert.Nil(t, results)
			assert.ErrorIs(t, err, ErrTooManyFiles)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
			assert.Zero(t, f.calls())
			assert.Zero(t, f.objects.Len())
		})
	}
}

func TestUploadBatchRequiresSession(t *testing.T) {
	f := newFixture(t)

	_, err := f.pipeline.UploadBatch(context.Background(), session.Session{}, nil, []File{textFile("a.txt", 1)})

	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.Zero(t, f.calls())
}

func TestUploadBatchOneResultPerFileInOrder(t *testing.T) {
	for n := 1; n <= 5; n++ {
		t.Run(fmt.Sprintf("%d files", n), func(t *testing.T) {
			f := newFixture(t)
			files := make([]File, n)
			for i := range files {
				files[i] = textFile(fmt.Sprintf("file-%d.txt", i), 100+i)
			}

			results, err := f.pipeline.UploadBatch(context.Background(), f.sess, nil, files)
			require.NoError(t, err)
			require.Len(t, results, n)

			for i, r := range results {
				assert.Equal(t, files[i].Name, r.Name)
				assert.True(t, r.OK())
				assert.NotEqual(t, uuid.Nil, r.EntryID)
				assert.True(t, f.objects.Has(r.StorageKey))
			}
		})
	}
}

func TestUploadBatchPerFileValidation(t *testing.T) {
	f := newFixture(t)
	files := []File{
		textFile("big.txt", 10*1024*1024+1),
		{Name: "tool.exe", MimeType: "application/octet-stream", Size: 10, Content: strings.NewReader("x")},
		{Name: "doc.pdf", MimeType: "application/pdf", Size: 3, Content: strings.NewReader("pdf")},
		textFile("exact.txt", 10*1024*1024),
	}

	results, err := f.pipeline.UploadBatch(context.Background(), f.sess, nil, files)
	require.NoError(t, err)
	require.Len(t, results, 4)

	assert.Equal(t, OutcomeFileTooLarge, results[0].Outcome)
	assert.ErrorIs(t, results[0].Err, ErrFileTooLarge)
	assert.ErrorIs(t, results[0].Err, apperrors.ErrValidation)

	assert.Equal(t, OutcomeUnsupportedType, results[1].Outcome)
	assert.ErrorIs(t, results[1].Err, ErrUnsupportedType)

	assert.Equal(t, OutcomeUploaded, results[2].Outcome)
	assert.Equal(t, OutcomeUploaded, results[3].Outcome)

	// Only the two accepted files reached the object store.
	assert.Equal(t, 2, f.objects.Calls(memstore.OpPut))
	assert.Equal(t, 2, f.objects.Len())
}

func TestUploadBatchStorageFailureDoesNotAbortSiblings(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("bucket unavailable")
	f.objects.FailOn(memstore.OpPut, boom)

	results, err := f.pipeline.UploadBatch(context.Background(), f.sess, nil, []File{
		textFile("a.txt", 1),
		textFile("b.txt", 1),
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	for _, r := range results {
		assert.Equal(t, OutcomeStorageWriteFailed, r.Outcome)
		assert.ErrorIs(t, r.Err, ErrStorageWriteFailed)
		assert.ErrorIs(t, r.Err, apperrors.ErrRemote)
		assert.ErrorIs(t, r.Err, boom)
	}
	assert.Zero(t, f.entries.Calls(memstore.OpCreate))
}

func TestUploadBatchMetadataFailureLeavesBlob(t *testing.T) {
	f := newFixture(t)
	f.entries.FailOn(memstore.OpCreate, errors.New("insert failed"))

	results, err := f.pipeline.UploadBatch(context.Background(), f.sess, nil, []File{textFile("a.txt", 4)})
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, OutcomeMetadataWriteFailed, results[0].Outcome)
	assert.ErrorIs(t, results[0].Err, ErrMetadataWriteFailed)
	assert.Equal(t, 1, f.objects.Len())
	assert.Zero(t, f.objects.Calls(memstore.OpRemove))
}

func TestUploadBatchKeysAreScopedAndDistinct(t *testing.T) {
	fixed := time.UnixMilli(1700000000000)
	f := newFixture(t, WithClock(func() time.Time { return fixed }))

	folder, err := f.entries.Create(context.Background(), entry.CreateInput{OwnerID: f.sess.OwnerID, Name: "Docs"})
	require.NoError(t, err)

	results, err := f.pipeline.UploadBatch(context.Background(), f.sess, &folder.ID, []File{
		textFile("same name.txt", 1),
		textFile("same name.txt", 1),
	})
	require.NoError(t, err)

	prefix := f.sess.OwnerID.String() + "/" + folder.ID.String() + "/"
	assert.Equal(t, prefix+"same_name_1700000000000.txt", results[0].StorageKey)
	assert.Equal(t, prefix+"same_name_1700000000001.txt", results[1].StorageKey)
}

func TestUploadNotesIntoDocs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	docs, err := f.entries.Create(ctx, entry.CreateInput{OwnerID: f.sess.OwnerID, Name: "Docs"})
	require.NoError(t, err)

	results, err := f.pipeline.UploadBatch(ctx, f.sess, &docs.ID, []File{textFile("notes.txt", 2048)})
	require.NoError(t, err)
	require.True(t, results[0].OK())

	children, err := f.entries.List(ctx, f.sess.OwnerID, &docs.ID)
	require.NoError(t, err)
	require.Len(t, children, 1)

	notes := children[0]
	assert.Equal(t, "notes.txt", notes.Name)
	assert.Equal(t, entry.KindFile, notes.Kind())
	require.NotNil(t, notes.File)
	assert.Equal(t, "text/plain", notes.File.MimeType)
	assert.Equal(t, int64(2048), notes.File.SizeBytes)
}

func TestObserverSeesEveryResult(t *testing.T) {
	var seen []Outcome
	f := newFixture(t, WithObserver(func(_ context.Context, _ uuid.UUID, _ *uuid.UUID, r Result) {
		seen = append(seen, r.Outcome)
	}))

	_, err := f.pipeline.UploadBatch(context.Background(), f.sess, nil, []File{
		textFile("a.txt", 1),
		{Name: "b.bin", MimeType: "application/zip", Size: 1, Content: strings.NewReader("x")},
	})
	require.NoError(t, err)

	assert.Equal(t, []Outcome{OutcomeUploaded, OutcomeUnsupportedType}, seen)
}

func TestIsAllowedType(t *testing.T) {
	tests := []struct {
		mime string
		want bool
	}{
		{"image/png", true},
		{"text/plain", true},
		{"text/plain; charset=utf-8", true},
		{"video/mp4", true},
		{"application/pdf", true},
		{"Application/PDF", false},
		{"IMAGE/PNG", false},
		{" image/png", false},
		{"application/pdf; x=y", false},
		{"application/pdfx", false},
		{"application/json", false},
		{"audio/mpeg", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.mime, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAllowedType(tt.mime))
		})
	}
}
