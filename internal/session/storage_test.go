package session

import (
	"context"
	"testing"
	"time"

	"riskexplorer/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestStore(ttl time.Duration, limit int) (*UploadStore, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	store := NewUploadStore(ttl, limit)
	store.now = clock.now
	return store, clock
}

func TestPutGet(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(time.Hour, 10)

	token, err := store.Put(ctx, "heart.csv", []byte("1,2\n"))
	require.NoError(t, err)

	upload, err := store.Get(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "heart.csv", upload.Name)
	assert.Equal(t, []byte("1,2\n"), upload.Data)
}

func TestPutCopiesData(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(time.Hour, 10)

	data := []byte("1,2\n")
	token, err := store.Put(ctx, "a.csv", data)
	require.NoError(t, err)
	data[0] = '9'

	upload, err := store.Get(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "1,2\n", string(upload.Data))
}

func TestGetUnknownTokens(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(time.Hour, 10)

	for _, token := range []string{"", "not-a-uuid", "4d7f6a33-9a59-4a43-9c4b-0f6a9f1e2b1c"} {
		_, err := store.Get(ctx, token)
		assert.Equal(t, errors.CodeNotFound, errors.GetCode(err), token)
	}
}

func TestPutRejectsEmpty(t *testing.T) {
	_, err := NewUploadStore(time.Hour, 1).Put(context.Background(), "a.csv", nil)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestExpiry(t *testing.T) {
	ctx := context.Background()
	store, clock := newTestStore(time.Minute, 10)

	token, err := store.Put(ctx, "a.csv", []byte("x"))
	require.NoError(t, err)

	clock.advance(30 * time.Second)
	_, err = store.Get(ctx, token)
	require.NoError(t, err)

	clock.advance(time.Minute)
	_, err = store.Get(ctx, token)
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
}

func TestCleanupExpired(t *testing.T) {
	ctx := context.Background()
	store, clock := newTestStore(time.Minute, 10)

	_, err := store.Put(ctx, "a.csv", []byte("x"))
	require.NoError(t, err)
	clock.advance(45 * time.Second)
	_, err = store.Put(ctx, "b.csv", []byte("y"))
	require.NoError(t, err)

	clock.advance(30 * time.Second)
	assert.Equal(t, 1, store.CleanupExpired(ctx))
	assert.Equal(t, 1, store.Len())
}

func TestEvictsOldest(t *testing.T) {
	ctx := context.Background()
	store, clock := newTestStore(time.Hour, 2)

	first, err := store.Put(ctx, "a.csv", []byte("a"))
	require.NoError(t, err)
	clock.advance(time.Second)
	second, err := store.Put(ctx, "b.csv", []byte("b"))
	require.NoError(t, err)
	clock.advance(time.Second)
	third, err := store.Put(ctx, "c.csv", []byte("c"))
	require.NoError(t, err)

	assert.Equal(t, 2, store.Len())
	_, err = store.Get(ctx, first)
	assert.Error(t, err)
	for _, token := range []string{second, third} {
		_, err = store.Get(ctx, token)
		assert.NoError(t, err)
	}
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewUploadStore(time.Hour, 1).Put(ctx, "a.csv", []byte("x"))
	assert.ErrorIs(t, err, context.Canceled)
}
