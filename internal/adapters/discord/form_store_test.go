package discord

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gdbot/internal/domain/form"
)

type stepClock struct{ now time.Time }

func (c *stepClock) Now() time.Time { return c.now }

func TestFormStore_Lifecycle(t *testing.T) {
	clock := &stepClock{now: time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)}
	store := NewFormStore(10*time.Minute, clock.Now)

	sid := store.Open(form.New())
	require.NotEmpty(t, sid)
	assert.Equal(t, 1, store.Len())

	st, ok := store.Get(sid)
	require.True(t, ok)
	st = form.Reduce(st, form.SetPlace{Place: "Zoom"})
	require.True(t, store.Put(sid, st))

	clock.now = clock.now.Add(9 * time.Minute)
	got, ok := store.Get(sid)
	require.True(t, ok)
	assert.Equal(t, "Zoom", got.Values.Place)

	// The last access extended the lifetime.
	clock.now = clock.now.Add(9 * time.Minute)
	_, ok = store.Get(sid)
	assert.True(t, ok)

	clock.now = clock.now.Add(10 * time.Minute)
	_, ok = store.Get(sid)
	assert.False(t, ok)
	assert.False(t, store.Put(sid, st))
	assert.Equal(t, 0, store.Len())
}

func TestFormStore_Evict(t *testing.T) {
	clock := &stepClock{now: time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)}
	store := NewFormStore(10*time.Minute, clock.Now)

	old := store.Open(form.New())
	clock.now = clock.now.Add(5 * time.Minute)
	fresh := store.Open(form.New())
	clock.now = clock.now.Add(5 * time.Minute)

	assert.Equal(t, 1, store.Evict())
	_, ok := store.Get(old)
	assert.False(t, ok)
	_, ok = store.Get(fresh)
	assert.True(t, ok)
}

func TestFormStore_Close(t *testing.T) {
	store := NewFormStore(0, nil)
	sid := store.Open(form.New())
	store.Close(sid)
	_, ok := store.Get(sid)
	assert.False(t, ok)
}
