package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForEvent(t *testing.T, events <-chan Event, path string) Event {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case ev := <-events:
			if ev.Path == path {
				return ev
			}
		case <-deadline:
			t.Fatalf("timed out waiting for event on %s", path)
		}
	}
}

func TestWatchMarkdownWrite(t *testing.T) {
	root := fixtureSite(t)
	store, err := Open(root)
	require.NoError(t, err)

	events := make(chan Event, 16)
	store.OnChange(func(ev Event) { events <- ev })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, store.Watch(ctx))

	target := filepath.Join(root, "source", "_posts", "first-post.md")
	require.NoError(t, os.WriteFile(target, []byte("---\ntitle: X\n---\nchanged\n"), 0o644))

	ev := waitForEvent(t, events, target)
	assert.Equal(t, EventUpdate, ev.Kind)
}

func TestWatchIgnoresNonMarkdown(t *testing.T) {
	root := fixtureSite(t)
	store, err := Open(root)
	require.NoError(t, err)

	events := make(chan Event, 16)
	store.OnChange(func(ev Event) { events <- ev })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, store.Watch(ctx))

	other := filepath.Join(root, "source", "about", "photo.jpg")
	require.NoError(t, os.WriteFile(other, []byte("new-bytes"), 0o644))

	select {
	case ev := <-events:
		t.Fatalf("unexpected event: %+v", ev)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatchNewDirectory(t *testing.T) {
	root := fixtureSite(t)
	store, err := Open(root)
	require.NoError(t, err)

	events := make(chan Event, 16)
	store.OnChange(func(ev Event) { events <- ev })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, store.Watch(ctx))

	dir := filepath.Join(root, "source", "_posts", "2026")
	require.NoError(t, os.Mkdir(dir, 0o755))
	// Give the watcher a beat to pick up the new directory.
	time.Sleep(200 * time.Millisecond)

	target := filepath.Join(dir, "new-post.md")
	require.NoError(t, os.WriteFile(target, []byte("---\ntitle: New\n---\nbody\n"), 0o644))

	ev := waitForEvent(t, events, target)
	assert.Equal(t, EventCreate, ev.Kind)
}
