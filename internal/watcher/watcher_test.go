package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/waview/waview/internal/session"
)

func TestWatcherDetectsWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chat.txt")
	if err := os.WriteFile(path, []byte("1/1/24, 10:00 - Alice: Hello\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := New([]string{path}, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if len(w.Paths()) != 1 {
		t.Fatalf("expected 1 watched path, got %d", len(w.Paths()))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	// Give the watcher a moment to arm before writing.
	time.Sleep(100 * time.Millisecond)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	f.WriteString("1/1/24, 10:01 - Bob: Hi\n")
	f.Close()

	select {
	case ev := <-w.Events:
		if ev.Path != path {
			t.Errorf("unexpected event path %q", ev.Path)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no event after write")
	}
}

func TestWatcherNoMatch(t *testing.T) {
	w, err := New([]string{filepath.Join(t.TempDir(), "missing-*.txt")}, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if len(w.Paths()) != 0 {
		t.Errorf("expected no watched paths, got %v", w.Paths())
	}
}

func TestReloadDebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chat.txt")
	if err := os.WriteFile(path, []byte("1/1/24, 10:00 - Alice: Hello\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w := &Watcher{Events: make(chan Event, 64), log: zerolog.Nop()}
	holder := session.New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Reload(ctx, holder)

	// A burst of writes spaced inside the debounce window must collapse
	// to a single re-parse, and only after the window has elapsed.
	for i := 0; i < 5; i++ {
		w.Events <- Event{Path: path}
		time.Sleep(debounce / 3)
	}
	if holder.Report() != nil {
		t.Fatal("session swapped before the debounce window elapsed")
	}

	deadline := time.After(2 * time.Second)
	for holder.Report() == nil {
		select {
		case <-deadline:
			t.Fatal("no re-parse after the burst settled")
		case <-time.After(20 * time.Millisecond):
		}
	}
	if got := holder.Report().Overview.TotalMessages; got != 1 {
		t.Errorf("expected 1 message, got %d", got)
	}
}

func TestReparseSwapsSession(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chat.txt")
	if err := os.WriteFile(path, []byte("1/1/24, 10:00 - Alice: Hello\n1/1/24, 10:01 - Bob: Hi\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w := &Watcher{log: zerolog.Nop()}
	holder := session.New()

	w.reparse(path, holder)

	report := holder.Report()
	if report == nil {
		t.Fatal("expected a report after reparse")
	}
	if report.Overview.TotalMessages != 2 {
		t.Errorf("expected 2 messages, got %d", report.Overview.TotalMessages)
	}
}

func TestReparseKeepsSessionOnBadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("just prose, no export\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w := &Watcher{log: zerolog.Nop()}
	holder := session.New()
	w.reparse(path, holder)

	if holder.Report() != nil {
		t.Error("a failed re-parse must not install a session")
	}
}
