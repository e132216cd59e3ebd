package model

import (
	"testing"
	"time"
)

func ts(s string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", s)
	if err != nil {
		panic(err)
	}
	return t
}

func testChat() *Chat {
	return &Chat{
		Source: "chat.txt",
		Messages: []Message{
			{Timestamp: ts("2024-01-01 10:00"), Sender: "Alice", Body: "one"},
			{Timestamp: ts("2024-01-02 10:00"), Sender: "Bob", Body: "two"},
			{Timestamp: ts("2024-01-03 10:00"), Body: "Alice added Carol", Kind: SystemMessage},
			{Timestamp: ts("2024-01-04 10:00"), Sender: "Alice", Body: "three"},
		},
	}
}

func TestFilter(t *testing.T) {
	chat := testChat()
	from := ts("2024-01-02 00:00")
	to := ts("2024-01-03 23:59")

	filtered := chat.Filter(&from, &to)
	if len(filtered.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(filtered.Messages))
	}
	if filtered.Messages[0].Body != "two" {
		t.Errorf("unexpected first message %q", filtered.Messages[0].Body)
	}

	// nil bounds mean unbounded.
	if got := chat.Filter(nil, nil); len(got.Messages) != 4 {
		t.Errorf("expected all messages, got %d", len(got.Messages))
	}
}

func TestSenders(t *testing.T) {
	senders := testChat().Senders()
	if len(senders) != 2 {
		t.Fatalf("expected 2 senders, got %v", senders)
	}
	if senders[0] != "Alice" || senders[1] != "Bob" {
		t.Errorf("expected first-seen order, got %v", senders)
	}
}

func TestLatest(t *testing.T) {
	chat := testChat()

	latest := chat.Latest(2)
	if len(latest) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(latest))
	}
	if latest[1].Body != "three" {
		t.Errorf("expected newest last, got %q", latest[1].Body)
	}

	if got := chat.Latest(10); len(got) != 4 {
		t.Errorf("expected clamp to chat size, got %d", len(got))
	}
	if got := chat.Latest(0); got != nil {
		t.Errorf("expected nil for n=0, got %v", got)
	}
}

func TestKindString(t *testing.T) {
	cases := map[Kind]string{
		TextMessage:   "text",
		MediaMessage:  "media",
		SystemMessage: "system",
	}
	for kind, want := range cases {
		if kind.String() != want {
			t.Errorf("Kind(%d).String() = %q, want %q", kind, kind.String(), want)
		}
	}
}
