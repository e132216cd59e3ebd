// Package session holds the one in-memory analysis per process. Each
// upload (or watch-mode re-parse) swaps the current chat and report;
// nothing survives the process.
package session

import (
	"sync"

	"github.com/waview/waview/internal/analyzer"
	"github.com/waview/waview/internal/model"
)

const subscriberBuffer = 4

// Holder guards the current chat/report pair and notifies subscribers
// whenever it is replaced.
type Holder struct {
	mu          sync.RWMutex
	chat        *model.Chat
	report      *analyzer.Report
	subscribers []chan struct{}
}

func New() *Holder {
	return &Holder{}
}

// Set replaces the current session and signals every subscriber. A
// subscriber with a full channel is skipped; Set never blocks.
func (h *Holder) Set(chat *model.Chat, report *analyzer.Report) {
	h.mu.Lock()
	h.chat = chat
	h.report = report
	subs := append([]chan struct{}(nil), h.subscribers...)
	h.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Report returns the current report, or nil when nothing has been
// uploaded yet.
func (h *Holder) Report() *analyzer.Report {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.report
}

// Chat returns the current chat, or nil.
func (h *Holder) Chat() *model.Chat {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.chat
}

// Subscribe returns a channel that receives a signal on every Set.
// Used by the websocket handler to push dashboard refreshes.
func (h *Holder) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, subscriberBuffer)
	h.mu.Lock()
	h.subscribers = append(h.subscribers, ch)
	h.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel returned by Subscribe.
func (h *Holder) Unsubscribe(ch <-chan struct{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, sub := range h.subscribers {
		if sub == ch {
			h.subscribers = append(h.subscribers[:i], h.subscribers[i+1:]...)
			close(sub)
			return
		}
	}
}
