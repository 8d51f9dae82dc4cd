package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/pkg/domain"
)

// allMachines is the subscription key that receives every event.
const allMachines = "*"

// StreamManager fans run lifecycle events out to SSE subscribers.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{} // machine ID -> set of channels
	logger      *slog.Logger
}

// NewStreamManager creates an empty StreamManager.
func NewStreamManager(logger *slog.Logger) *StreamManager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
		logger:      logger,
	}
}

// Subscribe registers a channel for events of machineID ("" means all).
// The returned function unsubscribes and closes the channel.
func (sm *StreamManager) Subscribe(machineID string) (chan string, func()) {
	if machineID == "" {
		machineID = allMachines
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	if _, ok := sm.subscribers[machineID]; !ok {
		sm.subscribers[machineID] = make(map[chan<- string]struct{})
	}
	sm.subscribers[machineID][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[machineID]; ok {
			if _, ok := subs[ch]; !ok {
				return
			}
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, machineID)
			}
		}
	}
}

// Broadcast delivers msg to subscribers of machineID and of all machines.
// Slow subscribers drop messages instead of blocking runs.
func (sm *StreamManager) Broadcast(machineID string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	keys := []string{allMachines}
	if machineID != "" && machineID != allMachines {
		keys = append(keys, machineID)
	}
	for _, key := range keys {
		for ch := range sm.subscribers[key] {
			select {
			case ch <- msg:
			default:
				sm.logger.Warn("SSE: Client buffer full, dropping message", "machine_id", machineID)
			}
		}
	}
}

// Hooks returns lifecycle hooks that broadcast every run event as JSON.
func (sm *StreamManager) Hooks() domain.LifecycleHooks {
	publish := func(_ context.Context, ev *domain.RunEvent) {
		data, err := json.Marshal(ev)
		if err != nil {
			sm.logger.Error("SSE: event encode failed", "err", err)
			return
		}
		sm.Broadcast(ev.MachineID, string(data))
	}
	return domain.LifecycleHooks{OnRunStart: publish, OnRunHalt: publish}
}

// SubscribeEvents handles GET /events (SSE). The optional machine_id query
// parameter filters events by machine.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	machineID := r.URL.Query().Get("machine_id")
	ch, cancel := s.Streams.Subscribe(machineID)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.Logger.Debug("SSE client disconnected", "machine_id", machineID)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
