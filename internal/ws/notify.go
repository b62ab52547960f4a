package ws

import (
	"encoding/json"
	"time"
)

// RetrainEvent is the wire shape of one retrain lifecycle notification.
type RetrainEvent struct {
	Type       string         `json:"type"`
	Generation int64          `json:"generation,omitempty"`
	Samples    map[string]int `json:"samples_per_stage,omitempty"`
	Reason     string         `json:"reason,omitempty"`
	Timestamp  string         `json:"timestamp"`
}

const (
	EventRetrainStarted   = "retrain_started"
	EventRetrainCompleted = "retrain_completed"
	EventRetrainFailed    = "retrain_failed"
)

// Notifier publishes retrain lifecycle events through a hub.
type Notifier struct {
	hub *Hub
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub}
}

func (n *Notifier) RetrainStarted() {
	n.emit(RetrainEvent{Type: EventRetrainStarted})
}

func (n *Notifier) RetrainCompleted(generation int64, samples map[string]int) {
	n.emit(RetrainEvent{Type: EventRetrainCompleted, Generation: generation, Samples: samples})
}

func (n *Notifier) RetrainFailed(reason string) {
	n.emit(RetrainEvent{Type: EventRetrainFailed, Reason: reason})
}

func (n *Notifier) emit(evt RetrainEvent) {
	if n == nil || n.hub == nil {
		return
	}

	evt.Timestamp = time.Now().UTC().Format(time.RFC3339)
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	n.hub.Broadcast(b)
}
