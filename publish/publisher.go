package publish

import (
	"context"
	"time"

	"signalfeed/types"
)

// Snapshot is the record emitted after every successful aggregation
type Snapshot struct {
	GeneratedAt time.Time      `json:"generatedAt"`
	Category    types.Category `json:"category,omitempty"`
	Count       int            `json:"count"`
	Signals     []types.Signal `json:"signals"`
}

// Key is the partition key of a snapshot: its category, or "all"
func (s Snapshot) Key() string {
	if s.Category == "" {
		return "all"
	}
	return string(s.Category)
}

// Publisher ships snapshots to downstream consumers
type Publisher interface {
	Publish(ctx context.Context, snap Snapshot) error
	Close() error
}

// Nop drops every snapshot; it is used when no broker is configured
type Nop struct{}

func (Nop) Publish(context.Context, Snapshot) error { return nil }
func (Nop) Close() error                            { return nil }
