package cart

import (
	"context"
	"encoding/json"
	"sync"
)

// Backend is the durable key-value slot a cart persists itself to.
// Load returns (nil, nil) when no snapshot exists for the key.
type Backend interface {
	Load(ctx context.Context, key string) ([]Line, error)
	Save(ctx context.Context, key string, lines []Line) error
}

// snapshot is the stored wire shape, kept versionable separately from
// the in-memory Line type.
type snapshot struct {
	Lines []Line `json:"lines"`
}

func encodeSnapshot(lines []Line) ([]byte, error) {
	return json.Marshal(snapshot{Lines: lines})
}

func decodeSnapshot(payload []byte) ([]Line, error) {
	var snap snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, err
	}
	if snap.Lines == nil {
		return []Line{}, nil
	}
	return snap.Lines, nil
}

// MemoryBackend keeps snapshots in process memory. Used by tests and as
// the no-durability default for local development.
type MemoryBackend struct {
	mu        sync.Mutex
	snapshots map[string][]byte
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{snapshots: map[string][]byte{}}
}

func (m *MemoryBackend) Load(_ context.Context, key string) ([]Line, error) {
	m.mu.Lock()
	payload, ok := m.snapshots[key]
	m.mu.Unlock()
	if !ok {
		return nil, nil
	}
	return decodeSnapshot(payload)
}

func (m *MemoryBackend) Save(_ context.Context, key string, lines []Line) error {
	payload, err := encodeSnapshot(lines)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.snapshots[key] = payload
	m.mu.Unlock()
	return nil
}
