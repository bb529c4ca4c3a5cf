package reportcache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/jiraassist/dashboard/pkg/user"
	log "github.com/sirupsen/logrus"
)

// LastViewedSlot is the slot holding the most recently viewed day-wise report.
const LastViewedSlot = "lastViewed_DayWiseRpt"

// Cache keeps a single value per user, last write wins. Values are stored in their JSON form,
// so a restored value never shares memory with the saved one. Times come back as the same
// instant with a fixed offset zone; callers owning a zone name put them back into it.
type Cache[T any] interface {
	Save(ctx context.Context, value T) error
	// Restore returns false when nothing was saved yet.
	Restore(ctx context.Context) (T, bool, error)
}

// Memory is a process-local Cache. Requests without a user share the anonymous slot.
type Memory[T any] struct {
	mu    sync.RWMutex
	slots map[int][]byte
}

func NewMemory[T any]() *Memory[T] {
	return &Memory[T]{slots: make(map[int][]byte)}
}

func (m *Memory[T]) Save(ctx context.Context, value T) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("unable to encode %s: %w", LastViewedSlot, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[slotOwner(ctx)] = payload
	return nil
}

func (m *Memory[T]) Restore(ctx context.Context) (T, bool, error) {
	var value T
	m.mu.RLock()
	payload, ok := m.slots[slotOwner(ctx)]
	m.mu.RUnlock()
	if !ok {
		return value, false, nil
	}
	if err := json.Unmarshal(payload, &value); err != nil {
		return value, false, fmt.Errorf("unable to decode %s: %w", LastViewedSlot, err)
	}
	return value, true, nil
}

func slotOwner(ctx context.Context) int {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		log.Trace("no user in context, using anonymous cache slot")
		return 0
	}
	return userId
}
