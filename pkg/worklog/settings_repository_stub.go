package worklog

import (
	"context"
	"sync"
)

type SettingsRepositoryStub struct {
	mu       sync.RWMutex
	settings map[int]Settings
}

func NewSettingsRepositoryStub() *SettingsRepositoryStub {
	return &SettingsRepositoryStub{settings: make(map[int]Settings)}
}

func (r *SettingsRepositoryStub) GetSettings(_ context.Context, userId int) (Settings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	settings, ok := r.settings[userId]
	if !ok {
		return DefaultSettings(), nil
	}
	return settings, nil
}

func (r *SettingsRepositoryStub) StoreSettings(_ context.Context, userId int, settings Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings[userId] = settings
	return nil
}
