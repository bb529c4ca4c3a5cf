package roster

import (
	"context"
	"sync"
)

type RepositoryStub struct {
	mu     sync.RWMutex
	groups map[int][]Group
	err    error
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{groups: make(map[int][]Group)}
}

func (r *RepositoryStub) GetGroups(_ context.Context, userId int) ([]Group, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.err != nil {
		return nil, r.err
	}
	groups, ok := r.groups[userId]
	if !ok {
		return []Group{}, nil
	}
	return cloneGroups(groups), nil
}

func (r *RepositoryStub) StoreGroups(_ context.Context, userId int, groups []Group) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.groups[userId] = cloneGroups(groups)
	return nil
}

func (r *RepositoryStub) SetError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

func cloneGroups(groups []Group) []Group {
	result := make([]Group, len(groups))
	for i, group := range groups {
		result[i] = Group{Name: group.Name, Users: append([]Member{}, group.Users...)}
	}
	return result
}
