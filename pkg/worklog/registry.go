package worklog

import (
	"context"
	"fmt"
	"sync"

	"github.com/jiraassist/dashboard/internal/event_bus"
	"github.com/jiraassist/dashboard/pkg/reportcache"
	"github.com/jiraassist/dashboard/pkg/roster"
	"github.com/jiraassist/dashboard/pkg/user"
	log "github.com/sirupsen/logrus"
)

type gadgetKey struct {
	userId   int
	gadgetId string
}

// Registry keeps one Gadget per user and gadget id and keeps their rosters current.
type Registry struct {
	generator     Generator
	cache         reportcache.Cache[Snapshot]
	rosterService roster.Service
	eventBus      *event_bus.EventBus

	mu      sync.Mutex
	gadgets map[gadgetKey]*Gadget
}

func NewRegistry(generator Generator, cache reportcache.Cache[Snapshot], rosterService roster.Service, eventBus *event_bus.EventBus) *Registry {
	registry := &Registry{
		generator:     generator,
		cache:         cache,
		rosterService: rosterService,
		eventBus:      eventBus,
		gadgets:       make(map[gadgetKey]*Gadget),
	}
	event_bus.SubscribeTyped[event_bus.RosterUpdated](
		eventBus,
		event_bus.RosterChanged,
		func(e event_bus.EventT[event_bus.RosterUpdated]) error {
			log.Debugf("received roster updated event: %v", e.Data)
			return registry.reloadGroups(e.Context(), e.Data.UserId)
		},
	)
	return registry
}

// Get returns the gadget of the current user, creating it with the stored roster on first use.
func (r *Registry) Get(ctx context.Context, gadgetId string) (*Gadget, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	key := gadgetKey{userId: userId, gadgetId: gadgetId}

	r.mu.Lock()
	gadget, ok := r.gadgets[key]
	r.mu.Unlock()
	if ok {
		return gadget, nil
	}

	groups, err := r.rosterService.GetUserGroups(ctx)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.gadgets[key]; ok {
		return existing, nil
	}
	gadget = NewGadget(gadgetId, r.generator, r.cache, r.eventBus)
	gadget.SetGroups(groups)
	r.gadgets[key] = gadget
	return gadget, nil
}

func (r *Registry) reloadGroups(ctx context.Context, userId int) error {
	r.mu.Lock()
	var gadgets []*Gadget
	for key, gadget := range r.gadgets {
		if key.userId == userId {
			gadgets = append(gadgets, gadget)
		}
	}
	r.mu.Unlock()
	if len(gadgets) == 0 {
		return nil
	}

	groups, err := r.rosterService.GetUserGroups(ctx)
	if err != nil {
		log.Errorf("failed to reload roster of user %d: %v", userId, err)
		return err
	}
	for _, gadget := range gadgets {
		gadget.SetGroups(groups)
	}
	return nil
}
