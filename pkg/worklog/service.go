package worklog

import (
	"context"
	"fmt"
	"time"

	"github.com/jiraassist/dashboard/internal/event_bus"
	"github.com/jiraassist/dashboard/pkg/reportcache"
	"github.com/jiraassist/dashboard/pkg/user"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	GenerateReport(ctx context.Context, gadgetId string, from, to time.Time) (Report, error)
	// GetGadgetState returns the gadget state, restoring the last viewed report when the
	// gadget has none.
	GetGadgetState(ctx context.Context, gadgetId string) (State, error)
	GetSettings(ctx context.Context) (Settings, error)
	StoreSettings(ctx context.Context, settings Settings) (Settings, error)
}

type ServiceImpl struct {
	registry *Registry
	settings SettingsRepository
}

func NewService(registry *Registry, settings SettingsRepository, cache reportcache.Cache[Snapshot], eventBus *event_bus.EventBus) *ServiceImpl {
	service := &ServiceImpl{registry: registry, settings: settings}
	event_bus.SubscribeTyped[Snapshot](
		eventBus,
		event_bus.WorklogReportGenerated,
		func(e event_bus.EventT[Snapshot]) error {
			log.Debugf("caching report generated at %s", e.Data.GeneratedAt)
			if err := cache.Save(e.Context(), e.Data); err != nil {
				log.Errorf("failed to cache worklog report: %v", err)
				return err
			}
			return nil
		},
	)
	return service
}

func (s *ServiceImpl) GenerateReport(ctx context.Context, gadgetId string, from, to time.Time) (Report, error) {
	gadget, err := s.registry.Get(ctx, gadgetId)
	if err != nil {
		return Report{}, err
	}
	return gadget.Refresh(ctx, from, to)
}

func (s *ServiceImpl) GetGadgetState(ctx context.Context, gadgetId string) (State, error) {
	gadget, err := s.registry.Get(ctx, gadgetId)
	if err != nil {
		return State{}, err
	}
	if _, _, err := gadget.Restore(ctx); err != nil {
		log.Warnf("unable to restore last viewed report: %v", err)
	}
	return gadget.State(), nil
}

func (s *ServiceImpl) GetSettings(ctx context.Context) (Settings, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.settings.GetSettings(ctx, userId)
}

func (s *ServiceImpl) StoreSettings(ctx context.Context, settings Settings) (Settings, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if settings.TimeZone == "" {
		settings.TimeZone = TimeZoneUser
	}
	if err := settings.validate(); err != nil {
		return Settings{}, err
	}
	if err := s.settings.StoreSettings(ctx, userId, settings); err != nil {
		return Settings{}, err
	}
	return settings, nil
}
