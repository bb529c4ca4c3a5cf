package roster

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jiraassist/dashboard/internal/event_bus"
	"github.com/jiraassist/dashboard/pkg/user"
	log "github.com/sirupsen/logrus"
)

var ErrInvalidGroups = errors.New("invalid user groups")

type Service interface {
	GetUserGroups(ctx context.Context) ([]Group, error)
	StoreUserGroups(ctx context.Context, groups []Group) ([]Group, error)
}

type ServiceImpl struct {
	repo     Repository
	eventBus *event_bus.EventBus
}

func NewService(repo Repository, eventBus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{repo: repo, eventBus: eventBus}
}

func (s *ServiceImpl) GetUserGroups(ctx context.Context) ([]Group, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.GetGroups(ctx, userId)
}

// StoreUserGroups replaces all groups of the current user and announces the change.
func (s *ServiceImpl) StoreUserGroups(ctx context.Context, groups []Group) ([]Group, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}

	normalized, err := normalize(groups)
	if err != nil {
		return nil, err
	}
	if err := s.repo.StoreGroups(ctx, userId, normalized); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(normalized))
	for _, group := range normalized {
		names = append(names, group.Name)
	}
	if s.eventBus != nil {
		event := event_bus.NewEvent(ctx, event_bus.RosterChanged, event_bus.RosterUpdated{UserId: userId, GroupNames: names})
		if err := s.eventBus.Publish(event); err != nil {
			log.Warnf("roster change not fully propagated: %v", err)
		}
	}
	return normalized, nil
}

func normalize(groups []Group) ([]Group, error) {
	groupNames := make(map[string]struct{}, len(groups))
	result := make([]Group, 0, len(groups))
	for _, group := range groups {
		name := strings.TrimSpace(group.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: group name is required", ErrInvalidGroups)
		}
		if _, ok := groupNames[strings.ToLower(name)]; ok {
			return nil, fmt.Errorf("%w: duplicate group %q", ErrInvalidGroups, name)
		}
		groupNames[strings.ToLower(name)] = struct{}{}

		members := make([]Member, 0, len(group.Users))
		memberNames := make(map[string]struct{}, len(group.Users))
		for _, member := range group.Users {
			member.Name = strings.TrimSpace(member.Name)
			member.DisplayName = strings.TrimSpace(member.DisplayName)
			member.EmailAddress = strings.TrimSpace(member.EmailAddress)
			if member.Name == "" {
				return nil, fmt.Errorf("%w: user name is required in group %q", ErrInvalidGroups, name)
			}
			if _, ok := memberNames[member.LookupKey()]; ok {
				return nil, fmt.Errorf("%w: user %q listed twice in group %q", ErrInvalidGroups, member.Name, name)
			}
			memberNames[member.LookupKey()] = struct{}{}
			if member.DisplayName == "" {
				member.DisplayName = member.Name
			}
			members = append(members, member)
		}
		result = append(result, Group{Name: name, Users: members})
	}
	return result, nil
}
