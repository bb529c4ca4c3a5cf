package worklog

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jiraassist/dashboard/internal/event_bus"
	"github.com/jiraassist/dashboard/pkg/reportcache"
	"github.com/jiraassist/dashboard/pkg/roster"
	log "github.com/sirupsen/logrus"
)

type State struct {
	Loading    bool
	Generation uint64
	Groups     []roster.Group
	Report     *Report
}

// Gadget holds the state of one worklog gadget. Every Refresh takes a new generation; a
// response is applied only while its generation is the latest, so out of order responses
// never overwrite a newer report.
type Gadget struct {
	id        string
	generator Generator
	cache     reportcache.Cache[Snapshot]
	eventBus  *event_bus.EventBus

	mu         sync.Mutex
	groups     []roster.Group
	loading    bool
	generation uint64
	report     *Report
}

func NewGadget(id string, generator Generator, cache reportcache.Cache[Snapshot], eventBus *event_bus.EventBus) *Gadget {
	return &Gadget{id: id, generator: generator, cache: cache, eventBus: eventBus}
}

func (g *Gadget) SetGroups(groups []roster.Group) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.groups = groups
}

func (g *Gadget) Refresh(ctx context.Context, from, to time.Time) (Report, error) {
	g.mu.Lock()
	if len(roster.Users(g.groups)) == 0 {
		g.mu.Unlock()
		log.Warnf("gadget %s: %v", g.id, ErrMissingRoster)
		return Report{}, ErrMissingRoster
	}
	g.generation++
	generation := g.generation
	g.loading = true
	groups := g.groups
	g.mu.Unlock()

	report, err := g.generator.Generate(ctx, groups, from, to)

	g.mu.Lock()
	if generation != g.generation {
		g.mu.Unlock()
		log.Debugf("gadget %s: discarding report of generation %d", g.id, generation)
		return Report{}, ErrStaleReport
	}
	g.loading = false
	if err != nil {
		g.mu.Unlock()
		return Report{}, err
	}
	g.report = &report
	g.mu.Unlock()

	if g.eventBus != nil {
		if err := g.eventBus.Publish(event_bus.NewEvent(ctx, event_bus.WorklogReportGenerated, report.Snapshot)); err != nil {
			log.Warnf("gadget %s: report generated but not cached: %v", g.id, err)
		}
	}
	return report, nil
}

// Restore returns the current report, falling back to the last viewed one when nothing was
// generated by this gadget yet. It returns false when neither exists.
func (g *Gadget) Restore(ctx context.Context) (Report, bool, error) {
	g.mu.Lock()
	if g.report != nil {
		report := *g.report
		g.mu.Unlock()
		return report, true, nil
	}
	groups := g.groups
	g.mu.Unlock()

	if g.cache == nil {
		return Report{}, false, nil
	}
	snapshot, ok, err := g.cache.Restore(ctx)
	if err != nil || !ok {
		return Report{}, false, err
	}
	snapshot = snapshot.inZone()

	report := Report{Snapshot: snapshot, Groups: groups, FlatRows: []FlatRow{}, Restored: true}
	flat, err := g.generator.Flatten(ctx, groups, snapshot.UserDayReports)
	if err != nil {
		if !errors.Is(err, ErrUnmatchedRosterLookup) {
			return Report{}, false, err
		}
		// the roster changed after the snapshot was taken
		log.Warnf("gadget %s: restored report without flat rows: %v", g.id, err)
	} else {
		report.FlatRows = flat
	}

	g.mu.Lock()
	if g.report == nil {
		g.report = &report
	}
	g.mu.Unlock()
	return report, true, nil
}

func (g *Gadget) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	state := State{Loading: g.loading, Generation: g.generation, Groups: g.groups}
	if g.report != nil {
		report := *g.report
		state.Report = &report
	}
	return state
}
