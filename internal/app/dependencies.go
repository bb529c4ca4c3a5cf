package app

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jiraassist/dashboard/internal/config"
	"github.com/jiraassist/dashboard/internal/event_bus"
	"github.com/jiraassist/dashboard/internal/utils"
	"github.com/jiraassist/dashboard/pkg/holiday"
	"github.com/jiraassist/dashboard/pkg/jira"
	"github.com/jiraassist/dashboard/pkg/reportcache"
	"github.com/jiraassist/dashboard/pkg/roster"
	"github.com/jiraassist/dashboard/pkg/user"
	"github.com/jiraassist/dashboard/pkg/worklog"
	log "github.com/sirupsen/logrus"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	EventBus *event_bus.EventBus
	Clock    utils.Clock

	UserService user.Service
	UserHandler *user.Handler

	JiraAuth   *jira.Auth
	JiraClient jira.Client

	HolidayService holiday.Service

	RosterService *roster.ServiceImpl
	RosterHandler *roster.Handler

	ReportCache        reportcache.Cache[worklog.Snapshot]
	WorklogSettings    worklog.SettingsRepository
	WorklogGenerator   *worklog.ReportGenerator
	WorklogRegistry    *worklog.Registry
	WorklogService     *worklog.ServiceImpl
	WorklogCsvRenderer *worklog.CsvRendererImpl
	WorklogHandler     *worklog.Handler
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *pgxpool.Pool, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.EventBus = event_bus.NewEventBus()
	deps.Clock = &utils.SystemClock{}

	deps.UserService = user.NewUserService(user.NewUserRepo(db))
	deps.UserHandler = user.NewHandler(deps.UserService)

	deps.JiraAuth = jira.NewAuth(db, deps.UserService, cfg)
	deps.JiraClient = jira.NewClient(deps.JiraAuth, cfg.Jira.PageSize)

	deps.HolidayService = NewHolidayService(cfg.Google)

	deps.RosterService = roster.NewService(roster.NewRepository(db), deps.EventBus)
	deps.RosterHandler = roster.NewHandler(deps.RosterService)

	deps.ReportCache = NewReportCache(db, cfg.Report)
	deps.WorklogSettings = worklog.NewSettingsRepository(db)
	deps.WorklogGenerator = worklog.NewReportGenerator(deps.JiraClient, deps.HolidayService, deps.WorklogSettings, cfg.Jira.EpicNameField, deps.Clock)
	deps.WorklogRegistry = worklog.NewRegistry(deps.WorklogGenerator, deps.ReportCache, deps.RosterService, deps.EventBus)
	deps.WorklogService = worklog.NewService(deps.WorklogRegistry, deps.WorklogSettings, deps.ReportCache, deps.EventBus)
	deps.WorklogCsvRenderer = worklog.NewCsvRenderer()
	deps.WorklogHandler = worklog.NewHandler(deps.WorklogService, deps.WorklogCsvRenderer)

	return deps
}

// NewHolidayService uses the Google holiday calendars when an API key is configured, weekends only otherwise.
func NewHolidayService(cfg config.Google) *holiday.ServiceImpl {
	if cfg.ApiKey == "" {
		log.Info("Google API key not configured, holidays are limited to weekends")
		return holiday.NewService(nil, "")
	}
	return holiday.NewService(holiday.NewGoogleProvider(cfg.ApiKey), cfg.HolidayCalendarId)
}

func NewReportCache(db *pgxpool.Pool, cfg config.Report) reportcache.Cache[worklog.Snapshot] {
	if cfg.Cache == "memory" {
		log.Info("Keeping last viewed reports in memory")
		return reportcache.NewMemory[worklog.Snapshot]()
	}
	return reportcache.NewRepository[worklog.Snapshot](db)
}
