package worklog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/jiraassist/dashboard/internal/rest"
	"github.com/jiraassist/dashboard/pkg/jira"
	"github.com/jiraassist/dashboard/pkg/roster"
	"github.com/jiraassist/dashboard/pkg/user"
	log "github.com/sirupsen/logrus"
)

type SettingsDTO struct {
	JQL         string `json:"jql"`
	LogFormat   string `json:"logFormat"`
	BreakupMode string `json:"breakupMode"`
	TimeZone    string `json:"timeZone"`
}

type DayTotalDTO struct {
	DateKey      string `json:"dateKey"`
	TotalSeconds int    `json:"totalSeconds"`
	Total        string `json:"total"`
	OverLimit    bool   `json:"overLimit,omitempty"`
}

type UserReportDTO struct {
	UserName     string        `json:"userName"`
	DisplayName  string        `json:"displayName"`
	EmailAddress string        `json:"emailAddress,omitempty"`
	GroupName    string        `json:"groupName"`
	TotalSeconds int           `json:"totalSeconds"`
	Total        string        `json:"total"`
	Days         []DayTotalDTO `json:"days"`
	Tickets      []TicketRow   `json:"tickets"`
}

type GroupReportDTO struct {
	Name         string        `json:"name"`
	TotalSeconds int           `json:"totalSeconds"`
	Total        string        `json:"total"`
	Days         []DayTotalDTO `json:"days"`
}

type ReportDTO struct {
	GeneratedAt    time.Time        `json:"generatedAt"`
	Restored       bool             `json:"restored"`
	DroppedEntries int              `json:"droppedEntries"`
	Days           []DateCell       `json:"days"`
	Months         []MonthBucket    `json:"months"`
	Groups         []GroupReportDTO `json:"groups"`
	Users          []UserReportDTO  `json:"users"`
	Total          DayTotalDTO      `json:"total"`
	FlatRows       []FlatRow        `json:"flatRows"`
}

type StateDTO struct {
	Loading    bool       `json:"loading"`
	Generation uint64     `json:"generation"`
	Report     *ReportDTO `json:"report,omitempty"`
}

type Handler struct {
	service  Service
	renderer Renderer
}

func NewHandler(service Service, renderer Renderer) *Handler {
	return &Handler{service: service, renderer: renderer}
}

// GenerateReport godoc
// @Summary Generate the user and day wise worklog report
// @Tags Worklog
// @Produce json,text/csv
// @Param gadgetId path string true "Gadget ID"
// @Param fromDate query string true "First day, YYYY-MM-DD"
// @Param toDate query string true "Last day, YYYY-MM-DD"
// @Success 200 {object} ReportDTO
// @Failure 400 {object} rest.ErrorResponse "Missing input"
// @Failure 409 {object} rest.ErrorResponse "Superseded by a newer request"
// @Failure 502 {object} rest.ErrorResponse "Jira search failed"
// @Router /api/gadgets/worklog/{gadgetId}/report [post]
// @Security XUserId
func (h *Handler) GenerateReport(w http.ResponseWriter, r *http.Request) {
	gadgetId := mux.Vars(r)["gadgetId"]
	fromDate, err := time.Parse(time.DateOnly, r.URL.Query().Get("fromDate"))
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid fromDate format", "fromDate must be in YYYY-MM-DD format")
		return
	}
	toDate, err := time.Parse(time.DateOnly, r.URL.Query().Get("toDate"))
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid toDate format", "toDate must be in YYYY-MM-DD format")
		return
	}

	report, err := h.service.GenerateReport(r.Context(), gadgetId, fromDate, toDate)
	if err != nil {
		writeReportError(w, err)
		return
	}
	settings, err := h.service.GetSettings(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if strings.Contains(r.Header.Get("Accept"), "text/csv") {
		csv, err := h.renderer.RenderFlatRows(report.FlatRows, settings.ClockFormat())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="User Daywise Worklogs.csv"`)
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(csv)); err != nil {
			log.Errorf("failed to write csv response: %v", err)
		}
		return
	}

	rest.WriteJSON(w, http.StatusOK, reportToDTO(report, settings, maxSecondsPerDay(r)))
}

// GetState godoc
// @Summary Get the worklog gadget state
// @Tags Worklog
// @Produce json
// @Param gadgetId path string true "Gadget ID"
// @Success 200 {object} StateDTO
// @Router /api/gadgets/worklog/{gadgetId} [get]
// @Security XUserId
func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	gadgetId := mux.Vars(r)["gadgetId"]
	state, err := h.service.GetGadgetState(r.Context(), gadgetId)
	if err != nil {
		log.Errorf("failed to get gadget state: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	settings, err := h.service.GetSettings(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dto := StateDTO{Loading: state.Loading, Generation: state.Generation}
	if state.Report != nil {
		report := reportToDTO(*state.Report, settings, maxSecondsPerDay(r))
		dto.Report = &report
	}
	rest.WriteJSON(w, http.StatusOK, dto)
}

// GetSettings godoc
// @Summary Get worklog gadget settings
// @Tags Worklog
// @Produce json
// @Success 200 {object} SettingsDTO
// @Router /api/gadgets/worklog/settings [get]
// @Security XUserId
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.service.GetSettings(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	rest.WriteJSON(w, http.StatusOK, settingsToDTO(settings))
}

// StoreSettings godoc
// @Summary Store worklog gadget settings
// @Tags Worklog
// @Accept json
// @Produce json
// @Param settings body SettingsDTO true "Settings"
// @Success 200 {object} SettingsDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Router /api/gadgets/worklog/settings [put]
// @Security XUserId
func (h *Handler) StoreSettings(w http.ResponseWriter, r *http.Request) {
	var dto SettingsDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return
	}
	stored, err := h.service.StoreSettings(r.Context(), Settings{
		JQL:         dto.JQL,
		LogFormat:   dto.LogFormat,
		BreakupMode: dto.BreakupMode,
		TimeZone:    dto.TimeZone,
	})
	if err != nil {
		if errors.Is(err, ErrInvalidSettings) {
			rest.WriteError(w, http.StatusBadRequest, "Invalid settings", err.Error())
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	rest.WriteJSON(w, http.StatusOK, settingsToDTO(stored))
}

func writeReportError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrMissingRoster):
		rest.WriteError(w, http.StatusBadRequest, "Missing input", err.Error())
	case errors.Is(err, ErrStaleReport):
		rest.WriteError(w, http.StatusConflict, "Report superseded", err.Error())
	case errors.Is(err, jira.ErrUnauthenticated):
		rest.WriteError(w, http.StatusForbidden, "Jira authentication required", err.Error())
	case errors.Is(err, ErrSearchFailed):
		rest.WriteError(w, http.StatusBadGateway, "Unable to fetch worklogs, please retry", err.Error())
	default:
		log.Errorf("failed to generate worklog report: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Failed to generate report", err.Error())
	}
}

func maxSecondsPerDay(r *http.Request) int {
	currentUser, err := user.CurrentUser(r.Context())
	if err != nil {
		return user.Settings{}.MaxSecondsPerDay()
	}
	return currentUser.Settings.MaxSecondsPerDay()
}

func settingsToDTO(settings Settings) SettingsDTO {
	return SettingsDTO{
		JQL:         settings.JQL,
		LogFormat:   settings.LogFormat,
		BreakupMode: settings.BreakupMode,
		TimeZone:    settings.TimeZone,
	}
}

func reportToDTO(report Report, settings Settings, maxSecsPerDay int) ReportDTO {
	clock := settings.ClockFormat()
	members := make(map[string]roster.User)
	for _, u := range roster.Users(report.Groups) {
		members[u.LookupKey()] = u
	}

	users := make([]UserReportDTO, 0, len(report.UserDayReports))
	for _, userReport := range report.UserDayReports {
		member, ok := members[userReport.UserName]
		if !ok {
			member = roster.User{Member: roster.Member{Name: userReport.UserName, DisplayName: userReport.UserName}}
		}
		days := make([]DayTotalDTO, 0, len(report.DateCells))
		for _, day := range DayTotals(userReport, report.DateCells, maxSecsPerDay) {
			days = append(days, dayTotalToDTO(day, clock))
		}
		users = append(users, UserReportDTO{
			UserName:     member.Name,
			DisplayName:  member.DisplayName,
			EmailAddress: member.EmailAddress,
			GroupName:    member.GroupName,
			TotalSeconds: userReport.TotalSeconds,
			Total:        FormatSeconds(userReport.TotalSeconds, clock),
			Days:         days,
			Tickets:      TicketBreakdown(userReport, settings.BreakupMode),
		})
	}

	groups := make([]GroupReportDTO, 0, len(report.Groups))
	for _, group := range report.Groups {
		total := GroupTotal(report.UserDayReports, report.Groups, group.Name, "")
		groups = append(groups, GroupReportDTO{
			Name:         group.Name,
			TotalSeconds: total,
			Total:        FormatSeconds(total, clock),
			Days:         groupDays(report, group.Name, clock),
		})
	}

	total := GroupTotal(report.UserDayReports, report.Groups, "", "")
	flatRows := report.FlatRows
	if flatRows == nil {
		flatRows = []FlatRow{}
	}
	return ReportDTO{
		GeneratedAt:    report.GeneratedAt,
		Restored:       report.Restored,
		DroppedEntries: report.DroppedEntries,
		Days:           report.DateCells,
		Months:         report.MonthBuckets,
		Groups:         groups,
		Users:          users,
		Total:          DayTotalDTO{TotalSeconds: total, Total: FormatSeconds(total, clock)},
		FlatRows:       flatRows,
	}
}

func groupDays(report Report, groupName string, clock bool) []DayTotalDTO {
	days := make([]DayTotalDTO, 0, len(report.DateCells))
	for _, day := range report.DateCells {
		seconds := GroupTotal(report.UserDayReports, report.Groups, groupName, day.DateKey)
		days = append(days, DayTotalDTO{DateKey: day.DateKey, TotalSeconds: seconds, Total: FormatSeconds(seconds, clock)})
	}
	return days
}

func dayTotalToDTO(day DayTotal, clock bool) DayTotalDTO {
	return DayTotalDTO{
		DateKey:      day.DateKey,
		TotalSeconds: day.TotalSeconds,
		Total:        FormatSeconds(day.TotalSeconds, clock),
		OverLimit:    day.OverLimit,
	}
}
