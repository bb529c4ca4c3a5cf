package event_bus

const (
	// WorklogReportGenerated carries the worklog.Snapshot of a freshly generated report.
	WorklogReportGenerated EventType = "worklog.report.generated"
	// RosterChanged carries RosterUpdated after a user stored new groups.
	RosterChanged EventType = "roster.updated"
)

type RosterUpdated struct {
	UserId     int
	GroupNames []string
}
