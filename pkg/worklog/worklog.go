package worklog

import (
	"errors"
	"time"

	"github.com/jiraassist/dashboard/internal/utils"
	"github.com/jiraassist/dashboard/pkg/roster"
)

var (
	// ErrMissingRoster is returned when a report is requested before any user was added.
	ErrMissingRoster = errors.New("user list need to be added before generating report")
	// ErrSearchFailed wraps failures of the Jira search.
	ErrSearchFailed = errors.New("worklog search failed")
	// ErrUnmatchedRosterLookup means a roster user has no report, which generation never produces.
	ErrUnmatchedRosterLookup = errors.New("no report for roster user")
	// ErrStaleReport is returned for a report superseded by a newer request of the same gadget.
	ErrStaleReport = errors.New("report superseded by a newer request")
)

const (
	dateKeyLayout    = "20060102"
	dayLabelLayout   = "Mon, 02"
	monthLabelLayout = "Jan, 2006"
)

type DateCell struct {
	DateKey      string    `json:"dateKey"`
	DisplayLabel string    `json:"displayLabel"`
	Date         time.Time `json:"date"`
	IsHoliday    bool      `json:"isHoliday"`
}

type MonthBucket struct {
	MonthLabel string `json:"monthLabel"`
	DayCount   int    `json:"dayCount"`
}

type DateRange struct {
	Days   []DateCell    `json:"days"`
	Months []MonthBucket `json:"months"`
}

// Entry is a single worklog attributed to a roster user.
type Entry struct {
	TicketKey    string    `json:"ticketKey"`
	EpicDisplay  string    `json:"epicDisplay,omitempty"`
	EpicUrl      string    `json:"epicUrl,omitempty"`
	TicketUrl    string    `json:"ticketUrl"`
	IssueType    string    `json:"issueType"`
	ParentKey    string    `json:"parentKey,omitempty"`
	Summary      string    `json:"summary"`
	LoggedAt     time.Time `json:"loggedAt"`
	Comment      string    `json:"comment,omitempty"`
	ProjectName  string    `json:"projectName"`
	ProjectKey   string    `json:"projectKey"`
	TotalSeconds int       `json:"totalSeconds"`
}

func (e Entry) DateKey() string {
	return e.LoggedAt.Format(dateKeyLayout)
}

// UserDayReport holds the entries of one roster user. UserName is the lowercased Jira name.
type UserDayReport struct {
	UserName     string  `json:"userName"`
	LogEntries   []Entry `json:"logEntries"`
	TotalSeconds int     `json:"totalSeconds"`
}

type FlatRow struct {
	GroupName   string    `json:"groupName"`
	UserDisplay string    `json:"userDisplay"`
	ParentKey   string    `json:"parentKey,omitempty"`
	ParentUrl   string    `json:"parentUrl,omitempty"`
	EpicDisplay string    `json:"epicDisplay,omitempty"`
	EpicUrl     string    `json:"epicUrl,omitempty"`
	TicketKey   string    `json:"ticketKey"`
	TicketUrl   string    `json:"ticketUrl"`
	IssueType   string    `json:"issueType"`
	Summary     string    `json:"summary"`
	ProjectKey  string    `json:"projectKey"`
	ProjectName string    `json:"projectName"`
	LoggedAt    time.Time `json:"loggedAt"`
	TimeSpent   int       `json:"timeSpent"`
	Comment     string    `json:"comment,omitempty"`
}

// Snapshot is what is kept of the last viewed report.
type Snapshot struct {
	DateCells      []DateCell      `json:"dateCells"`
	MonthBuckets   []MonthBucket   `json:"monthBuckets"`
	UserDayReports []UserDayReport `json:"userDayReports"`
	GeneratedAt    time.Time       `json:"generatedAt"`
	// Zone is the name of the location the dates and entries were built in.
	Zone string `json:"zone"`
}

// inZone moves the dates and entries of a decoded snapshot back into its named zone, as
// decoding leaves them with a fixed offset. It modifies the snapshot in place.
func (s Snapshot) inZone() Snapshot {
	loc := utils.LoadLocation(s.Zone)
	for i := range s.DateCells {
		s.DateCells[i].Date = s.DateCells[i].Date.In(loc)
	}
	for i := range s.UserDayReports {
		entries := s.UserDayReports[i].LogEntries
		for j := range entries {
			entries[j].LoggedAt = entries[j].LoggedAt.In(loc)
		}
	}
	return s
}

type Report struct {
	Snapshot
	// Groups is the roster the report was built for.
	Groups         []roster.Group `json:"-"`
	FlatRows       []FlatRow      `json:"flatRows"`
	DroppedEntries int            `json:"droppedEntries"`
	// Restored is set for reports read back from the cache instead of generated.
	Restored bool `json:"restored"`
}
