package worklog

import (
	"time"

	"github.com/jiraassist/dashboard/pkg/jira"
)

const testJiraUrl = "https://jira.example.com"

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func jiraWorklog(author string, started time.Time, seconds int) jira.Worklog {
	return jira.Worklog{
		Author:           jira.Author{Name: author, DisplayName: author},
		Started:          jira.Time{Time: started},
		TimeSpentSeconds: seconds,
	}
}

func jiraIssue(key string, worklogs ...jira.Worklog) jira.Issue {
	return jira.Issue{
		Key: key,
		Fields: jira.IssueFields{
			Summary:   "Summary of " + key,
			IssueType: &jira.IssueType{Name: "Task"},
			Project:   &jira.Project{Key: jira.ProjectPrefix(key), Name: "Project " + jira.ProjectPrefix(key)},
			Worklog:   &jira.WorklogPage{Total: len(worklogs), MaxResults: len(worklogs), Worklogs: worklogs},
		},
	}
}
