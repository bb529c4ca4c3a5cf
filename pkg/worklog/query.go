package worklog

import (
	"strings"
	"time"
)

var defaultFields = []string{"summary", "worklog", "issuetype", "parent", "project"}

type Query struct {
	JQL    string
	Fields []string
}

// BuildQuery selects issues with worklogs of the given users. The date condition is widened
// by one day on both sides; entries are filtered to the exact days after fetching.
func BuildQuery(users []string, from, to time.Time, filter string, epicNameField string) Query {
	quoted := make([]string, 0, len(users))
	for _, u := range users {
		quoted = append(quoted, "'"+escapeJQL(u)+"'")
	}

	var jql strings.Builder
	jql.WriteString("worklogAuthor in (")
	jql.WriteString(strings.Join(quoted, ","))
	jql.WriteString(") and worklogDate >= '")
	jql.WriteString(from.AddDate(0, 0, -1).Format(time.DateOnly))
	jql.WriteString("' and worklogDate < '")
	jql.WriteString(to.AddDate(0, 0, 1).Format(time.DateOnly))
	jql.WriteString("'")
	if filter = strings.TrimSpace(filter); filter != "" {
		jql.WriteString(" AND (" + filter + ")")
	}

	fields := append([]string{}, defaultFields...)
	if epicNameField != "" {
		fields = append(fields, epicNameField)
	}
	return Query{JQL: jql.String(), Fields: fields}
}

func escapeJQL(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	return strings.ReplaceAll(value, "'", `\'`)
}
