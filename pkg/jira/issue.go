package jira

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// timeLayout is the timestamp format of Jira REST API v2, e.g. 2024-01-01T10:00:00.000+0000.
const timeLayout = "2006-01-02T15:04:05.000-0700"

type Time struct {
	time.Time
}

func (t *Time) UnmarshalJSON(data []byte) error {
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	if value == "" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := time.Parse(timeLayout, value)
	if err != nil {
		parsed, err = time.Parse(time.RFC3339, value)
		if err != nil {
			return fmt.Errorf("invalid jira timestamp %q: %w", value, err)
		}
	}
	t.Time = parsed
	return nil
}

func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return json.Marshal("")
	}
	return json.Marshal(t.Format(timeLayout))
}

type Issue struct {
	Id     string      `json:"id"`
	Key    string      `json:"key"`
	Fields IssueFields `json:"fields"`
}

type IssueType struct {
	Name string `json:"name"`
}

type IssueRef struct {
	Key string `json:"key"`
}

type Project struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

type Author struct {
	Name        string `json:"name"`
	AccountId   string `json:"accountId"`
	DisplayName string `json:"displayName"`
}

type Worklog struct {
	Id               string `json:"id"`
	Author           Author `json:"author"`
	Started          Time   `json:"started"`
	Comment          string `json:"comment"`
	TimeSpentSeconds int    `json:"timeSpentSeconds"`
}

type WorklogPage struct {
	StartAt    int       `json:"startAt"`
	MaxResults int       `json:"maxResults"`
	Total      int       `json:"total"`
	Worklogs   []Worklog `json:"worklogs"`
}

// IssueFields holds the fields requested by a search. Custom fields are kept raw and read
// through Custom, since which ones are present depends on the instance configuration.
type IssueFields struct {
	Summary   string
	IssueType *IssueType
	Parent    *IssueRef
	Project   *Project
	Worklog   *WorklogPage
	custom    map[string]json.RawMessage
}

type knownFields struct {
	Summary   string       `json:"summary"`
	IssueType *IssueType   `json:"issuetype"`
	Parent    *IssueRef    `json:"parent"`
	Project   *Project     `json:"project"`
	Worklog   *WorklogPage `json:"worklog"`
}

func (f *IssueFields) UnmarshalJSON(data []byte) error {
	var known knownFields
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	f.Summary = known.Summary
	f.IssueType = known.IssueType
	f.Parent = known.Parent
	f.Project = known.Project
	f.Worklog = known.Worklog
	f.custom = make(map[string]json.RawMessage)
	for id, raw := range all {
		if strings.HasPrefix(id, "customfield_") {
			f.custom[id] = raw
		}
	}
	return nil
}

func (f IssueFields) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(f.custom)+5)
	for id, raw := range f.custom {
		out[id] = raw
	}
	out["summary"] = f.Summary
	out["issuetype"] = f.IssueType
	out["parent"] = f.Parent
	out["project"] = f.Project
	out["worklog"] = f.Worklog
	return json.Marshal(out)
}

// WithCustom returns a copy of f with the custom field id set to a string value.
func (f IssueFields) WithCustom(id string, value string) IssueFields {
	custom := make(map[string]json.RawMessage, len(f.custom)+1)
	for k, v := range f.custom {
		custom[k] = v
	}
	raw, _ := json.Marshal(value)
	custom[id] = raw
	f.custom = custom
	return f
}

// Custom returns the display value of a custom field. Plain strings are returned as they are;
// option and issue objects resolve to their value, name or key. Absent, null and empty fields
// report false.
func (f IssueFields) Custom(id string) (string, bool) {
	raw, ok := f.custom[id]
	if !ok || len(raw) == 0 || string(raw) == "null" {
		return "", false
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text, text != ""
	}

	var object struct {
		Value string `json:"value"`
		Name  string `json:"name"`
		Key   string `json:"key"`
	}
	if err := json.Unmarshal(raw, &object); err != nil {
		return "", false
	}
	for _, candidate := range []string{object.Value, object.Name, object.Key} {
		if candidate != "" {
			return candidate, true
		}
	}
	return "", false
}

// Worklogs returns the worklog entries of the issue, empty when the field was not fetched.
func (f IssueFields) Worklogs() []Worklog {
	if f.Worklog == nil {
		return nil
	}
	return f.Worklog.Worklogs
}

// TicketUrl returns the browse link of an issue key on the given Jira instance.
func TicketUrl(baseUrl string, key string) string {
	if key == "" {
		return ""
	}
	return strings.TrimRight(baseUrl, "/") + "/browse/" + key
}

// ProjectPrefix returns the part of an issue key before the first dash.
func ProjectPrefix(key string) string {
	prefix, _, _ := strings.Cut(key, "-")
	return prefix
}
