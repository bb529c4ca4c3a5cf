package roster

import "strings"

// Member is a Jira user shown in the report. Name is the Jira login used in JQL.
type Member struct {
	Name         string
	DisplayName  string
	EmailAddress string
}

type Group struct {
	Name  string
	Users []Member
}

// User is a Member together with the group it was listed in.
type User struct {
	Member
	GroupName string
}

// LookupKey is the key a user is matched on against worklog authors.
func (m Member) LookupKey() string {
	return strings.ToLower(m.Name)
}

// Users flattens groups in group order then member order. A user listed in several groups
// is returned once, attributed to the first group.
func Users(groups []Group) []User {
	seen := make(map[string]struct{})
	var users []User
	for _, group := range groups {
		for _, member := range group.Users {
			key := member.LookupKey()
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			users = append(users, User{Member: member, GroupName: group.Name})
		}
	}
	return users
}

// Names returns the Jira names of the users, in order.
func Names(users []User) []string {
	names := make([]string, 0, len(users))
	for _, u := range users {
		names = append(names, u.Name)
	}
	return names
}
