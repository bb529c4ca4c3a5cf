package test_utils

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jiraassist/dashboard/pkg/user"
	"github.com/stretchr/testify/require"
)

// TestUser returns a user with settings used across service tests.
func TestUser(id int) user.User {
	return user.User{
		Id:          id,
		Uid:         uuid.NewString(),
		Username:    "test_user",
		DisplayName: "Test User",
		Settings: user.Settings{
			Timezone:       "Europe/Warsaw",
			MaxHoursPerDay: 8,
			JiraUrl:        "https://jira.example.com",
			WorkingDays:    []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
		},
	}
}

// ContextWithUser returns a background context carrying TestUser(id).
func ContextWithUser(id int) context.Context {
	return user.WithUser(context.Background(), TestUser(id))
}

// InsertUser stores a user row so that tables referencing users can be written, and returns a
// context carrying the stored user.
func InsertUser(t *testing.T, db *pgxpool.Pool, username string) (context.Context, user.User) {
	t.Helper()
	ctx := context.Background()
	u := TestUser(0)
	u.Username = username
	id, err := user.NewUserRepo(db).CreateUser(ctx, u)
	require.NoError(t, err)
	u.Id = id
	return user.WithUser(ctx, u), u
}
