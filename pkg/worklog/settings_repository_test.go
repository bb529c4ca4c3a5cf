package worklog

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jiraassist/dashboard/internal/test_utils"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

var pgContainer *postgres.PostgresContainer
var openDb func() *pgxpool.Pool

func TestMain(m *testing.M) {
	pgContainer, openDb = test_utils.TestWithDB()
	code := m.Run()
	if err := testcontainers.TerminateContainer(pgContainer); err != nil {
		log.Errorf("failed to terminate container: %s", err)
	}
	os.Exit(code)
}

func setupSettingsRepository(t *testing.T) (context.Context, *SettingsRepositoryImpl, int) {
	db := openDb()
	_, u := test_utils.InsertUser(t, db, "worklog_owner")
	t.Cleanup(func() {
		db.Close()
		require.NoError(t, pgContainer.Restore(context.Background()))
	})
	return context.Background(), NewSettingsRepository(db), u.Id
}

func TestSettingsRepositoryImpl(t *testing.T) {
	t.Run("should return defaults when nothing is stored", func(t *testing.T) {
		// given
		ctx, repo, userId := setupSettingsRepository(t)

		// when
		settings, err := repo.GetSettings(ctx, userId)

		// then
		require.NoError(t, err)
		assert.Equal(t, DefaultSettings(), settings)
	})

	t.Run("should overwrite stored settings", func(t *testing.T) {
		// given
		ctx, repo, userId := setupSettingsRepository(t)
		require.NoError(t, repo.StoreSettings(ctx, userId, Settings{JQL: "project = A", TimeZone: TimeZoneUser}))
		updated := Settings{JQL: "project = B", LogFormat: LogFormatClock, BreakupMode: BreakupComment, TimeZone: TimeZoneUTC}

		// when
		err := repo.StoreSettings(ctx, userId, updated)

		// then
		require.NoError(t, err)
		stored, err := repo.GetSettings(ctx, userId)
		require.NoError(t, err)
		assert.Equal(t, updated, stored)
	})
}
