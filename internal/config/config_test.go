package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("should use defaults when file is missing", func(t *testing.T) {
		// when
		cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

		// then
		require.NoError(t, err)
		assert.Equal(t, ":8181", cfg.Server.Addr)
		assert.Equal(t, 8, cfg.Report.MaxHours)
		assert.Equal(t, "db", cfg.Report.Cache)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, 100, cfg.Jira.PageSize)
	})

	t.Run("should read yaml file over defaults", func(t *testing.T) {
		// given
		path := filepath.Join(t.TempDir(), "application.yaml")
		content := "jira:\n  url: https://jira.example.com\n  epicnamefield: customfield_10011\nreport:\n  maxhours: 6\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		// when
		cfg, err := Load(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, "https://jira.example.com", cfg.Jira.Url)
		assert.Equal(t, "customfield_10011", cfg.Jira.EpicNameField)
		assert.Equal(t, 6, cfg.Report.MaxHours)
		assert.Equal(t, "jiradash", cfg.Database.Name)
	})

	t.Run("should let environment override file", func(t *testing.T) {
		// given
		path := filepath.Join(t.TempDir(), "application.yaml")
		require.NoError(t, os.WriteFile(path, []byte("report:\n  cache: db\n"), 0644))
		t.Setenv("JIRADASH_REPORT_CACHE", "memory")
		t.Setenv("JIRADASH_DB_HOST", "postgres")

		// when
		cfg, err := Load(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, "memory", cfg.Report.Cache)
		assert.Equal(t, "postgres", cfg.Database.Host)
	})
}
