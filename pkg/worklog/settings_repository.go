package worklog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

type SettingsRepository interface {
	// GetSettings returns DefaultSettings when the user never stored any.
	GetSettings(ctx context.Context, userId int) (Settings, error)
	StoreSettings(ctx context.Context, userId int, settings Settings) error
}

type SettingsRepositoryImpl struct {
	db *pgxpool.Pool
}

func NewSettingsRepository(db *pgxpool.Pool) *SettingsRepositoryImpl {
	return &SettingsRepositoryImpl{db: db}
}

func (r *SettingsRepositoryImpl) GetSettings(ctx context.Context, userId int) (Settings, error) {
	var settings Settings
	err := r.db.QueryRow(ctx, "SELECT jql, log_format, breakup_mode, time_zone FROM worklog_settings WHERE user_id = $1", userId).
		Scan(&settings.JQL, &settings.LogFormat, &settings.BreakupMode, &settings.TimeZone)
	if errors.Is(err, pgx.ErrNoRows) {
		return DefaultSettings(), nil
	}
	if err != nil {
		err := fmt.Errorf("could not read worklog settings: %w", err)
		log.Error(err)
		return Settings{}, err
	}
	return settings, nil
}

func (r *SettingsRepositoryImpl) StoreSettings(ctx context.Context, userId int, settings Settings) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO worklog_settings (user_id, jql, log_format, breakup_mode, time_zone) VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (user_id) DO UPDATE SET jql = EXCLUDED.jql, log_format = EXCLUDED.log_format,
			breakup_mode = EXCLUDED.breakup_mode, time_zone = EXCLUDED.time_zone`,
		userId, settings.JQL, settings.LogFormat, settings.BreakupMode, settings.TimeZone)
	if err != nil {
		err := fmt.Errorf("could not store worklog settings: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

var errFixedSettings = errors.New("fixed worklog settings cannot be changed")

// FixedSettings serves the same settings to every user, for runs without a database.
type FixedSettings struct {
	Settings Settings
}

func (f FixedSettings) GetSettings(_ context.Context, _ int) (Settings, error) {
	return f.Settings, nil
}

func (f FixedSettings) StoreSettings(_ context.Context, _ int, _ Settings) error {
	return errFixedSettings
}
