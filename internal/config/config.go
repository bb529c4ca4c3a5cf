package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

const DefaultPath = "./config/application.yaml"

type Application struct {
	Host     string   `koanf:"host"`
	Server   Server   `koanf:"server"`
	Jira     Jira     `koanf:"jira"`
	Google   Google   `koanf:"google"`
	Database Database `koanf:"db"`
	Report   Report   `koanf:"report"`
}

type Server struct {
	Addr string `koanf:"addr"`
}

// Jira holds the instance the dashboard talks to. ClientId/ClientSecret enable the OAuth flow,
// Username/ApiToken are used by the CLI which has no per-user session.
type Jira struct {
	Url           string `koanf:"url"`
	ClientId      string `koanf:"clientid"`
	ClientSecret  string `koanf:"clientsecret"`
	Username      string `koanf:"username"`
	ApiToken      string `koanf:"apitoken"`
	EpicNameField string `koanf:"epicnamefield"`
	PageSize      int    `koanf:"pagesize"`
}

type Google struct {
	ApiKey            string `koanf:"apikey"`
	HolidayCalendarId string `koanf:"holidaycalendarid"`
}

type Database struct {
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	User   string `koanf:"user"`
	Pass   string `koanf:"pass"`
	Name   string `koanf:"name"`
	Schema string `koanf:"schema"`
}

type Report struct {
	MaxHours int `koanf:"maxhours"`
	// Cache selects where the last viewed report is kept: "db" or "memory".
	Cache string `koanf:"cache"`
}

func defaults() Application {
	return Application{
		Host: "http://localhost:8181",
		Server: Server{
			Addr: ":8181",
		},
		Jira: Jira{
			PageSize: 100,
		},
		Database: Database{
			Host:   "localhost",
			Port:   5432,
			User:   "jiradash",
			Pass:   "",
			Name:   "jiradash",
			Schema: "jiradash",
		},
		Report: Report{
			MaxHours: 8,
			Cache:    "db",
		},
	}
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(defaults(), "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: "JIRADASH_",
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "JIRADASH_")), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}
