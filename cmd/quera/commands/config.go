package commands

import (
	"time"

	"queracli/internal/components/telemetry"
	"queracli/internal/scrapers/quera"
)

const DEFAULT_CONFIG_PATH = "~/.quera/config.json5"

type DbConfig struct {
	File string `json:"file"`
	// Url points to a remote libsql database, it takes precedence over File.
	Url       string `json:"url"`
	AuthToken string `json:"auth_token"`
}

type HttpConfig struct {
	TimeoutSeconds          int     `json:"timeout_seconds"`
	RequestsPerSecond       float64 `json:"requests_per_second"`
	DisableCloudflareBypass bool    `json:"disable_cloudflare_bypass"`
}

type Config struct {
	BaseUrl   string           `json:"base_url"`
	Profile   string           `json:"profile"`
	Db        DbConfig         `json:"db"`
	Http      HttpConfig       `json:"http"`
	Telemetry telemetry.Config `json:"telemetry"`
}

func defaultConfig() Config {
	return Config{
		BaseUrl: quera.DEFAULT_BASE_URL,
		Profile: "default",
		Db: DbConfig{
			File: "~/.quera/quera.db",
		},
		Http: HttpConfig{
			TimeoutSeconds:    30,
			RequestsPerSecond: 2,
		},
	}
}

func (c Config) scraperOptions() quera.Options {
	return quera.Options{
		BaseUrl:           c.BaseUrl,
		Timeout:           time.Duration(c.Http.TimeoutSeconds) * time.Second,
		RequestsPerSecond: c.Http.RequestsPerSecond,
		CloudflareBypass:  !c.Http.DisableCloudflareBypass,
	}
}
