package config

import "github.com/hyperjump/keepsake/internal/oracle"

// DefaultInboxExtensions are the record file formats read from inbox directories.
var DefaultInboxExtensions = []string{".json", ".yaml", ".yml"}

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "/usr/local/var/keepsake/data/db/keepsake.db"
	}
	if cfg.Storage.IndexPath == "" {
		cfg.Storage.IndexPath = "/usr/local/var/keepsake/data/indices/bleve"
	}
	if cfg.Oracle.Endpoint == "" {
		cfg.Oracle.Endpoint = oracle.DefaultEndpoint
	}
	if cfg.Oracle.Model == "" {
		cfg.Oracle.Model = oracle.DefaultModel
	}
	if cfg.Oracle.Timeout == 0 {
		cfg.Oracle.Timeout = oracle.DefaultTimeout
	}
	breaker := oracle.DefaultBreakerConfig("")
	if cfg.Oracle.BreakerFailures == 0 {
		cfg.Oracle.BreakerFailures = breaker.ConsecutiveFailures
	}
	if cfg.Oracle.BreakerCooldown == 0 {
		cfg.Oracle.BreakerCooldown = breaker.Cooldown
	}
	if cfg.Search.DefaultLimit == 0 {
		cfg.Search.DefaultLimit = 10
	}
	if cfg.Search.MaxLimit == 0 {
		cfg.Search.MaxLimit = 100
	}
	if cfg.Search.KeywordTitleBoost == 0 {
		cfg.Search.KeywordTitleBoost = 3.0
	}
	if cfg.Search.Fuzziness == 0 {
		cfg.Search.Fuzziness = 1
	}
	if cfg.Inbox.Extensions == nil {
		cfg.Inbox.Extensions = append([]string(nil), DefaultInboxExtensions...)
	}
	// Recursive defaults to true when unset (nil).
	if len(cfg.Inbox.Directories) > 0 && cfg.Inbox.Recursive == nil {
		t := true
		cfg.Inbox.Recursive = &t
	}
}

