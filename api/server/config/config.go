package config

import (
	"time"

	"github.com/stackport/activity-agent/internal/envconf"
	"github.com/stackport/activity-agent/internal/logger"
	"github.com/stackport/activity-agent/pkg/activity"
	"github.com/stackport/activity-agent/pkg/logstore"
)

type Config struct {
	// Logger for logging
	Logger *logger.Logger

	ActivityService *activity.Service

	LogStoreKind string
}

func GetConfig(envConf *envconf.EnvDecoderConf, store logstore.LogStore) *Config {
	l := logger.NewConsole(envConf.Debug)

	service := activity.NewService(store, activity.Config{
		BaseSelector: envConf.ActivityConf.BaseSelector,
		DefaultLimit: envConf.ActivityConf.DefaultLimit,
		MaxLimit:     envConf.ActivityConf.MaxLimit,
		DefaultStart: envConf.ActivityConf.DefaultStart,
		DefaultEnd:   envConf.ActivityConf.DefaultEnd,
	}, l)

	return &Config{
		Logger:          l,
		ActivityService: service,
		LogStoreKind:    envConf.LogStoreConf.LogStoreKind,
	}
}

// QueryTimeout converts the env conf's timeout seconds to a duration.
func QueryTimeout(envConf *envconf.EnvDecoderConf) time.Duration {
	return time.Duration(envConf.LogStoreConf.LokiQueryTimeout) * time.Second
}
