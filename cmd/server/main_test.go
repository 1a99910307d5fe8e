package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"sampleapp/internal/config"
)

func TestStartupFields(t *testing.T) {
	cfg := config.Config{
		AppPort:          "8002",
		StoreDriver:      config.StoreDriverMemory,
		SessionTTL:       time.Hour,
		SessionHeader:    "Cookie",
		RefreshWorkers:   2,
		RefreshQueueSize: 256,
	}

	fields := startupFields(cfg)
	require.Equal(t, "memory", fields["login_throttle"])
	require.Equal(t, "1h0m0s", fields["session_ttl"])
	require.NotContains(t, fields, "mongo_database")

	cfg.StoreDriver = config.StoreDriverMongo
	cfg.MongoDatabase = "sampleapp"
	cfg.RedisAddr = "localhost:6379"

	fields = startupFields(cfg)
	require.Equal(t, "redis", fields["login_throttle"])
	require.Equal(t, "sampleapp", fields["mongo_database"])
}
