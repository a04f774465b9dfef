package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8094, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "redis", cfg.PubSub.Driver)
	assert.Equal(t, "localhost:6379", cfg.PubSub.Redis.Address)
	assert.Equal(t, 3*time.Second, cfg.PubSub.Redis.ReadTimeout)
	assert.Equal(t, "roomstate-service", cfg.PubSub.Kafka.GroupID)
	assert.Equal(t, 4, cfg.PubSub.Kafka.Partitions)
	assert.Equal(t, "http://localhost:8080", cfg.Upstream.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Upstream.Timeout)
	assert.False(t, cfg.Controller.MultiGoal)
	assert.Equal(t, 30*time.Second, cfg.WebSocket.PingInterval)
	assert.Equal(t, 60*time.Second, cfg.WebSocket.PongWait)
	assert.Equal(t, int64(4096), cfg.WebSocket.MaxMessageSize)
}

func TestLoadFrom_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte(`
server:
  port: 9000
pubsub:
  driver: kafka
upstream:
  timeout: 3s
controller:
  multi_goal: true
websocket:
  pong_wait: 5s
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o644))
	t.Setenv("UPSTREAM_BASE_URL", "https://upstream.example")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "kafka", cfg.PubSub.Driver)
	assert.Equal(t, "k1:9092,k2:9092", cfg.PubSub.Kafka.Brokers)
	assert.Equal(t, "https://upstream.example", cfg.Upstream.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Upstream.Timeout)
	assert.True(t, cfg.Controller.MultiGoal)
	assert.Equal(t, 5*time.Second, cfg.WebSocket.PongWait)
}
