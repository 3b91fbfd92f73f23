package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shop.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http_addr: ":8081"
db:
  driver: postgres
  dsn: "host=db user=shop dbname=shop"
  slow_threshold: 1s
redis:
  addr: "redis:6379"
seed_sample_data: true
`), 0o600))

	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("IDEMPOTENCY_TTL", "1h")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.HTTPAddr)
	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.Equal(t, time.Second, cfg.DB.SlowThreshold)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, time.Hour, cfg.Redis.IdempotencyTTL)
	assert.True(t, cfg.SeedSampleData)
	assert.Equal(t, "shop-service", cfg.OTel.ServiceName)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.NoError(t, err)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad driver", map[string]string{"DB_DRIVER": "mysql"}},
		{"bad ttl", map[string]string{"IDEMPOTENCY_TTL": "soon"}},
		{"bad seed flag", map[string]string{"SEED_SAMPLE_DATA": "maybe"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shop.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db: [unclosed"), 0o600))
	_, err := Load(path)
	assert.Error(t, err)
}
