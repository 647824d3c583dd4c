package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DropInService/internal/catalog"
	"github.com/m04kA/SMC-DropInService/internal/domain"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, domain.DefaultTimezone, cfg.ServiceDay.Timezone)
	assert.Equal(t, catalog.DefaultShowerSlots, cfg.Catalog.ShowerSlots)
	assert.Equal(t, catalog.DefaultLaundrySlots, cfg.Catalog.LaundrySlots)
	assert.False(t, cfg.Redis.Enabled())

	settings := cfg.SettingsDefaults.Settings()
	assert.Equal(t, domain.DefaultMaxOnsiteLaundrySlots, settings.MaxOnsiteLaundrySlots)
	assert.True(t, settings.OffsiteLaundryEnabled)
}

func TestParse_ExpandsEnv(t *testing.T) {
	t.Setenv("DROPIN_DB_PASSWORD", "s3cret")

	cfg, err := Parse(`
[database]
host = "db"
password = "${DROPIN_DB_PASSWORD}"
dbname = "dropin"

[redis]
addr = "redis:6379"
cache_ttl = 15

[settings_defaults]
max_onsite_laundry_slots = 3
offsite_laundry_enabled = false
`)
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.Contains(t, cfg.Database.DSN(), "host=db port=5432")
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, int64(15), int64(cfg.Redis.TTL().Seconds()))

	settings := cfg.SettingsDefaults.Settings()
	assert.Equal(t, 3, settings.MaxOnsiteLaundrySlots)
	assert.False(t, settings.OffsiteLaundryEnabled)
}

func TestParse_Invalid(t *testing.T) {
	tests := map[string]string{
		"port":      "[server]\nhttp_port = 0",
		"capacity":  "[catalog]\nshower_capacity = -1",
		"settings":  "[settings_defaults]\nmax_onsite_laundry_slots = 101",
		"cache ttl": "[redis]\naddr = \"r:6379\"\ncache_ttl = 0",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(content)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}

	_, err := Parse("[server\n")
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server]\nhttp_port = 9090\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.HTTPPort)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
