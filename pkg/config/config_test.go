package config_test

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/confecciones-stock/pkg/config"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := config.FromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, config.StorageDriverPostgres, cfg.DB.Driver)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.False(t, cfg.Kafka.Enabled())
	assert.Equal(t, "inventory.transfers", cfg.Kafka.Topic)
	assert.Equal(t, 90, cfg.Notification.RetentionDays)
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("STORAGE_DRIVER", "MEMORY")
	v.Set("HTTP_PORT", "9090")
	v.Set("KAFKA_BROKERS", "k1:9092, ,k2:9092")
	v.Set("DB_AUTO_MIGRATE", "true")

	cfg, err := config.FromViper(v)
	require.NoError(t, err)

	assert.Equal(t, config.StorageDriverMemory, cfg.DB.Driver)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.DB.AutoMigrate)
}

func TestFromViper_Invalid(t *testing.T) {
	v := viper.New()
	v.Set("STORAGE_DRIVER", "mysql")
	_, err := config.FromViper(v)
	assert.Error(t, err)

	v = viper.New()
	v.Set("APP_ENV", "production")
	_, err = config.FromViper(v)
	assert.Error(t, err, "production sin JWT_SECRET debe fallar")
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss/word", DBName: "confecciones", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/confecciones?sslmode=disable", c.ConnectionString())
}
