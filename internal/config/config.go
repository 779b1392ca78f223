package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the runtime settings of the catalog server.
type Config struct {
	AppPort     string
	DBDriver    string // "sqlite", "postgres" or "memory"
	DatabaseDSN string
	RabbitMQURL string // empty disables product events
	SeedOnStart bool
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "inventory.db")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("SEED_ON_START", true)
}

// Load reads configuration from the environment and, when configFile is set,
// from that file. Environment variables win over the file.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}
	return FromViper(v)
}

// FromViper builds a Config out of an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppPort:     v.GetString("APP_PORT"),
		DBDriver:    v.GetString("DB_DRIVER"),
		DatabaseDSN: v.GetString("DATABASE_DSN"),
		RabbitMQURL: v.GetString("RABBITMQ_URL"),
		SeedOnStart: v.GetBool("SEED_ON_START"),
	}

	switch cfg.DBDriver {
	case "sqlite", "postgres", "memory":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	return cfg, nil
}
