package config

import (
	"errors"

	"github.com/spf13/viper"
)

// Store backend names accepted in POLL_STORE.
const (
	StoreMemory = "memory"
	StoreMongo  = "mongo"
)

type Config struct {
	Port          int
	Store         string
	MongoURI      string
	MongoDB       string
	AllowedOrigin string
}

// Load reads configuration from POLL_* environment variables. The memory
// store is the default so the server runs with no external services; Mongo
// requires a URI.
func Load() (Config, error) {
	v := viper.New()

	_ = v.BindEnv("port", "POLL_PORT")
	_ = v.BindEnv("store", "POLL_STORE")
	_ = v.BindEnv("mongo.uri", "POLL_MONGO_URI")
	_ = v.BindEnv("mongo.db", "POLL_MONGO_DB")
	_ = v.BindEnv("allowed_origin", "POLL_ALLOWED_ORIGIN")

	v.SetDefault("port", 3001)
	v.SetDefault("store", StoreMemory)
	v.SetDefault("mongo.db", "polling_app")
	v.SetDefault("allowed_origin", "*")

	cfg := Config{
		Port:          v.GetInt("port"),
		Store:         v.GetString("store"),
		MongoURI:      v.GetString("mongo.uri"),
		MongoDB:       v.GetString("mongo.db"),
		AllowedOrigin: v.GetString("allowed_origin"),
	}

	if cfg.Port <= 0 {
		return Config{}, errors.New("invalid POLL_PORT")
	}

	switch cfg.Store {
	case StoreMemory:
	case StoreMongo:
		if cfg.MongoURI == "" {
			return Config{}, errors.New("POLL_MONGO_URI required when POLL_STORE=mongo")
		}
	default:
		return Config{}, errors.New("POLL_STORE must be memory or mongo")
	}

	return cfg, nil
}
