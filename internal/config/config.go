package config

import (
	"log"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the gateway.
type Config struct {
	BackendURL  string   `env:"BACKEND_URL" envDefault:"http://localhost:8001"`
	Port        string   `env:"PORT" envDefault:"8080"`
	RedisAddr   string   `env:"REDIS_URI" envDefault:"localhost:6379"`
	MongoURI    string   `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDB     string   `env:"MONGO_DB" envDefault:"voidchat"`
	SessionKey  string   `env:"SESSION_KEY" envDefault:"void-dev-session-key"`
	CORSOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
}

// Load reads configuration from the environment. A .env file is applied
// first when present so local development matches the deployed setup.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
