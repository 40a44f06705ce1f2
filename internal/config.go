package internal

import (
	"fmt"
	"investor-lab/domain"
	"investor-lab/storage"
	"time"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
)

type Config struct {
	SlotBackend     string        `env:"SLOT_BACKEND,default=badger"`
	SlotPath        string        `env:"SLOT_PATH,default=./data/investors"`
	SeedLocale      string        `env:"SEED_LOCALE,default=ar"`
	LogLevel        string        `env:"LOG_LEVEL,default=INFO"`
	Host            string        `env:"HOST,default=localhost"`
	Port            int           `env:"PORT,default=8080"`
	HistorySize     int           `env:"HISTORY_SIZE,default=100"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,default=5s"`
}

// LoadConfig reads an optional .env file, then the environment.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	if _, err := config.Locale(); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	return config, nil
}

func (c Config) Locale() (domain.Locale, error) {
	return domain.ParseLocale(c.SeedLocale)
}

func (c Config) Backend() storage.Backend {
	return storage.Backend(c.SlotBackend)
}

func (c Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
