package config

import "time"

// SessionConfig представляет конфигурацию сессий пользователей.
type SessionConfig struct {
	Secret     string        `yaml:"secret" env:"SESSION_SECRET" env-required:"true"`
	TTL        time.Duration `yaml:"ttl" env:"SESSION_TTL" env-default:"168h"`
	BcryptCost int           `yaml:"bcrypt_cost" env:"SESSION_BCRYPT_COST" env-default:"10"`
}
