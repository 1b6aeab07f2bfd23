package config

import "fmt"

// PostgresConfig представляет конфигурацию подключения к Postgres.
type PostgresConfig struct {
	Host           string `yaml:"host" env:"POSTGRES_HOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"POSTGRES_PORT" env-default:"5432"`
	User           string `yaml:"user" env:"POSTGRES_USER" env-default:"notesapp"`
	Password       string `yaml:"password" env:"POSTGRES_PASSWORD" env-default:""`
	Database       string `yaml:"database" env:"POSTGRES_DB" env-default:"notesapp"`
	SSLMode        string `yaml:"ssl_mode" env:"POSTGRES_SSL_MODE" env-default:"disable"`
	MinConn        int    `yaml:"min_conn" env:"POSTGRES_MIN_CONN" env-default:"1"`
	MaxConn        int    `yaml:"max_conn" env:"POSTGRES_MAX_CONN" env-default:"10"`
	MigrationsPath string `yaml:"migrations_path" env:"POSTGRES_MIGRATIONS_PATH" env-default:"file://migrations"`
}

// GetDSN возвращает строку подключения к Postgres.
func (c *PostgresConfig) GetDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode)
}
