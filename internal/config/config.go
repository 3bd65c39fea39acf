package config

import (
	"fmt"
	"os"
)

// Config reúne tudo que o serviço lê do ambiente.
type Config struct {
	Port string

	JWTSecret            string
	OperatorUser         string
	OperatorPasswordHash string // bcrypt

	GoEnv string // dev/prod
}

// Load lê as variáveis de ambiente e valida as obrigatórias.
func Load() (Config, error) {
	cfg := Config{
		Port: getenvWithDefault("PORT", "8080"),

		JWTSecret:            os.Getenv("JWT_SECRET"),
		OperatorUser:         os.Getenv("OPERATOR_USER"),
		OperatorPasswordHash: os.Getenv("OPERATOR_PASSWORD_HASH"),

		GoEnv: getenvWithDefault("GO_ENV", "dev"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.OperatorUser == "" {
		return Config{}, fmt.Errorf("OPERATOR_USER is required")
	}
	if cfg.OperatorPasswordHash == "" {
		return Config{}, fmt.Errorf("OPERATOR_PASSWORD_HASH is required")
	}

	return cfg, nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
