// Package config centraliza la configuración del servicio, cargada
// exclusivamente desde variables de entorno (mismo contrato que el resto
// de los servicios de la clínica).
package config

import (
	"fmt"
	"os"
	"strings"
)

// Config agrupa todo lo que main necesita para armar el servicio.
//
// Campos:
//   - Addr: dirección de escucha HTTP (":" + PORT).
//   - DatabaseDSN: DSN Postgres (pgx via database/sql).
//   - JWTSecret: secreto compartido HS256 para verificar tokens del auth service.
//   - AuthServiceURL: base URL del auth service (directorio de usuarios).
type Config struct {
	Addr           string
	DatabaseDSN    string
	JWTSecret      string
	AuthServiceURL string
}

// FromEnv arma la Config desde env vars, con defaults de desarrollo.
//
// Vars: PORT, DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME,
// JWT_SECRET, AUTH_SERVICE_URL.
func FromEnv() *Config {
	cfg := &Config{
		Addr:           ":" + getenv("PORT", "3001"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		AuthServiceURL: getenv("AUTH_SERVICE_URL", "http://localhost:3000"),
	}

	// DSN armado por partes para mantener el contrato de env vars
	// que ya usan los deploys (no un DATABASE_URL monolítico).
	cfg.DatabaseDSN = fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		getenv("DB_USER", "postgres"),
		getenv("DB_PASSWORD", "postgres"),
		getenv("DB_HOST", "localhost"),
		getenv("DB_PORT", "5432"),
		getenv("DB_NAME", "pet_patients"),
	)

	return cfg
}

// Validate corta el arranque si falta config crítica.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("config: JWT_SECRET is required")
	}
	return nil
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
