package postgres

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/sethvargo/go-retry"

	"pet-patients-service/internal/adapters/storage/postgres/migrations"
)

const (
	connectAttempts = 5
	connectBackoff  = 5 * time.Second
)

// Open abre el pool pgx (via database/sql) y espera a que la base esté
// lista: 5 intentos de ping, 5s entre cada uno. Si después de eso no
// conecta, el caller aborta el proceso.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	// pool chico: este servicio es CRUD de baja frecuencia
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	backoff := retry.WithMaxRetries(connectAttempts-1, retry.NewConstant(connectBackoff))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := db.PingContext(pingCtx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate sincroniza el esquema embebido. Un fallo acá también corta el
// arranque: no se sirve tráfico contra un esquema desconocido.
func Migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}
