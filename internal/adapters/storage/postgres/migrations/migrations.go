// Package migrations embebe el esquema SQL del servicio.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
