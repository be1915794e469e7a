// Package migrations embeds the SQL migration files so cmd/setup and the
// integration tests can apply them without a checkout-relative path.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
