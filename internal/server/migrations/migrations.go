// Package migrations embeds the goose schema migrations. Each storage
// variant has its own directory because the orders table differs in the
// asset column: an object key in s3 mode, the asset bytes in blob mode.
package migrations

import "embed"

//go:embed s3/*.sql blob/*.sql
var Migrations embed.FS
