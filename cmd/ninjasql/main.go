// Package main is the ninjasql command.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ninjasql/ninjasql/internal/cli"

	_ "github.com/ninjasql/ninjasql/pkg/adapters/duckdb"
	_ "github.com/ninjasql/ninjasql/pkg/adapters/mysql"
	_ "github.com/ninjasql/ninjasql/pkg/adapters/postgres"
	_ "github.com/ninjasql/ninjasql/pkg/adapters/sqlite"
	_ "github.com/ninjasql/ninjasql/pkg/dialects/ansi"
	_ "github.com/ninjasql/ninjasql/pkg/dialects/duckdb"
	_ "github.com/ninjasql/ninjasql/pkg/dialects/mysql"
	_ "github.com/ninjasql/ninjasql/pkg/dialects/postgres"
	_ "github.com/ninjasql/ninjasql/pkg/dialects/snowflake"
	_ "github.com/ninjasql/ninjasql/pkg/dialects/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Execute(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
