package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net"
	"strconv"

	driver "github.com/go-sql-driver/mysql"

	"github.com/ninjasql/ninjasql/pkg/adapter"
	"github.com/ninjasql/ninjasql/pkg/dialect"
	mysqldialect "github.com/ninjasql/ninjasql/pkg/dialects/mysql"
)

// Adapter implements the adapter.Adapter interface for MySQL.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new MySQL adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger}}
}

// Dialect returns the MySQL dialect.
func (a *Adapter) Dialect() *dialect.Dialect { return mysqldialect.MySQL }

// Connect establishes a connection to MySQL.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	dc := driverConfig(cfg)
	a.Logger.Debug("connecting to mysql", slog.String("addr", dc.Addr), slog.String("database", dc.DBName))

	connector, err := driver.NewConnector(dc)
	if err != nil {
		return fmt.Errorf("invalid mysql configuration: %w", err)
	}
	db := sql.OpenDB(connector)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping mysql: %w", err)
	}

	a.DB = db
	a.Cfg = cfg
	return nil
}

// GetTableMetadata retrieves the columns of table from information_schema.
// An unqualified table resolves against the connected database.
func (a *Adapter) GetTableMetadata(ctx context.Context, table string) (*adapter.Metadata, error) {
	d := a.Dialect()
	if a.Cfg.Database != "" {
		d = d.WithDefaultSchema(a.Cfg.Database)
	}
	return a.GetTableMetadataCommon(ctx, table, d)
}

func driverConfig(cfg adapter.Config) *driver.Config {
	dc := driver.NewConfig()
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port == 0 {
		port = 3306
	}
	dc.Net = "tcp"
	dc.Addr = net.JoinHostPort(host, strconv.Itoa(port))
	dc.User = cfg.Username
	dc.Passwd = cfg.Password
	dc.DBName = cfg.Database
	dc.ParseTime = true
	if len(cfg.Options) > 0 {
		dc.Params = make(map[string]string, len(cfg.Options))
		for k, v := range cfg.Options {
			dc.Params[k] = v
		}
	}
	return dc
}

var _ adapter.Adapter = (*Adapter)(nil)
