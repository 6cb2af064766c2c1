package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver

	"talentflow-api/internal/shared/telemetry"
)

// ErrNoDatabaseURL is returned by Open when no connection string is given.
var ErrNoDatabaseURL = errors.New("DATABASE_URL is empty")

// Profile selects pool defaults for the kind of process holding the pool.
type Profile string

const (
	ProfileServer  Profile = "server"
	ProfileLambda  Profile = "lambda"
	ProfileMigrate Profile = "migrate"
)

// PoolConfig sizes the connection pool. Zero fields mean "use the default".
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

// CurrentProfile returns ProfileLambda inside AWS Lambda and ProfileServer otherwise.
func CurrentProfile() Profile {
	if strings.TrimSpace(os.Getenv("AWS_LAMBDA_FUNCTION_NAME")) != "" {
		return ProfileLambda
	}
	return ProfileServer
}

// Defaults returns the pool settings for p. Lambda pools stay small since
// every concurrent execution environment holds its own.
func (p Profile) Defaults() PoolConfig {
	switch p {
	case ProfileLambda:
		return PoolConfig{MaxOpenConns: 2, MaxIdleConns: 1, ConnMaxLifetime: 15 * time.Minute, ConnMaxIdleTime: 30 * time.Second, PingTimeout: 3 * time.Second}
	case ProfileMigrate:
		return PoolConfig{MaxOpenConns: 1, MaxIdleConns: 1, ConnMaxLifetime: time.Hour, ConnMaxIdleTime: 2 * time.Minute, PingTimeout: 5 * time.Second}
	default:
		return PoolConfig{MaxOpenConns: 10, MaxIdleConns: 5, ConnMaxLifetime: time.Hour, ConnMaxIdleTime: 2 * time.Minute, PingTimeout: 5 * time.Second}
	}
}

// Override returns c with every positive field of o applied on top.
func (c PoolConfig) Override(o PoolConfig) PoolConfig {
	if o.MaxOpenConns > 0 {
		c.MaxOpenConns = o.MaxOpenConns
	}
	if o.MaxIdleConns > 0 {
		c.MaxIdleConns = o.MaxIdleConns
	}
	if o.ConnMaxLifetime > 0 {
		c.ConnMaxLifetime = o.ConnMaxLifetime
	}
	if o.ConnMaxIdleTime > 0 {
		c.ConnMaxIdleTime = o.ConnMaxIdleTime
	}
	if o.PingTimeout > 0 {
		c.PingTimeout = o.PingTimeout
	}
	return c
}

var sqlOpen = sql.Open

// Open connects to Postgres through pgx and pings once before returning.
func Open(ctx context.Context, databaseURL string, pool PoolConfig) (*sql.DB, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, ErrNoDatabaseURL
	}
	pool = ProfileServer.Defaults().Override(pool)

	conn, err := sqlOpen("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	conn.SetMaxOpenConns(pool.MaxOpenConns)
	conn.SetMaxIdleConns(pool.MaxIdleConns)
	conn.SetConnMaxLifetime(pool.ConnMaxLifetime)
	conn.SetConnMaxIdleTime(pool.ConnMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, pool.PingTimeout)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	stats := conn.Stats()
	telemetry.Info("db.connected", map[string]any{
		"max_open": stats.MaxOpenConnections,
		"open":     stats.OpenConnections,
		"idle":     stats.Idle,
	})
	return conn, nil
}
