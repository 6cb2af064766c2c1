package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"sync"
	"testing"
	"time"
)

type pingDriver struct{ err error }

func (d pingDriver) Open(string) (driver.Conn, error) { return pingConn(d), nil }

type pingConn struct{ err error }

func (pingConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("not supported") }
func (pingConn) Close() error                        { return nil }
func (pingConn) Begin() (driver.Tx, error)           { return nil, errors.New("not supported") }
func (c pingConn) Ping(context.Context) error        { return c.err }

var registerOnce sync.Once

func useFakeDriver(t *testing.T) {
	t.Helper()
	registerOnce.Do(func() {
		sql.Register("db-ok", pingDriver{})
		sql.Register("db-down", pingDriver{err: errors.New("connection refused")})
	})
	prev := sqlOpen
	sqlOpen = func(_, dsn string) (*sql.DB, error) {
		return sql.Open(dsn, dsn)
	}
	t.Cleanup(func() { sqlOpen = prev })
}

func TestOpenAppliesPoolConfig(t *testing.T) {
	useFakeDriver(t)

	conn, err := Open(context.Background(), "db-ok", PoolConfig{MaxOpenConns: 7})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer conn.Close()
	if got := conn.Stats().MaxOpenConnections; got != 7 {
		t.Fatalf("expected max open 7, got %d", got)
	}
}

func TestOpenFailsWhenPingFails(t *testing.T) {
	useFakeDriver(t)

	if _, err := Open(context.Background(), "db-down", PoolConfig{PingTimeout: time.Second}); err == nil {
		t.Fatalf("expected ping error")
	}
}

func TestOpenRejectsEmptyURL(t *testing.T) {
	if _, err := Open(context.Background(), "  ", PoolConfig{}); !errors.Is(err, ErrNoDatabaseURL) {
		t.Fatalf("expected ErrNoDatabaseURL, got %v", err)
	}
}

func TestProfileDefaultsAndOverride(t *testing.T) {
	lambda := ProfileLambda.Defaults()
	if lambda.MaxOpenConns != 2 || lambda.PingTimeout != 3*time.Second {
		t.Fatalf("unexpected lambda defaults %+v", lambda)
	}
	if ProfileMigrate.Defaults().MaxOpenConns != 1 {
		t.Fatalf("migrations should use a single connection")
	}

	got := ProfileServer.Defaults().Override(PoolConfig{MaxIdleConns: 3, ConnMaxIdleTime: 45 * time.Second})
	if got.MaxIdleConns != 3 || got.ConnMaxIdleTime != 45*time.Second {
		t.Fatalf("override not applied: %+v", got)
	}
	if got.MaxOpenConns != 10 || got.ConnMaxLifetime != time.Hour {
		t.Fatalf("zero override fields must keep defaults: %+v", got)
	}
}

func TestCurrentProfile(t *testing.T) {
	t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "")
	if CurrentProfile() != ProfileServer {
		t.Fatalf("expected server profile")
	}
	t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "talentflow-http")
	if CurrentProfile() != ProfileLambda {
		t.Fatalf("expected lambda profile")
	}
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := migrationFiles.ReadDir("migrations")
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}
	if len(entries) == 0 {
		t.Fatalf("expected embedded migrations")
	}
}

func TestRunMigrationsNilDatabase(t *testing.T) {
	if err := RunMigrations(context.Background(), nil); err != nil {
		t.Fatalf("expected nil db to be a no-op, got %v", err)
	}
}

func TestMigrateRejectsUnknownCommand(t *testing.T) {
	useFakeDriver(t)
	conn, err := sql.Open("db-ok", "db-ok")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer conn.Close()

	if err := Migrate(context.Background(), conn, "redo-all"); err == nil {
		t.Fatalf("expected unknown command error")
	}
}
