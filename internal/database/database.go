package database

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"quiz-loader/internal/domain"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx"
	"github.com/jmoiron/sqlx"
	go_ora "github.com/sijms/go-ora/v2"
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // registers "sqlite"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "pgx"
	DriverOracle   = "oracle"
	DriverSQLite   = "sqlite"

	defaultMySQLPort  = 3306
	defaultOraclePort = 1521
)

func init() {
	// go-ora and modernc register names sqlx does not know; tell it how they bind.
	sqlx.BindDriver(DriverOracle, sqlx.NAMED)
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// Target is a parsed connection string.
type Target struct {
	Driver string
	DSN    string
	// Display identifies the target in logs without credentials.
	Display string
}

// ParseConnectionString turns a URL-style connection string into a driver name and DSN.
// Supported schemes: mysql, postgres/postgresql, oracle and sqlite.
func ParseConnectionString(raw string) (*Target, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, domain.NewConfigurationError("connection string is empty", nil)
	}

	// sqlite paths are not URLs ("sqlite://file::memory:"), so split by hand.
	if rest, ok := strings.CutPrefix(raw, "sqlite://"); ok {
		return sqliteTarget(rest)
	}

	u, err := url.Parse(raw)
	if err != nil {
		// url errors echo the input, which holds the password.
		return nil, domain.NewConfigurationError("connection string is not a valid URL", nil)
	}

	switch strings.ToLower(u.Scheme) {
	case "mysql":
		return mysqlTarget(u)
	case "postgres", "postgresql":
		return postgresTarget(u, raw)
	case "oracle":
		return oracleTarget(u)
	case "":
		return nil, domain.NewConfigurationError("connection string has no scheme", nil)
	default:
		return nil, domain.NewConfigurationError(fmt.Sprintf("unsupported database scheme %q", u.Scheme), nil)
	}
}

func mysqlTarget(u *url.URL) (*Target, error) {
	host, port, err := hostPort(u, defaultMySQLPort)
	if err != nil {
		return nil, err
	}
	dbName, err := databaseName(u)
	if err != nil {
		return nil, err
	}

	cfg := mysql.NewConfig()
	cfg.User = u.User.Username()
	cfg.Passwd, _ = u.User.Password()
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(host, strconv.Itoa(port))
	cfg.DBName = dbName
	cfg.ParseTime = true
	q := u.Query()
	if q.Has("ssl") || q.Get("tls") == "true" {
		cfg.TLSConfig = "true"
	}

	return &Target{
		Driver:  DriverMySQL,
		DSN:     cfg.FormatDSN(),
		Display: fmt.Sprintf("mysql://%s/%s", cfg.Addr, dbName),
	}, nil
}

func postgresTarget(u *url.URL, raw string) (*Target, error) {
	host, port, err := hostPort(u, 5432)
	if err != nil {
		return nil, err
	}
	dbName, err := databaseName(u)
	if err != nil {
		return nil, err
	}
	return &Target{
		Driver:  DriverPostgres,
		DSN:     raw,
		Display: fmt.Sprintf("postgres://%s/%s", net.JoinHostPort(host, strconv.Itoa(port)), dbName),
	}, nil
}

func oracleTarget(u *url.URL) (*Target, error) {
	host, port, err := hostPort(u, defaultOraclePort)
	if err != nil {
		return nil, err
	}
	service, err := databaseName(u)
	if err != nil {
		return nil, err
	}
	password, _ := u.User.Password()

	var options map[string]string
	if q := u.Query(); len(q) > 0 {
		options = make(map[string]string, len(q))
		for k := range q {
			options[k] = q.Get(k)
		}
	}

	return &Target{
		Driver:  DriverOracle,
		DSN:     go_ora.BuildUrl(host, port, service, u.User.Username(), password, options),
		Display: fmt.Sprintf("oracle://%s/%s", net.JoinHostPort(host, strconv.Itoa(port)), service),
	}, nil
}

func sqliteTarget(path string) (*Target, error) {
	if path == "" {
		return nil, domain.NewConfigurationError("sqlite connection string has no path", nil)
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return &Target{
		Driver:  DriverSQLite,
		DSN:     path + sep + "_pragma=foreign_keys(1)",
		Display: "sqlite://" + path,
	}, nil
}

func hostPort(u *url.URL, defaultPort int) (string, int, error) {
	host := u.Hostname()
	if host == "" {
		return "", 0, domain.NewConfigurationError("connection string has no host", nil)
	}
	p := u.Port()
	if p == "" {
		return host, defaultPort, nil
	}
	port, err := strconv.Atoi(p)
	if err != nil || port <= 0 || port > 65535 {
		return "", 0, domain.NewConfigurationError(fmt.Sprintf("invalid port %q", p), nil)
	}
	return host, port, nil
}

func databaseName(u *url.URL) (string, error) {
	name := strings.Trim(u.Path, "/")
	if name == "" {
		return "", domain.NewConfigurationError("connection string has no database name", nil)
	}
	return name, nil
}

// Open connects to the target named by rawURL and checks it answers within pingTimeout.
// The pool is capped at one connection: the loader runs one transaction at a time.
func Open(ctx context.Context, rawURL string, pingTimeout time.Duration) (*sqlx.DB, *Target, error) {
	target, err := ParseConnectionString(rawURL)
	if err != nil {
		return nil, nil, err
	}

	db, err := sqlx.Open(target.Driver, target.DSN)
	if err != nil {
		return nil, nil, domain.NewConfigurationError("failed to open "+target.Display, err)
	}
	db.SetMaxOpenConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, nil, domain.NewConfigurationError("storage unreachable at "+target.Display, err)
	}
	return db, target, nil
}

// WithConnection opens a connection, runs fn with it and closes it on every exit path,
// panics included.
func WithConnection(ctx context.Context, rawURL string, pingTimeout time.Duration, log *zap.Logger, fn func(ctx context.Context, db *sqlx.DB) error) error {
	db, target, err := Open(ctx, rawURL, pingTimeout)
	if err != nil {
		return err
	}
	log.Info("Connected to database", zap.String("driver", target.Driver), zap.String("target", target.Display))

	defer func() {
		if cErr := db.Close(); cErr != nil {
			log.Warn("Failed to close database connection", zap.Error(cErr))
			return
		}
		log.Debug("Database connection closed", zap.String("target", target.Display))
	}()

	return fn(ctx, db)
}
