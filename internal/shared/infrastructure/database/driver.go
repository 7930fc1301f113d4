package database

import (
	"fmt"
	"strings"
)

// Driver represents a task store backend type.
type Driver string

const (
	// DriverPostgres represents PostgreSQL database.
	DriverPostgres Driver = "postgres"
	// DriverSQLite represents SQLite database.
	DriverSQLite Driver = "sqlite"
	// DriverMongo represents a MongoDB collection.
	DriverMongo Driver = "mongo"
	// DriverRedis represents a Redis keyspace.
	DriverRedis Driver = "redis"
	// DriverMemory keeps tasks in process memory.
	DriverMemory Driver = "memory"
)

// String returns the string representation of the driver.
func (d Driver) String() string {
	return string(d)
}

// DetectDriver parses a connection string and returns the driver type.
// Returns DriverSQLite for empty URLs to enable zero-config local mode.
func DetectDriver(url string) Driver {
	if url == "" {
		return DriverSQLite
	}

	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return DriverPostgres
	case strings.HasPrefix(url, "mongodb://"), strings.HasPrefix(url, "mongodb+srv://"):
		return DriverMongo
	case strings.HasPrefix(url, "redis://"), strings.HasPrefix(url, "rediss://"):
		return DriverRedis
	case url == "memory", strings.HasPrefix(url, "memory://"):
		return DriverMemory
	case strings.HasPrefix(url, "sqlite://"),
		strings.HasPrefix(url, "file:"),
		strings.HasSuffix(url, ".db"),
		strings.HasSuffix(url, ".sqlite"),
		strings.HasSuffix(url, ".sqlite3"):
		return DriverSQLite
	}

	// Default to PostgreSQL for bare DSNs like "host=localhost dbname=todo"
	return DriverPostgres
}

// ResolveDriver returns the explicit driver when set, otherwise detects it from url.
func ResolveDriver(explicit, url string) (Driver, error) {
	if explicit == "" || explicit == "auto" {
		return DetectDriver(url), nil
	}
	d := Driver(strings.ToLower(explicit))
	if !d.IsValid() {
		return "", fmt.Errorf("unsupported store driver: %s", explicit)
	}
	return d, nil
}

// IsValid returns true if the driver is a known type.
func (d Driver) IsValid() bool {
	switch d {
	case DriverPostgres, DriverSQLite, DriverMongo, DriverRedis, DriverMemory:
		return true
	default:
		return false
	}
}

// IsSQL reports whether the driver is served by a database.Connection.
func (d Driver) IsSQL() bool {
	return d == DriverPostgres || d == DriverSQLite
}

// SQLitePathFromURL strips the sqlite:// scheme from a URL, if present.
func SQLitePathFromURL(url string) string {
	return strings.TrimPrefix(url, "sqlite://")
}
