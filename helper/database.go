package helper

import (
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// DatabaseConfiguration holds the connection parameters for Postgres
type DatabaseConfiguration struct {
	Host     string
	Port     string
	Database string
	Username string
	Password string
	SSLMode  string
}

// NewDatabaseConfiguration reads the configuration from VERACITE_DB_* environment
// variables, loading a .env file first if one exists.
func NewDatabaseConfiguration() (*DatabaseConfiguration, error) {
	// A missing .env file is fine, variables may come from the environment
	_ = godotenv.Load()

	config := &DatabaseConfiguration{
		Host:     os.Getenv("VERACITE_DB_HOST"),
		Port:     os.Getenv("VERACITE_DB_PORT"),
		Database: os.Getenv("VERACITE_DB_DATABASE"),
		Username: os.Getenv("VERACITE_DB_USERNAME"),
		Password: os.Getenv("VERACITE_DB_PASSWORD"),
		SSLMode:  os.Getenv("VERACITE_DB_SSLMODE"),
	}

	if config.Host == "" || config.Port == "" || config.Database == "" || config.Username == "" {
		return nil, fmt.Errorf("incomplete database configuration, VERACITE_DB_HOST, VERACITE_DB_PORT, VERACITE_DB_DATABASE and VERACITE_DB_USERNAME must be set")
	}

	if config.SSLMode == "" {
		config.SSLMode = "disable"
	}

	return config, nil
}

// ConnectionString returns the lib/pq connection string
func (c *DatabaseConfiguration) ConnectionString() string {
	return fmt.Sprintf(
		"host=%v port=%v dbname=%v user=%v password=%v sslmode=%v",
		c.Host, c.Port, c.Database, c.Username, c.Password, c.SSLMode,
	)
}

// Database wraps a sql.DB instance with its name and logger
type Database struct {
	Name     string
	Instance *sql.DB
	Logger   *slog.Logger
}

// NewDatabase opens a connection to the configured Postgres database.
// It panics if the database is unreachable, a veracite instance cannot
// work without its chunk store.
func NewDatabase(name string, config *DatabaseConfiguration, logger *slog.Logger) *Database {
	instance, err := sql.Open("postgres", config.ConnectionString())
	if err != nil {
		log.Panicf("error opening database connection: %v", err)
	}

	instance.SetMaxOpenConns(25)
	instance.SetMaxIdleConns(25)
	instance.SetConnMaxLifetime(5 * time.Minute)

	if err := instance.Ping(); err != nil {
		log.Panicf("error pinging database: %v", err)
	}

	logger.Info("Connected to database", slog.String("name", name), slog.String("host", config.Host))

	return &Database{
		Name:     name,
		Instance: instance,
		Logger:   logger,
	}
}

// Close closes the underlying connection pool
func (d *Database) Close() error {
	return d.Instance.Close()
}
