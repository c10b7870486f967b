package helper

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	testDatabase = "veracite_test"
	testUsername = "postgres"
	testPassword = "postgres"
)

// MustStartPostgresContainer starts a pgvector-enabled Postgres container for tests.
// It returns the teardown function and the mapped host port.
func MustStartPostgresContainer() (func(ctx context.Context, opts ...testcontainers.TerminateOption) error, string, error) {
	ctx := context.Background()

	container, err := postgres.Run(
		ctx,
		"pgvector/pgvector:pg17",
		postgres.WithDatabase(testDatabase),
		postgres.WithUsername(testUsername),
		postgres.WithPassword(testPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, "", err
	}

	mappedPort, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		return container.Terminate, "", err
	}

	return container.Terminate, mappedPort.Port(), nil
}

// SetTestDatabaseConfigEnvs points the VERACITE_DB_* variables at the test container
func SetTestDatabaseConfigEnvs(t *testing.T, port string) {
	t.Setenv("VERACITE_DB_HOST", "localhost")
	t.Setenv("VERACITE_DB_PORT", port)
	t.Setenv("VERACITE_DB_DATABASE", testDatabase)
	t.Setenv("VERACITE_DB_USERNAME", testUsername)
	t.Setenv("VERACITE_DB_PASSWORD", testPassword)
	t.Setenv("VERACITE_DB_SSLMODE", "disable")
}

// NewTestDatabase connects to the test container with a quiet logger
func NewTestDatabase(config *DatabaseConfiguration) *Database {
	opts := PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelWarn,
		},
	}
	logger := slog.New(NewPrettyHandler(os.Stdout, opts))
	return NewDatabase("veracite_test", config, logger)
}
