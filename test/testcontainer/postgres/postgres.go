package postgres

import (
	"context"
	"fmt"
	"log"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	containerImage = "docker.io/postgres:16-alpine"
	containerPort  = "5432/tcp"

	DbName     = "main-db"
	DbUser     = "postgres"
	DbPassword = "password"
)

// Container wraps a running postgres testcontainer together with the
// coordinates needed to address it.
type Container struct {
	Container  *postgres.PostgresContainer
	MappedPort nat.Port
	Host       string
}

// StartContainer - start a postgres container and wait until it accepts
// connections.
func StartContainer(ctx context.Context, t *testing.T) *Container {
	t.Helper()

	pg, err := postgres.Run(ctx,
		containerImage,
		postgres.WithDatabase(DbName),
		postgres.WithUsername(DbUser),
		postgres.WithPassword(DbPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(10*time.Second)),
	)
	require.NoError(t, err)
	require.NotNil(t, pg)

	mappedPort, err := pg.MappedPort(ctx, containerPort)
	require.NoError(t, err)

	host, err := pg.Host(ctx)
	require.NoError(t, err)

	log.Printf("Postgres running at %s:%s", host, mappedPort.Port())

	return &Container{Container: pg, MappedPort: mappedPort, Host: host}
}

// RawDescriptor returns the connection string addressing the container.
func (c *Container) RawDescriptor() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		DbUser, DbPassword, c.Host, c.MappedPort.Port(), DbName)
}

// StopContainer terminates the container.
func (c *Container) StopContainer(ctx context.Context, t *testing.T) {
	t.Helper()

	err := c.Container.Terminate(ctx)
	require.NoError(t, err, fmt.Sprintf("error terminating the container %v", err))
}
