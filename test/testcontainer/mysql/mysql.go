package mysql

import (
	"context"
	"fmt"
	"log"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mysql"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	containerImage = "docker.io/mysql:8.4"
	containerPort  = "3306/tcp"

	DbName     = "main_db"
	DbUser     = "appuser"
	DbPassword = "password"
)

// Container wraps a running mysql testcontainer together with the coordinates
// needed to address it.
type Container struct {
	Container  *mysql.MySQLContainer
	MappedPort nat.Port
	Host       string
}

// StartContainer - start a mysql container and wait until it accepts
// connections.
func StartContainer(ctx context.Context, t *testing.T) *Container {
	t.Helper()

	my, err := mysql.Run(ctx,
		containerImage,
		mysql.WithDatabase(DbName),
		mysql.WithUsername(DbUser),
		mysql.WithPassword(DbPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("port: 3306  MySQL Community Server").
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	require.NotNil(t, my)

	mappedPort, err := my.MappedPort(ctx, containerPort)
	require.NoError(t, err)

	host, err := my.Host(ctx)
	require.NoError(t, err)

	log.Printf("MySQL running at %s:%s", host, mappedPort.Port())

	return &Container{Container: my, MappedPort: mappedPort, Host: host}
}

// RawDescriptor returns the connection string addressing the container. The
// address part is a go-sql-driver DSN.
func (c *Container) RawDescriptor() string {
	return fmt.Sprintf("mysql:%s:%s@tcp(%s:%s)/%s",
		DbUser, DbPassword, c.Host, c.MappedPort.Port(), DbName)
}

// StopContainer terminates the container.
func (c *Container) StopContainer(ctx context.Context, t *testing.T) {
	t.Helper()

	err := c.Container.Terminate(ctx)
	require.NoError(t, err, fmt.Sprintf("error terminating the container %v", err))
}
