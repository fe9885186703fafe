package testutils

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Neo4JImage is the last server line that accepts {param} placeholders and
// the CREATE INDEX ON :Label(prop) schema syntax. NEO4J_IMAGE overrides it.
const Neo4JImage = "neo4j:3.5"

const (
	user     = "neo4j"
	password = "password"
)

// Neo4J is a running test server and a driver connected to it.
type Neo4J struct {
	Driver    neo4j.DriverWithContext
	URI       string
	container testcontainers.Container
}

// Stop closes the driver and terminates the container.
func (n *Neo4J) Stop(ctx context.Context) error {
	return errors.Join(n.Driver.Close(ctx), n.container.Terminate(ctx))
}

func image() string {
	if img := os.Getenv("NEO4J_IMAGE"); img != "" {
		return img
	}
	return Neo4JImage
}

// StartNeo4J starts (or reuses) a Neo4j container and waits until it
// accepts bolt connections.
func StartNeo4J(ctx context.Context) (*Neo4J, error) {
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Name:         "neo4j-qb",
			Image:        image(),
			ExposedPorts: []string{"7687/tcp"},
			WaitingFor:   wait.ForLog("Bolt enabled").WithStartupTimeout(2 * time.Minute),
			Env: map[string]string{
				"NEO4J_AUTH": user + "/" + password,
			},
		},
		Started: true,
		Reuse:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("starting %s: %w", image(), err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, err
	}
	port, err := container.MappedPort(ctx, "7687")
	if err != nil {
		return nil, err
	}
	uri := fmt.Sprintf("bolt://%s:%d", host, port.Int())
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, err
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		return nil, errors.Join(fmt.Errorf("connecting to %s: %w", uri, err), driver.Close(ctx))
	}
	return &Neo4J{Driver: driver, URI: uri, container: container}, nil
}
