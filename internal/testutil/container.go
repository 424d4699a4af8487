// Package testutil starts throwaway backing services for integration tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// endpoint is the host and mapped port of a started container.
type endpoint struct {
	Host string
	Port int
}

// startContainer runs image, waits for readyLog and returns the mapped
// address of port. The container is terminated when the test ends.
//
// Precondition: Docker must be available.
// Postcondition: skips under -short; fails the test if the container does
// not become ready.
func startContainer(t *testing.T, image, port, readyLog string, occurrences int, env map[string]string) endpoint {
	t.Helper()
	if testing.Short() {
		t.Skipf("skipping %s container in short mode", image)
	}
	ctx := context.Background()
	start := time.Now()

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        image,
			ExposedPorts: []string{port + "/tcp"},
			Env:          env,
			WaitingFor: wait.ForLog(readyLog).
				WithOccurrence(occurrences).
				WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("starting %s: %v [%s]", image, err, time.Since(start))
	}
	t.Cleanup(func() { _ = c.Terminate(ctx) })

	host, err := c.Host(ctx)
	if err != nil {
		t.Fatalf("getting %s host: %v", image, err)
	}
	mapped, err := c.MappedPort(ctx, nat.Port(port))
	if err != nil {
		t.Fatalf("getting %s port: %v", image, err)
	}
	t.Logf("%s started [%s]", image, time.Since(start))
	return endpoint{Host: host, Port: mapped.Int()}
}
