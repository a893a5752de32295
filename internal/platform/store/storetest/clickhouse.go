//go:build integration_ch

package storetest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"reviewpulse/internal/platform/store"
	"reviewpulse/internal/platform/store/ch"

	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// ClickHouse starts a throwaway server, runs each script, and returns the analytics seam
func ClickHouse(t *testing.T, scripts ...string) store.Clickhouse {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	req := tc.ContainerRequest{
		Image:        "clickhouse/clickhouse-server:24.8-alpine",
		ExposedPorts: []string{"9000/tcp", "8123/tcp"},
		Env: map[string]string{
			"CLICKHOUSE_USER":     "reviewpulse",
			"CLICKHOUSE_PASSWORD": "reviewpulse",
			"CLICKHOUSE_DB":       "reviewpulse",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("9000/tcp"),
			wait.ForHTTP("/ping").WithPort("8123/tcp"),
		).WithDeadline(2 * time.Minute),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("failed to start clickhouse container: %v", err)
	}
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %v", err)
	}
	mapped, err := c.MappedPort(ctx, "9000/tcp")
	if err != nil {
		t.Fatalf("failed to get mapped port: %v", err)
	}

	client, err := ch.Open(ctx, ch.Config{
		URL:        fmt.Sprintf("clickhouse://reviewpulse:reviewpulse@%s:%s/reviewpulse", host, mapped.Port()),
		ClientRole: "integration",
	})
	if err != nil {
		t.Fatalf("open clickhouse: %v", err)
	}
	seam := store.NewClickhouse(client)
	t.Cleanup(func() { _ = seam.Close() })

	for i, sql := range scripts {
		if err := seam.Exec(ctx, sql); err != nil {
			t.Fatalf("apply script %d: %v", i+1, err)
		}
	}
	return seam
}
