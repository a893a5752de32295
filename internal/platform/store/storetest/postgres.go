//go:build integration_pg

package storetest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"reviewpulse/internal/platform/store"
	"reviewpulse/internal/platform/store/pg"

	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Postgres starts a throwaway postgres:16-alpine container, runs each script, and returns the warehouse seam
func Postgres(t *testing.T, scripts ...string) store.TxRunner {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	req := tc.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
			"POSTGRES_DB":       "reviewpulse",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		).WithDeadline(2 * time.Minute),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %v", err)
	}
	mapped, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("failed to get mapped port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://postgres:postgres@%s:%s/reviewpulse?sslmode=disable", host, mapped.Port())

	p, err := pg.Open(ctx, pg.Config{URL: dsn, MaxConns: 4, ApplicationName: "reviewpulse-integration"}, nil, nil)
	if err != nil {
		t.Fatalf("open pg: %v", err)
	}
	wh := store.NewPG(p)
	t.Cleanup(p.Close)

	for i, sql := range scripts {
		if _, err := wh.Exec(ctx, sql); err != nil {
			t.Fatalf("apply script %d: %v", i+1, err)
		}
	}
	return wh
}
