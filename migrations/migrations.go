// Package migrations embeds the warehouse and analytics DDL.
// Files run in name order and every statement is idempotent
package migrations

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

//go:embed pg/*.sql ch/*.sql
var files embed.FS

// Postgres returns the warehouse scripts in order
func Postgres() ([]string, error) { return load("pg") }

// ClickHouse returns the analytics scripts in order, one statement per script
func ClickHouse() ([]string, error) { return load("ch") }

func load(dir string) ([]string, error) {
	entries, err := fs.ReadDir(files, dir)
	if err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	out := make([]string, 0, len(names))
	for _, n := range names {
		b, err := fs.ReadFile(files, dir+"/"+n)
		if err != nil {
			return nil, fmt.Errorf("migrations: %s: %w", n, err)
		}
		out = append(out, string(b))
	}
	return out, nil
}
