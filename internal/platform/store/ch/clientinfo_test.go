package ch

import "testing"

func TestBuildClientInfo_Products(t *testing.T) {
	t.Parallel()

	ci := BuildClientInfo(" classify ", "")
	want := map[string]string{"reviewpulse": "unknown", "role": "classify"}
	seen := map[string]bool{}
	for _, p := range ci.Products {
		seen[p.Name] = true
		if v, ok := want[p.Name]; ok && p.Version != v {
			t.Fatalf("product %s = %q, want %q", p.Name, p.Version, v)
		}
	}
	for _, name := range []string{"reviewpulse", "role", "go", "commit", "host"} {
		if !seen[name] {
			t.Fatalf("missing product %q in %+v", name, ci.Products)
		}
	}
}

func TestOpen_BadDSN(t *testing.T) {
	t.Parallel()
	if _, err := Open(t.Context(), Config{URL: "://nope"}); err == nil {
		t.Fatalf("expected dsn error")
	}
}
