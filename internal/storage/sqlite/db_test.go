package sqlite

import "testing"

func TestDSN(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{MemoryPath, ":memory:?_foreign_keys=on&_busy_timeout=5000&_txlock=immediate"},
		{"tickets.db", "tickets.db?_foreign_keys=on&_busy_timeout=5000&_txlock=immediate"},
		{"file:tickets.db?cache=shared", "file:tickets.db?cache=shared&_foreign_keys=on&_busy_timeout=5000&_txlock=immediate"},
	}
	for _, tt := range tests {
		if got := dsn(tt.path); got != tt.want {
			t.Fatalf("dsn(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
