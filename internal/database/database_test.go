package database

import "testing"

func TestSQLiteDSNAddsLockingParams(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"plaza.db", "plaza.db?_txlock=immediate&_busy_timeout=5000"},
		{"plaza.db?cache=shared", "plaza.db?cache=shared&_txlock=immediate&_busy_timeout=5000"},
		{"plaza.db?_txlock=deferred", "plaza.db?_txlock=deferred&_busy_timeout=5000"},
		{"plaza.db?_busy_timeout=100", "plaza.db?_busy_timeout=100&_txlock=immediate"},
		{"plaza.db?_txlock=immediate&_busy_timeout=5000", "plaza.db?_txlock=immediate&_busy_timeout=5000"},
	}
	for _, tc := range cases {
		if got := sqliteDSN(tc.in); got != tc.want {
			t.Fatalf("sqliteDSN(%q): want=%q got=%q", tc.in, tc.want, got)
		}
	}
}
