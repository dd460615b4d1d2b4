package database

import (
	"strings"
	"testing"
)

func TestDSN(t *testing.T) {
	dsn := DSN("aurora", "s3cret", "db.local", "3307", "aurora_gateway")
	if !strings.HasPrefix(dsn, "aurora:s3cret@tcp(db.local:3307)/aurora_gateway?") {
		t.Fatalf("dsn = %q", dsn)
	}
	for _, want := range []string{"parseTime=true", "charset=utf8mb4"} {
		if !strings.Contains(dsn, want) {
			t.Errorf("dsn %q lacks %s", dsn, want)
		}
	}
	if got := DSN("root", "", "localhost", "3306", "x"); !strings.HasPrefix(got, "root@tcp(localhost:3306)/x") {
		t.Fatalf("dsn without password = %q", got)
	}
}
