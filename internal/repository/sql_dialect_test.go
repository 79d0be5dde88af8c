package repository

import "testing"

func TestLikeOperatorByDialect(t *testing.T) {
	cases := map[string]string{
		"postgres":   "ILIKE",
		"postgresql": "ILIKE",
		" Postgres ": "ILIKE",
		"sqlite":     "LIKE",
		"mysql":      "LIKE",
		"":           "LIKE",
	}
	for dialect, want := range cases {
		if got := likeOperatorByDialect(dialect); got != want {
			t.Fatalf("dialect %q want %s got %s", dialect, want, got)
		}
	}
}

func TestDBDialectNameNil(t *testing.T) {
	if got := dbDialectName(nil); got != "sqlite" {
		t.Fatalf("nil db should default to sqlite, got %s", got)
	}
}
