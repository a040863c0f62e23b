package repository

import "testing"

func TestSQLDayExpressionByDialect(t *testing.T) {
	if got := sqlDayExpressionByDialect("postgres"); got != "to_char(created_at, 'YYYY-MM-DD')" {
		t.Fatalf("postgres day expr mismatch, got %s", got)
	}
	if got := sqlDayExpressionByDialect("sqlite"); got != "strftime('%Y-%m-%d', created_at)" {
		t.Fatalf("sqlite day expr mismatch, got %s", got)
	}
	if got := sqlDayExpressionByDialect(""); got != "strftime('%Y-%m-%d', created_at)" {
		t.Fatalf("default day expr mismatch, got %s", got)
	}
}

func TestJSONTextExprByDialectSQLite(t *testing.T) {
	got := jsonTextExprByDialect("sqlite", "settings_json", "currency")
	want := "json_extract(settings_json, '$.\"currency\"')"
	if got != want {
		t.Fatalf("sqlite json expr mismatch, want %s got %s", want, got)
	}
}

func TestJSONTextExprByDialectPostgres(t *testing.T) {
	got := jsonTextExprByDialect("postgres", "settings_json", "currency")
	want := "(settings_json::jsonb ->> 'currency')"
	if got != want {
		t.Fatalf("postgres json expr mismatch, want %s got %s", want, got)
	}
}
