package repository

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// dbDialectName resolves the dialect name, defaulting to sqlite.
func dbDialectName(db *gorm.DB) string {
	if db == nil || db.Dialector == nil {
		return "sqlite"
	}
	name := strings.ToLower(strings.TrimSpace(db.Dialector.Name()))
	if name == "" {
		return "sqlite"
	}
	return name
}

// sqlDayExpression builds a per-day grouping expression over created_at,
// compatible with sqlite and postgres.
func sqlDayExpression(db *gorm.DB) string {
	return sqlDayExpressionByDialect(dbDialectName(db))
}

func sqlDayExpressionByDialect(dialect string) string {
	switch strings.ToLower(strings.TrimSpace(dialect)) {
	case "postgres", "postgresql":
		return "to_char(created_at, 'YYYY-MM-DD')"
	default:
		return "strftime('%Y-%m-%d', created_at)"
	}
}

// jsonTextExpr builds a JSON text extraction expression, compatible with
// sqlite and postgres.
func jsonTextExpr(db *gorm.DB, column, key string) string {
	return jsonTextExprByDialect(dbDialectName(db), column, key)
}

func jsonTextExprByDialect(dialect, column, key string) string {
	switch strings.ToLower(strings.TrimSpace(dialect)) {
	case "postgres", "postgresql":
		return fmt.Sprintf("(%s::jsonb ->> '%s')", column, key)
	default:
		return fmt.Sprintf("json_extract(%s, '$.\"%s\"')", column, key)
	}
}
