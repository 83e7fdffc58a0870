package database

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"
)

// Schema is the MySQL DDL for every table the service reads or writes.
//
//go:embed schema.sql
var Schema string

// Statements splits Schema into executable statements, dropping comment
// lines and empty chunks.  The DDL never contains a literal ';'.
func Statements() []string {
	var out []string
	for _, chunk := range strings.Split(Schema, ";") {
		var b strings.Builder
		for _, line := range strings.Split(chunk, "\n") {
			if strings.HasPrefix(strings.TrimSpace(line), "--") {
				continue
			}
			b.WriteString(line)
			b.WriteByte('\n')
		}
		if stmt := strings.TrimSpace(b.String()); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}

// Migrate applies every statement of Schema.  The DDL is idempotent
// (CREATE TABLE IF NOT EXISTS), so Migrate is safe on every start.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range Statements() {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
