// Package repository implements PostgreSQL persistence via sqlx. Queries
// return database/sql errors unwrapped so services can branch on
// sql.ErrNoRows.
package repository

import (
	"database/sql"
	"fmt"
)

// requireRow converts a zero-row update into sql.ErrNoRows so callers can
// map it to a not-found response.
func requireRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
