package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// LogFields flattens err into structured log fields: the message, its code,
// the unwrap chain and any driver diagnostics found along the way.
func LogFields(err error) map[string]any {
	if err == nil {
		return map[string]any{}
	}
	fields := map[string]any{
		"error":       err.Error(),
		"error_code":  CodeOf(err),
		"error_chain": chain(err),
	}
	for k, v := range driverFields(err) {
		fields[k] = v
	}
	return fields
}

func chain(err error) []string {
	var out []string
	for e := err; e != nil; e = errors.Unwrap(e) {
		out = append(out, fmt.Sprintf("%T: %v", e, e))
	}
	return out
}

func driverFields(err error) map[string]any {
	if pgErr := (*pgconn.PgError)(nil); errors.As(err, &pgErr) {
		return pgFields(pgErr.Code, pgErr.ConstraintName, pgErr.TableName, pgErr.Detail)
	}
	if pqErr := (*pq.Error)(nil); errors.As(err, &pqErr) {
		return pgFields(string(pqErr.Code), pqErr.Constraint, pqErr.Table, pqErr.Detail)
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return map[string]any{
			"sqlite_code":          int(liteErr.Code),
			"sqlite_extended_code": int(liteErr.ExtendedCode),
		}
	}
	return nil
}

func pgFields(code, constraint, table, detail string) map[string]any {
	fields := map[string]any{"pg_code": code}
	for k, v := range map[string]string{"pg_constraint": constraint, "pg_table": table, "pg_detail": detail} {
		if v != "" {
			fields[k] = v
		}
	}
	return fields
}
