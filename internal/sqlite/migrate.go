package sqlite

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// migrateTo synchronises the live schema with schemaDefinition.
//
// The migration is declarative. schemaDefinition is applied to an empty attached database and the two schemas are
// diffed. Within one transaction the migration then:
//
//  1. drops indexes and triggers that were removed or changed,
//  2. drops removed tables,
//  3. creates new tables,
//  4. rebuilds changed tables with the copy-and-rename procedure from
//     https://www.sqlite.org/lang_altertable.html#otheralter,
//  5. creates every index and trigger that the live schema is missing.
//
// Inspired by https://david.rothlis.net/declarative-schema-migration-for-sqlite/
func (db *Database) migrateTo(ctx context.Context, schemaDefinition string) error {
	start := time.Now()

	detach, err := db.attachSchemaTarget(ctx, schemaDefinition)
	if err != nil {
		return fmt.Errorf("attach schema target database: %w", err)
	}
	defer detach()

	err = db.WithTx(ctx, func(tx *sql.Tx) error {
		live, target, err := querySchemas(ctx, tx)
		if err != nil {
			return err
		}

		for _, obj := range live {
			if obj.typ == objectTable {
				continue
			}
			if want, ok := target.find(obj); !ok || want.sql != obj.sql {
				if err = db.exec(ctx, tx, fmt.Sprintf("DROP %s %s", strings.ToUpper(obj.typ), obj.name)); err != nil {
					return err
				}
			}
		}

		for _, obj := range live.ofType(objectTable) {
			if _, ok := target.find(obj); !ok {
				if err = db.exec(ctx, tx, "DROP TABLE "+obj.name); err != nil {
					return err
				}
			}
		}

		for _, want := range target.ofType(objectTable) {
			have, ok := live.find(want)
			switch {
			case !ok:
				err = db.exec(ctx, tx, want.sql)
			case normaliseSQL(have.sql) != normaliseSQL(want.sql):
				err = db.rebuildTable(ctx, tx, want)
			}
			if err != nil {
				return err
			}
		}

		// Rebuilt tables lose their indexes and triggers so the live schema is read again.
		if live, err = querySchema(ctx, tx, "main"); err != nil {
			return err
		}
		for _, want := range target {
			if want.typ == objectTable {
				continue
			}
			if _, ok := live.find(want); !ok {
				if err = db.exec(ctx, tx, want.sql); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	db.logger.LogAttrs(ctx, slog.LevelInfo, "migrated database", slog.Duration("duration", time.Since(start)))
	return nil
}

const (
	objectTable = "table"
)

type schemaObject struct {
	typ  string
	name string
	sql  string
}

type schema []schemaObject

func (s schema) find(obj schemaObject) (schemaObject, bool) {
	for _, o := range s {
		if o.typ == obj.typ && o.name == obj.name {
			return o, true
		}
	}
	return schemaObject{}, false
}

func (s schema) ofType(typ string) schema {
	var out schema
	for _, o := range s {
		if o.typ == typ {
			out = append(out, o)
		}
	}
	return out
}

// normaliseSQL removes the double quotes that ALTER TABLE RENAME adds around table names.
func normaliseSQL(s string) string {
	return strings.ReplaceAll(s, `"`, "")
}

// attachSchemaTarget attaches an in-memory database initialised with schemaDefinition as schemaTarget. The returned
// function detaches it.
func (db *Database) attachSchemaTarget(ctx context.Context, schemaDefinition string) (func(), error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", rand.Text())
	target, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open schema target database: %w", err)
	}
	// The shared cache keeps the in-memory database alive only while a connection is open.
	defer func() {
		if closeErr := target.Close(); closeErr != nil {
			db.logger.LogAttrs(ctx, slog.LevelError, "failed to close schema target database",
				slog.Any("error", closeErr))
		}
	}()
	if _, err = target.ExecContext(ctx, schemaDefinition); err != nil {
		return nil, fmt.Errorf("apply schema to target database: %w", err)
	}
	if _, err = db.ReadWrite.ExecContext(ctx, "ATTACH DATABASE ? AS schemaTarget", dsn); err != nil {
		return nil, fmt.Errorf("attach: %w", err)
	}
	return func() {
		if _, detachErr := db.ReadWrite.ExecContext(ctx, "DETACH DATABASE schemaTarget"); detachErr != nil {
			db.logger.LogAttrs(ctx, slog.LevelError, "failed to detach schema target database",
				slog.Any("error", detachErr))
		}
	}, nil
}

func querySchemas(ctx context.Context, tx *sql.Tx) (schema, schema, error) {
	live, err := querySchema(ctx, tx, "main")
	if err != nil {
		return nil, nil, err
	}
	target, err := querySchema(ctx, tx, "schemaTarget")
	if err != nil {
		return nil, nil, err
	}
	return live, target, nil
}

// querySchema lists the user-defined objects of the given attached database in creation order.
func querySchema(ctx context.Context, tx *sql.Tx, database string) (_ schema, err error) {
	//nolint:gosec // database is one of two constants.
	rows, err := tx.QueryContext(ctx, fmt.Sprintf(`SELECT type, name, sql
FROM %s.sqlite_schema
WHERE type IN ('table', 'index', 'trigger')
  AND sql IS NOT NULL
  AND name NOT LIKE 'sqlite_%%'
ORDER BY rowid`, database))
	if err != nil {
		return nil, fmt.Errorf("query %s schema: %w", database, err)
	}
	defer func() {
		err = errors.Join(err, rows.Close())
	}()

	var s schema
	for rows.Next() {
		var obj schemaObject
		if err = rows.Scan(&obj.typ, &obj.name, &obj.sql); err != nil {
			return nil, fmt.Errorf("scan %s schema: %w", database, err)
		}
		s = append(s, obj)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s schema: %w", database, err)
	}
	return s, nil
}

// rebuildTable migrates a table whose definition changed by creating the new definition under a temporary name,
// copying the common columns, dropping the old table and renaming the new one in its place.
func (db *Database) rebuildTable(ctx context.Context, tx *sql.Tx, want schemaObject) error {
	tempName := want.name + "_migration_temp"

	columns, err := commonColumns(ctx, tx, want.name)
	if err != nil {
		return err
	}
	common := strings.Join(columns, ", ")

	for _, stmt := range []string{
		strings.Replace(want.sql, want.name, tempName, 1),
		fmt.Sprintf("INSERT INTO %s (%s) SELECT %s FROM %s", tempName, common, common, want.name),
		"DROP TABLE " + want.name,
		fmt.Sprintf("ALTER TABLE %s RENAME TO %s", tempName, want.name),
	} {
		if err = db.exec(ctx, tx, stmt); err != nil {
			return fmt.Errorf("rebuild table %s: %w", want.name, err)
		}
	}
	return nil
}

// commonColumns lists the quoted names of the columns present in both the live and the target version of table.
func commonColumns(ctx context.Context, tx *sql.Tx, table string) (_ []string, err error) {
	rows, err := tx.QueryContext(ctx, `SELECT '"' || target.name || '"'
FROM PRAGMA_TABLE_INFO(:table_name) AS live
JOIN PRAGMA_TABLE_INFO(:table_name, 'schemaTarget') AS target ON target.name = live.name`,
		sql.Named("table_name", table))
	if err != nil {
		return nil, fmt.Errorf("query common columns: %w", err)
	}
	defer func() {
		err = errors.Join(err, rows.Close())
	}()

	var columns []string
	for rows.Next() {
		var column string
		if err = rows.Scan(&column); err != nil {
			return nil, fmt.Errorf("scan common column: %w", err)
		}
		columns = append(columns, column)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate common columns: %w", err)
	}
	return columns, nil
}

func (db *Database) exec(ctx context.Context, tx *sql.Tx, stmt string) error {
	db.logger.LogAttrs(ctx, slog.LevelInfo, "migrating", slog.String("query", stmt))
	if _, err := tx.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("exec %q: %w", stmt, err)
	}
	return nil
}
