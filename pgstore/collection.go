// Package pgstore implements repogen.Store on PostgreSQL. Each collection is a table
// holding one JSONB document per row:
//
//	seq BIGSERIAL, id TEXT PRIMARY KEY, doc JSONB
//
// Filters, orderings and updates are translated to JSONB expressions over doc, so any
// entity that encodes to a JSON object can be stored without a dedicated schema.
// Storage order is the order of seq, which is insertion order.
//
// Ordering ranks JSON types and compares values within a type as memstore does, with
// strings in byte order (COLLATE "C"). Arrays are the exception: they follow JSONB
// ordering, which puts shorter arrays first before comparing elements.
package pgstore

import (
	"context"

	"github.com/code19m/errx"
	"github.com/rise-and-shine/docrepo/pg"
	"github.com/uptrace/bun"
)

const defaultSchema = "public"

// row is a stored document.
type row struct {
	bun.BaseModel `bun:"table:documents,alias:d"`

	ID  string         `bun:"id,pk"`
	Doc map[string]any `bun:"doc,type:jsonb"`
}

// Collection is the raw handle of a collection table.
type Collection struct {
	db     bun.IDB
	schema string
	name   string
}

// Name returns the collection name, which is also the table name.
func (c *Collection) Name() string {
	return c.name
}

// Schema returns the schema holding the table.
func (c *Collection) Schema() string {
	return c.schema
}

// DB returns the database handle for native queries.
func (c *Collection) DB() bun.IDB {
	return c.db
}

// Count returns the number of stored documents.
func (c *Collection) Count(ctx context.Context) (int64, error) {
	q := c.selectRows(c.db, (*row)(nil))

	count, err := q.Count(ctx)
	if err != nil {
		return 0, errx.Wrap(err, errx.WithDetails(pg.ErrorDetails(err, q)))
	}
	return int64(count), nil
}

// Drop removes every document. The table itself is kept.
func (c *Collection) Drop(ctx context.Context) error {
	q := c.deleteRows(c.db).Where("TRUE")

	_, err := q.Exec(ctx)
	if err != nil {
		return errx.Wrap(err, errx.WithDetails(pg.ErrorDetails(err, q)))
	}
	return nil
}

// EnsureCreated creates the collection table when it does not exist yet.
func (c *Collection) EnsureCreated(ctx context.Context) error {
	q := c.db.NewRaw(
		"CREATE TABLE IF NOT EXISTS ?.? (seq BIGSERIAL NOT NULL, id TEXT PRIMARY KEY, doc JSONB NOT NULL)",
		bun.Ident(c.schema), bun.Ident(c.name),
	)

	_, err := q.Exec(ctx)
	if err != nil {
		return errx.Wrap(err, errx.WithDetails(pg.ErrorDetails(err, q)))
	}
	return nil
}

func (c *Collection) selectRows(idb bun.IDB, model any) *bun.SelectQuery {
	return idb.NewSelect().Model(model).ModelTableExpr("?.? AS d", bun.Ident(c.schema), bun.Ident(c.name))
}

func (c *Collection) insertRows(idb bun.IDB, model any) *bun.InsertQuery {
	return idb.NewInsert().Model(model).ModelTableExpr("?.?", bun.Ident(c.schema), bun.Ident(c.name))
}

func (c *Collection) updateRows(idb bun.IDB) *bun.UpdateQuery {
	return idb.NewUpdate().Model((*row)(nil)).ModelTableExpr("?.? AS d", bun.Ident(c.schema), bun.Ident(c.name))
}

func (c *Collection) deleteRows(idb bun.IDB) *bun.DeleteQuery {
	return idb.NewDelete().Model((*row)(nil)).ModelTableExpr("?.? AS d", bun.Ident(c.schema), bun.Ident(c.name))
}
