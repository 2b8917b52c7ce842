package pgstore

import (
	"context"
	"fmt"

	"github.com/code19m/errx"
	"github.com/rise-and-shine/docrepo/pg"
	"github.com/rise-and-shine/docrepo/query"
	"github.com/rise-and-shine/docrepo/repogen"
	"github.com/uptrace/bun"
)

// largeBatchSize is the batch size from which failed statements are not attached to
// errors, to keep error details small.
const largeBatchSize = 10

func (s *Store[E]) Insert(ctx context.Context, entity *E) error {
	doc, stored, err := query.EncodeNew(*entity)
	if err != nil {
		return err
	}

	r := &row{ID: doc.ID(), Doc: doc}
	q := s.coll.insertRows(s.coll.db, r)

	_, err = q.Exec(ctx)
	if err != nil {
		if pg.IsConflict(err) {
			return alreadyExists(s.coll.name, doc.ID(), err)
		}
		return errx.Wrap(err, errx.WithDetails(pg.ErrorDetails(err, q)))
	}

	*entity = stored
	return nil
}

// InsertMany stores the batch in one statement, so either every entity is stored or
// none is. Generated identifiers are written back into entities.
func (s *Store[E]) InsertMany(ctx context.Context, entities []E) error {
	if len(entities) == 0 {
		return nil
	}

	rows := make([]row, len(entities))
	stored := make([]E, len(entities))
	for i, entity := range entities {
		doc, e, err := query.EncodeNew(entity)
		if err != nil {
			return err
		}
		rows[i] = row{ID: doc.ID(), Doc: doc}
		stored[i] = e
	}

	q := s.coll.insertRows(s.coll.db, &rows)

	_, err := q.Exec(ctx)
	if err != nil {
		if len(rows) > largeBatchSize {
			q = nil
		}
		if pg.IsConflict(err) {
			return alreadyExists(s.coll.name, "", err)
		}
		return errx.Wrap(err, errx.WithDetails(pg.ErrorDetails(err, q)))
	}

	copy(entities, stored)
	return nil
}

// Replace overwrites the stored document. Replacing an identifier that is not stored
// does nothing.
func (s *Store[E]) Replace(ctx context.Context, entity E) error {
	return s.ReplaceMany(ctx, []E{entity})
}

func (s *Store[E]) ReplaceMany(ctx context.Context, entities []E) error {
	docs := make([]query.Document, 0, len(entities))
	for _, entity := range entities {
		if entity.GetID() == "" {
			return errx.New(
				fmt.Sprintf("entity without identifier cannot be stored in %s", s.coll.name),
				errx.WithCode(query.CodeInvalidEntity),
				errx.WithType(errx.T_Validation),
			)
		}
		doc, err := query.Encode(entity)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
	}
	if len(docs) == 0 {
		return nil
	}

	return s.coll.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, doc := range docs {
			v, err := jsonValue(doc)
			if err != nil {
				return err
			}

			q := s.coll.updateRows(tx).Set("doc = ?::jsonb", v.v).Where(idColumn+" = ?", doc.ID())
			_, err = q.Exec(ctx)
			if err != nil {
				return errx.Wrap(err, errx.WithDetails(pg.ErrorDetails(err, q)))
			}
		}
		return nil
	})
}

// Delete removes the document. Deleting an identifier that is not stored does nothing.
func (s *Store[E]) Delete(ctx context.Context, id string) error {
	return s.DeleteMatching(ctx, query.ID(id))
}

func (s *Store[E]) DeleteEntity(ctx context.Context, entity E) error {
	return s.Delete(ctx, entity.GetID())
}

func (s *Store[E]) DeleteMatching(ctx context.Context, f query.Filter) error {
	where, err := filterSQL(f)
	if err != nil {
		return err
	}

	q := s.coll.deleteRows(s.coll.db).Where(where.sql, where.args...)

	_, err = q.Exec(ctx)
	if err != nil {
		return errx.Wrap(err, errx.WithDetails(pg.ErrorDetails(err, q)))
	}
	return nil
}

func (s *Store[E]) Update(ctx context.Context, entity E, u query.Update) (bool, error) {
	return s.UpdateMatching(ctx, query.ID(entity.GetID()), u)
}

// UpdateMatching locks the matching rows, then applies each operation of u as its
// own statement. Everything runs in one transaction: a failing operation leaves every
// document unchanged.
func (s *Store[E]) UpdateMatching(ctx context.Context, f query.Filter, u query.Update) (bool, error) {
	sets, err := updateSQL(u)
	if err != nil {
		return false, err
	}
	where, err := filterSQL(f)
	if err != nil {
		return false, err
	}

	var updated bool
	err = s.coll.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var ids []string
		sel := s.coll.selectRows(tx, (*row)(nil)).
			ColumnExpr(idColumn).
			Where(where.sql, where.args...).
			For("UPDATE")
		if scanErr := sel.Scan(ctx, &ids); scanErr != nil {
			return errx.Wrap(scanErr, errx.WithDetails(pg.ErrorDetails(scanErr, sel)))
		}
		if len(ids) == 0 {
			return nil
		}

		for _, set := range sets {
			q := s.coll.updateRows(tx).Set(set.sql, set.args...).Where(idColumn+" IN (?)", bun.In(ids))
			if _, execErr := q.Exec(ctx); execErr != nil {
				if pg.IsInvalidInput(execErr) {
					return errx.New(
						"increment of a non numeric field",
						errx.WithCode(query.CodeNotNumeric),
						errx.WithType(errx.T_Validation),
						errx.WithDetails(pg.ErrorDetails(execErr, q)),
					)
				}
				return errx.Wrap(execErr, errx.WithDetails(pg.ErrorDetails(execErr, q)))
			}
		}

		updated = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return updated, nil
}

func (s *Store[E]) UpdateField(ctx context.Context, entity E, field query.Key, value any) (bool, error) {
	return s.Update(ctx, entity, query.Set(field, value))
}

func (s *Store[E]) UpdateFieldMatching(
	ctx context.Context, f query.Filter, field query.Key, value any,
) (bool, error) {
	return s.UpdateMatching(ctx, f, query.Set(field, value))
}

func alreadyExists(collection, id string, err error) error {
	details := pg.ErrorDetails(err, nil)
	details["collection"] = collection
	if id != "" {
		details["id"] = id
	}

	return errx.New(
		fmt.Sprintf("document already exists in %s", collection),
		errx.WithCode(repogen.CodeAlreadyExists),
		errx.WithType(errx.T_Conflict),
		errx.WithDetails(details),
	)
}
