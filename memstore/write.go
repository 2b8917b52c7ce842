package memstore

import (
	"context"

	"github.com/code19m/errx"
	"github.com/rise-and-shine/docrepo/query"
)

func (s *Store[E]) Insert(ctx context.Context, entity *E) error {
	if err := ctx.Err(); err != nil {
		return errx.Wrap(err)
	}

	doc, stored, err := query.EncodeNew(*entity)
	if err != nil {
		return err
	}

	s.coll.mu.Lock()
	defer s.coll.mu.Unlock()

	if _, ok := s.coll.docs[doc.ID()]; ok {
		return alreadyExists(s.coll.name, doc.ID())
	}
	s.coll.docs[doc.ID()] = doc
	s.coll.order = append(s.coll.order, doc.ID())

	*entity = stored
	return nil
}

// InsertMany stores the whole batch or nothing. Generated identifiers are written
// back into entities.
func (s *Store[E]) InsertMany(ctx context.Context, entities []E) error {
	if err := ctx.Err(); err != nil {
		return errx.Wrap(err)
	}

	docs := make([]query.Document, len(entities))
	stored := make([]E, len(entities))
	for i, entity := range entities {
		doc, e, err := query.EncodeNew(entity)
		if err != nil {
			return err
		}
		docs[i], stored[i] = doc, e
	}

	s.coll.mu.Lock()
	defer s.coll.mu.Unlock()

	seen := make(map[string]struct{}, len(docs))
	for _, doc := range docs {
		id := doc.ID()
		if _, ok := s.coll.docs[id]; ok {
			return alreadyExists(s.coll.name, id)
		}
		if _, ok := seen[id]; ok {
			return alreadyExists(s.coll.name, id)
		}
		seen[id] = struct{}{}
	}

	for _, doc := range docs {
		s.coll.docs[doc.ID()] = doc
		s.coll.order = append(s.coll.order, doc.ID())
	}
	copy(entities, stored)
	return nil
}

// Replace overwrites the stored document in place. Replacing an identifier that is
// not stored does nothing.
func (s *Store[E]) Replace(ctx context.Context, entity E) error {
	return s.ReplaceMany(ctx, []E{entity})
}

func (s *Store[E]) ReplaceMany(ctx context.Context, entities []E) error {
	if err := ctx.Err(); err != nil {
		return errx.Wrap(err)
	}

	docs := make([]query.Document, 0, len(entities))
	for _, entity := range entities {
		if entity.GetID() == "" {
			return missingID(s.coll.name)
		}
		doc, err := query.Encode(entity)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
	}

	s.coll.mu.Lock()
	defer s.coll.mu.Unlock()

	for _, doc := range docs {
		if _, ok := s.coll.docs[doc.ID()]; ok {
			s.coll.docs[doc.ID()] = doc
		}
	}
	return nil
}

// Delete removes the document. Deleting an identifier that is not stored does nothing.
func (s *Store[E]) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return errx.Wrap(err)
	}

	s.coll.mu.Lock()
	defer s.coll.mu.Unlock()

	if _, ok := s.coll.docs[id]; ok {
		s.coll.removeLocked(id)
	}
	return nil
}

func (s *Store[E]) DeleteEntity(ctx context.Context, entity E) error {
	return s.Delete(ctx, entity.GetID())
}

func (s *Store[E]) DeleteMatching(ctx context.Context, f query.Filter) error {
	if err := ctx.Err(); err != nil {
		return errx.Wrap(err)
	}

	s.coll.mu.Lock()
	defer s.coll.mu.Unlock()

	var ids []string
	for _, id := range s.coll.order {
		if f.Match(s.coll.docs[id]) {
			ids = append(ids, id)
		}
	}
	s.coll.removeLocked(ids...)
	return nil
}

func (s *Store[E]) Update(ctx context.Context, entity E, u query.Update) (bool, error) {
	return s.UpdateMatching(ctx, query.ID(entity.GetID()), u)
}

// UpdateMatching applies u to every match atomically: when u fails on one document
// none of them change.
func (s *Store[E]) UpdateMatching(ctx context.Context, f query.Filter, u query.Update) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, errx.Wrap(err)
	}
	if err := u.Validate(); err != nil {
		return false, err
	}

	s.coll.mu.Lock()
	defer s.coll.mu.Unlock()

	updated := make(map[string]query.Document)
	for _, id := range s.coll.order {
		doc := s.coll.docs[id]
		if !f.Match(doc) {
			continue
		}
		next, err := u.Apply(doc)
		if err != nil {
			return false, err
		}
		updated[id] = next
	}

	for id, doc := range updated {
		s.coll.docs[id] = doc
	}
	return len(updated) > 0, nil
}

func (s *Store[E]) UpdateField(ctx context.Context, entity E, field query.Key, value any) (bool, error) {
	return s.Update(ctx, entity, query.Set(field, value))
}

func (s *Store[E]) UpdateFieldMatching(
	ctx context.Context, f query.Filter, field query.Key, value any,
) (bool, error) {
	return s.UpdateMatching(ctx, f, query.Set(field, value))
}
