package query

import (
	"encoding/json"
	"fmt"

	"github.com/code19m/errx"
	"github.com/google/uuid"
)

// Document is the stored form of an entity: its JSON representation decoded into a map.
type Document map[string]any

// Encode converts an entity into a Document using its json tags.
func Encode(entity any) (Document, error) {
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	var doc Document
	err = json.Unmarshal(data, &doc)
	if err != nil {
		return nil, errx.New(
			fmt.Sprintf("entity of type %T does not encode to an object", entity),
			errx.WithCode(CodeInvalidEntity),
			errx.WithType(errx.T_Validation),
		)
	}

	return doc, nil
}

// Decode converts a Document back into an entity of type E.
func Decode[E any](doc Document) (E, error) {
	var entity E

	data, err := json.Marshal(doc)
	if err != nil {
		return entity, errx.Wrap(err)
	}

	err = json.Unmarshal(data, &entity)
	if err != nil {
		return entity, errx.Wrap(err, errx.WithDetails(errx.D{"document_id": fmt.Sprint(doc[string(IDKey)])}))
	}

	return entity, nil
}

// EncodeNew encodes an entity about to be inserted. When the entity has no identifier a
// random UUID is assigned and the returned entity carries it.
func EncodeNew[E any](entity E) (Document, E, error) {
	doc, err := Encode(entity)
	if err != nil {
		return nil, entity, err
	}

	if doc.ID() != "" {
		return doc, entity, nil
	}

	doc[string(IDKey)] = uuid.NewString()
	entity, err = Decode[E](doc)
	if err != nil {
		return nil, entity, err
	}
	return doc, entity, nil
}

// ID returns the identifier stored in the document, or an empty string.
func (d Document) ID() string {
	id, _ := d[string(IDKey)].(string)
	return id
}

// Lookup returns the value at key, following dotted paths into nested documents.
func (d Document) Lookup(key Key) (any, bool) {
	var current any = map[string]any(d)
	for _, segment := range key.Path() {
		m, ok := asMap(current)
		if !ok {
			return nil, false
		}
		current, ok = m[segment]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// Set stores value at key, creating intermediate documents as needed.
func (d Document) Set(key Key, value any) {
	path := key.Path()
	m := map[string]any(d)
	for _, segment := range path[:len(path)-1] {
		next, ok := asMap(m[segment])
		if !ok {
			next = map[string]any{}
			m[segment] = next
		}
		m = next
	}
	m[path[len(path)-1]] = value
}

// Unset removes the value at key. Missing paths are ignored.
func (d Document) Unset(key Key) {
	path := key.Path()
	m := map[string]any(d)
	for _, segment := range path[:len(path)-1] {
		next, ok := asMap(m[segment])
		if !ok {
			return
		}
		m = next
	}
	delete(m, path[len(path)-1])
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	return Document(cloneMap(d))
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case Document:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = cloneValue(t[i])
		}
		return out
	default:
		return v
	}
}

func asMap(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case Document:
		return t, true
	default:
		return nil, false
	}
}

// normalize brings an arbitrary Go value into the shape it has inside a decoded
// Document: numbers become float64, times become strings, structs become maps.
func normalize(v any) any {
	switch t := v.(type) {
	case nil, string, bool, float64:
		return v
	case Document:
		return map[string]any(t)
	}

	data, err := json.Marshal(v)
	if err != nil {
		return v
	}

	var out any
	if err = json.Unmarshal(data, &out); err != nil {
		return v
	}
	return out
}

// Normalize is the exported form of normalize for stores that persist filter and
// update values outside of Go, so that they are stored exactly as Encode stores them.
func Normalize(v any) any {
	return normalize(v)
}
