package query

// Projection selects which fields of a document are returned.
// The identifier is always kept.
type Projection struct {
	include []Key
	exclude []Key
}

// Include keeps only the given fields.
func Include(keys ...Key) Projection { return Projection{include: keys} }

// Exclude drops the given fields.
func Exclude(keys ...Key) Projection { return Projection{exclude: keys} }

// Included returns the kept fields, empty when the projection excludes instead.
func (p Projection) Included() []Key { return p.include }

// Excluded returns the dropped fields.
func (p Projection) Excluded() []Key { return p.exclude }

// Apply returns the projected copy of doc.
func (p Projection) Apply(doc Document) Document {
	if len(p.include) == 0 {
		out := doc.Clone()
		for _, k := range p.exclude {
			if k != IDKey {
				out.Unset(k)
			}
		}
		return out
	}

	out := Document{}
	if id, ok := doc[string(IDKey)]; ok {
		out[string(IDKey)] = id
	}
	for _, k := range p.include {
		if v, ok := doc.Lookup(k); ok {
			out.Set(k, cloneValue(v))
		}
	}
	return out
}

// ProjectionBuilder builds projections for one collection.
type ProjectionBuilder struct {
	collection string
}

// NewProjectionBuilder returns a builder bound to the named collection.
func NewProjectionBuilder(collection string) *ProjectionBuilder {
	return &ProjectionBuilder{collection: collection}
}

// Collection returns the name of the collection the builder belongs to.
func (b *ProjectionBuilder) Collection() string { return b.collection }

func (b *ProjectionBuilder) Include(keys ...Key) Projection { return Include(keys...) }
func (b *ProjectionBuilder) Exclude(keys ...Key) Projection { return Exclude(keys...) }
