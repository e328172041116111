package domain

// Schema maps each canonical field to the raw column index it was found at.
// It is resolved once at ingestion; downstream code asks Has instead of
// probing column names.
type Schema struct {
	columns map[Field]int
}

// ResolveSchema matches a raw header row against the canonical fields.
// Unrecognized columns are ignored. When a column name repeats, the first
// occurrence wins.
func ResolveSchema(header []string) Schema {
	s := Schema{columns: make(map[Field]int)}
	for i, name := range header {
		f, ok := ParseField(name)
		if !ok {
			continue
		}
		if _, dup := s.columns[f]; dup {
			continue
		}
		s.columns[f] = i
	}
	return s
}

// NewSchema builds a schema that marks the given fields present. Column
// indexes follow argument order.
func NewSchema(fields ...Field) Schema {
	s := Schema{columns: make(map[Field]int, len(fields))}
	for i, f := range fields {
		s.columns[f] = i
	}
	return s
}

// Has reports whether the field was present in the source.
func (s Schema) Has(f Field) bool {
	_, ok := s.columns[f]
	return ok
}

// Index returns the raw column index of the field.
func (s Schema) Index(f Field) (int, bool) {
	i, ok := s.columns[f]
	return i, ok
}

// Fields returns the present fields in canonical order.
func (s Schema) Fields() []Field {
	var out []Field
	for _, f := range AllFields() {
		if s.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

// NumericFields returns the present numeric fields in canonical order.
func (s Schema) NumericFields() []Field {
	var out []Field
	for _, f := range NumericFields() {
		if s.Has(f) {
			out = append(out, f)
		}
	}
	return out
}
