package reconcile

import (
	"strings"

	"go.uber.org/zap"
)

// Field is one (name, value) pair extracted from a fetched item.
// Err is set when the value could not be extracted; such pairs are skipped.
type Field struct {
	Name  string
	Value string
	Err   error
}

// Record is an insertion-ordered mapping from lowercase field name to value.
// Records are never mutated after FromParsedFields returns.
type Record struct {
	names  []string
	values map[string]string
}

// FromParsedFields builds a Record from the pairs of one parsed item and registers every
// field name with fields. Names are lowercased; a repeated name overwrites the earlier value
// but keeps its original position. Pairs carrying an extraction error are logged and skipped.
func FromParsedFields(pairs []Field, fields *FieldSet, log *zap.Logger) Record {
	if log == nil {
		log = zap.NewNop()
	}

	r := Record{values: make(map[string]string, len(pairs))}
	for _, p := range pairs {
		name := normalize(p.Name)
		if p.Err != nil {
			log.Warn("Skipping unreadable field",
				zap.String("field", name),
				zap.Error(p.Err),
			)
			continue
		}
		if name == "" {
			log.Warn("Skipping field without a name", zap.String("value", p.Value))
			continue
		}

		if _, exists := r.values[name]; !exists {
			r.names = append(r.names, name)
		}
		r.values[name] = p.Value

		if fields != nil {
			fields.Register(name)
		}
	}
	return r
}

// Get returns the value for a field name (any case) and whether the record has it.
func (r Record) Get(name string) (string, bool) {
	v, ok := r.values[normalize(name)]
	return v, ok
}

// Key returns the value of the identity field, or "" if the record has none.
func (r Record) Key(keyField string) string {
	return r.values[normalize(keyField)]
}

// Names returns the record's field names in insertion order.
func (r Record) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Len returns the number of fields on the record.
func (r Record) Len() int {
	return len(r.names)
}

// Map returns a copy of the record's fields.
func (r Record) Map() map[string]string {
	out := make(map[string]string, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

// Project returns the record's values laid out along columns. Columns the record has no value
// for are nil, so callers can leave those cells untouched.
func (r Record) Project(columns []string) []*string {
	out := make([]*string, len(columns))
	for i, name := range columns {
		if v, ok := r.values[name]; ok {
			out[i] = &v
		}
	}
	return out
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
