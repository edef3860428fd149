package reconcile

// FieldSet tracks the union of field names seen across one batch, in first-discovery order.
// A FieldSet belongs to a single run; create a new one for every run.
type FieldSet struct {
	seen  map[string]struct{}
	order []string
}

// NewFieldSet returns an empty FieldSet.
func NewFieldSet() *FieldSet {
	return &FieldSet{seen: make(map[string]struct{})}
}

// Register records name (lowercased). Names already seen are ignored.
func (f *FieldSet) Register(name string) {
	name = normalize(name)
	if name == "" {
		return
	}
	if _, ok := f.seen[name]; ok {
		return
	}
	f.seen[name] = struct{}{}
	f.order = append(f.order, name)
}

// Has reports whether name (any case) has been registered.
func (f *FieldSet) Has(name string) bool {
	_, ok := f.seen[normalize(name)]
	return ok
}

// Names returns a copy of the registered names in discovery order.
func (f *FieldSet) Names() []string {
	out := make([]string, len(f.order))
	copy(out, f.order)
	return out
}

// Len returns the number of distinct names registered.
func (f *FieldSet) Len() int {
	return len(f.order)
}
