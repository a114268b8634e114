// Package domain defines the protected-field model: which attributes of an
// entity are sensitive, the closed key taxonomy shared by the write guard and
// the payload sanitizer, and the guard error taxonomy.
package domain

// FieldSpec declares one sensitive attribute of a guarded entity.
type FieldSpec struct {
	// Name is the attribute name as used in field maps and audit records.
	Name string
	// Lookup indicates the field supports equality search through a keyed
	// lookup hash stored next to the ciphertext.
	Lookup bool
}

// FieldSet is the declared sensitive-field set of one entity type. The guard
// refuses to commit a write unless every field in the set is proven encrypted.
type FieldSet struct {
	Entity string
	Fields []FieldSpec
}

// Names returns the declared field names in declaration order.
func (f FieldSet) Names() []string {
	names := make([]string, len(f.Fields))
	for i, spec := range f.Fields {
		names[i] = spec.Name
	}
	return names
}

// SupportsLookup reports whether the named field carries a lookup hash.
func (f FieldSet) SupportsLookup(name string) bool {
	for _, spec := range f.Fields {
		if spec.Name == name {
			return spec.Lookup
		}
	}
	return false
}

// Contains reports whether the named field is part of the set.
func (f FieldSet) Contains(name string) bool {
	for _, spec := range f.Fields {
		if spec.Name == name {
			return true
		}
	}
	return false
}
