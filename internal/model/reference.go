package model

// Reference represents a citation extracted from the source article
type Reference struct {
	Key  string  `json:"key"`           // Opaque marker id; alphanumeric, not necessarily numeric
	Text string  `json:"text"`          // Rendered citation text
	URL  string  `json:"url,omitempty"` // External URL, if the citation has one
	Kind RefKind `json:"kind"`          // reference or note
}

// RefKind classifies a reference entry
type RefKind string

const (
	RefKindReference RefKind = "reference" // Numbered citation
	RefKindNote      RefKind = "note"      // Footnote without a numeric marker
)

// FindRef returns the reference whose key exactly equals the marker key.
// Keys may be letters, so no numeric coercion is performed.
func FindRef(refs []Reference, key string) (Reference, bool) {
	for _, r := range refs {
		if r.Key == key {
			return r, true
		}
	}
	return Reference{}, false
}
