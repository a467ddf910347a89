package annotation

import "sort"

// Store is a per-document in-memory index offering ordered insertion and
// sub-linear range queries over a Document's annotation layers. Positions
// are code-point (rune) indices into Text, kept UTF-16-agnostic so offsets
// are stable regardless of the client's own string encoding.
type Store struct {
	text    string
	runes   []rune
	version int
	layers  map[string]Layer
}

// FromSerialized builds a Store from a wire Document, preserving every
// provided Span and its canonical order.
func FromSerialized(doc Document) (*Store, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	layers := make(map[string]Layer, len(doc.Annotations))
	for typeName, layer := range doc.Annotations {
		sorted := layer.clone()
		sort.Sort(sorted)
		layers[typeName] = sorted
	}
	return &Store{
		text:    doc.Text,
		runes:   []rune(doc.Text),
		version: doc.Version,
		layers:  layers,
	}, nil
}

// New creates an empty Store over text with version 0.
func New(text string) *Store {
	return &Store{text: text, runes: []rune(text), layers: make(map[string]Layer)}
}

// Text returns the store's source text.
func (s *Store) Text() string { return s.text }

// Version returns the store's version.
func (s *Store) Version() int { return s.version }

// SetVersion overwrites the version. Callers are expected to convey
// monotonically-non-decreasing versions by convention; this is not enforced.
func (s *Store) SetVersion(v int) { s.version = v }

// Create appends a new Span into the Layer for typeName, keeping sort order,
// and returns the created Span.
func (s *Store) Create(typeName string, begin, end int, features map[string]Feature) (Span, error) {
	if err := ValidateTypeName(typeName); err != nil {
		return Span{}, err
	}
	span := Span{Begin: begin, End: end, Features: features}
	doc := Document{Text: s.text, Annotations: map[string]Layer{typeName: {span}}}
	if err := doc.Validate(); err != nil {
		return Span{}, err
	}
	s.layers[typeName] = insertSorted(s.layers[typeName], span)
	return span, nil
}

// Select returns the Layer for typeName in canonical order; an empty Layer
// for unknown types.
func (s *Store) Select(typeName string) Layer {
	return s.layers[typeName].clone()
}

// SelectCovered returns the Spans of typeName fully contained within cover
// ([cover.Begin, cover.End]), in canonical order. Two binary searches
// isolate the candidate window keyed by (begin, end); a linear filter inside
// that window applies the containment predicate. The window bounds are
// chosen inclusively so Spans with begin == cover.Begin or end == cover.End
// are never missed.
func (s *Store) SelectCovered(typeName string, cover Span) []Span {
	layer := s.layers[typeName]
	if len(layer) == 0 {
		return nil
	}

	// Lower bound: first index whose begin is >= cover.Begin is NOT what we
	// want directly, since a Span with begin < cover.Begin could still be
	// the covering predicate's concern if end <= cover.End — but containment
	// requires begin >= cover.Begin too, so the candidate window's lower
	// edge is exactly the first Span with begin >= cover.Begin.
	lo := sort.Search(len(layer), func(i int) bool {
		return layer[i].Begin >= cover.Begin
	})
	// Upper bound: first index whose begin is > cover.End; no Span at or
	// past this index can satisfy begin <= cover.End (a precondition of
	// containment, since end >= begin >= cover.Begin and we need end <=
	// cover.End, so begin <= cover.End is necessary too).
	hi := sort.Search(len(layer), func(i int) bool {
		return layer[i].Begin > cover.End
	})

	var out []Span
	for _, span := range layer[lo:hi] {
		if span.Begin >= cover.Begin && span.End <= cover.End {
			out = append(out, span)
		}
	}
	return out
}

// CoveredText returns the substring of the store's text within span,
// indexed by code point.
func (s *Store) CoveredText(span Span) string {
	if span.Begin < 0 || span.End > len(s.runes) || span.Begin > span.End {
		return ""
	}
	return string(s.runes[span.Begin:span.End])
}

// ToSerialized returns the wire Document, the inverse of FromSerialized.
func (s *Store) ToSerialized() Document {
	annotations := make(map[string]Layer, len(s.layers))
	for typeName, layer := range s.layers {
		annotations[typeName] = layer.clone()
	}
	return Document{Text: s.text, Version: s.version, Annotations: annotations}
}
