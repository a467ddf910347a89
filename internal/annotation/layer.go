package annotation

import "sort"

// Layer is an ordered collection of Spans, sorted by (begin, end) ascending.
// Multiple Spans may share offsets.
type Layer []Span

func (l Layer) Len() int           { return len(l) }
func (l Layer) Less(i, j int) bool { return l[i].less(l[j]) }
func (l Layer) Swap(i, j int)      { l[i], l[j] = l[j], l[i] }

var _ sort.Interface = Layer(nil)

// insertSorted inserts s into l keeping canonical order, and returns the
// resulting Layer (append may reallocate).
func insertSorted(l Layer, s Span) Layer {
	idx := sort.Search(len(l), func(i int) bool { return s.less(l[i]) })
	l = append(l, Span{})
	copy(l[idx+1:], l[idx:])
	l[idx] = s
	return l
}

// clone returns a defensive copy so callers can't mutate a Layer returned by
// Select/SelectCovered out from under the Store.
func (l Layer) clone() Layer {
	if l == nil {
		return nil
	}
	out := make(Layer, len(l))
	copy(out, l)
	return out
}
