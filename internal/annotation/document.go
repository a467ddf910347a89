package annotation

import (
	"regexp"

	"github.com/galahad-project/galahad/internal/errs"
)

// Well-known type-names and feature-name conventions recognized by the
// bundled format helpers and classifiers. The store itself does not enforce
// these — they are conventions, not schema constraints.
const (
	TypeToken      = "t.token"
	TypeSentence   = "t.sentence"
	TypeAnnotation = "t.annotation"
	FeatureValue   = "f.value"
)

// typeNameRegex matches annotation layer type-names: dot-separated segments
// of letters, digits, and underscores.
var typeNameRegex = regexp.MustCompile(`^[A-Za-z0-9_]+(\.[A-Za-z0-9_]+)*$`)

// ValidateTypeName fails if name does not match the type-name grammar.
func ValidateTypeName(name string) error {
	if !typeNameRegex.MatchString(name) {
		return errs.InvalidNamef("invalid annotation type name %q", name)
	}
	return nil
}

// Document is the wire shape exchanged with clients: a text, a version, and
// a mapping from type-name to Layer. json tags are the wire contract; Store
// wraps a Document to provide indexed operations over it.
type Document struct {
	Text        string           `json:"text"`
	Version     int              `json:"version"`
	Annotations map[string]Layer `json:"annotations,omitempty"`
}

// Validate checks that every Span in every Layer satisfies
// 0 <= begin <= end <= len(text), and that every type-name is well-formed.
func (d *Document) Validate() error {
	textLen := len([]rune(d.Text))
	for typeName, layer := range d.Annotations {
		if err := ValidateTypeName(typeName); err != nil {
			return err
		}
		for _, s := range layer {
			if s.Begin < 0 || s.Begin > s.End || s.End > textLen {
				return errs.InvalidNamef(
					"span [%d,%d) out of bounds for text of length %d in layer %q",
					s.Begin, s.End, textLen, typeName)
			}
		}
	}
	return nil
}
