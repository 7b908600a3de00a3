package fields

import "strings"

// Kind identifies a field template.
type Kind string

const (
	KindInput    Kind = "input"
	KindTextarea Kind = "textarea"
	KindSelect   Kind = "select"
	KindOption   Kind = "option"
	KindButton   Kind = "button"
	KindLabel    Kind = "label"
)

var kinds = []Kind{KindInput, KindTextarea, KindSelect, KindOption, KindButton, KindLabel}

// Kinds returns every built-in kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

// ParseKind normalises raw and reports whether it names a built-in kind.
func ParseKind(raw string) (Kind, bool) {
	k := Kind(strings.ToLower(strings.TrimSpace(raw)))
	return k, k.Valid()
}

// Valid reports whether k is a built-in kind.
func (k Kind) Valid() bool {
	for _, candidate := range kinds {
		if k == candidate {
			return true
		}
	}
	return false
}

func (k Kind) String() string {
	return string(k)
}
