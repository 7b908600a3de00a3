package fields

// Entry is one slot of a Registry. The set of implementations is closed:
// Leaf, LabeledLeaf and Group.
type Entry interface {
	// Named returns the first field of the entry that carries a name, or nil.
	Named() *Field
	// Fields returns every field of the entry in render order, labels
	// included.
	Fields() []*Field

	entry()
}

// Leaf is a single field.
type Leaf struct {
	Field *Field
}

// LabeledLeaf is a label rendered immediately before its field.
type LabeledLeaf struct {
	Label *Field
	Field *Field
}

// Group is a nested ordered sequence rendered inside one container.
type Group struct {
	Entries []Entry
}

func (Leaf) entry()        {}
func (LabeledLeaf) entry() {}
func (Group) entry()       {}

func (l Leaf) Named() *Field {
	if l.Field.Name() != "" {
		return l.Field
	}
	return nil
}

func (l Leaf) Fields() []*Field {
	if l.Field == nil {
		return nil
	}
	return []*Field{l.Field}
}

func (p LabeledLeaf) Named() *Field {
	for _, f := range []*Field{p.Label, p.Field} {
		if f.Name() != "" {
			return f
		}
	}
	return nil
}

func (p LabeledLeaf) Fields() []*Field {
	var out []*Field
	if p.Label != nil {
		out = append(out, p.Label)
	}
	if p.Field != nil {
		out = append(out, p.Field)
	}
	return out
}

func (g Group) Named() *Field {
	for _, e := range g.Entries {
		if e == nil {
			continue
		}
		if f := e.Named(); f != nil {
			return f
		}
	}
	return nil
}

func (g Group) Fields() []*Field {
	var out []*Field
	for _, e := range g.Entries {
		if e == nil {
			continue
		}
		out = append(out, e.Fields()...)
	}
	return out
}

// Leaves returns the non-label fields of e in render order.
func Leaves(e Entry) []*Field {
	if e == nil {
		return nil
	}
	var out []*Field
	for _, f := range e.Fields() {
		if f != nil && f.Kind() != KindLabel {
			out = append(out, f)
		}
	}
	return out
}
