// Package fields defines the field node, the closed set of registry entry
// variants (Leaf, LabeledLeaf, Group) and the ordered Registry that feeds the
// renderer, the validator and submission.
//
// It also owns the error taxonomy shared by the other packages:
// ErrConfiguration and ErrUsage categories wrapped by concrete sentinels.
package fields
