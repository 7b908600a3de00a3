package fields

import (
	"errors"
	"fmt"
)

// Error categories. Every concrete error below wraps exactly one of them so
// callers can branch on the category with errors.Is.
var (
	// ErrConfiguration marks setup problems such as a missing mount point.
	ErrConfiguration = errors.New("formbuilder: configuration error")
	// ErrUsage marks programmer errors such as unknown kinds or names.
	ErrUsage = errors.New("formbuilder: usage error")
)

var (
	ErrNoMount        = fmt.Errorf("%w: no mount point configured", ErrConfiguration)
	ErrMountNotFound  = fmt.Errorf("%w: mount point not found", ErrConfiguration)
	ErrUnknownEvent   = fmt.Errorf("%w: unknown event kind", ErrUsage)
	ErrUnknownKind    = fmt.Errorf("%w: unknown field kind", ErrUsage)
	ErrFieldNotFound  = fmt.Errorf("%w: field not found", ErrUsage)
	ErrOptionNotFound = fmt.Errorf("%w: option not found", ErrUsage)
)
