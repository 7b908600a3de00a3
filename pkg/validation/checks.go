package validation

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/dlclark/regexp2"

	"github.com/goliatone/go-formbuilder/pkg/fields"
)

// Constraint attributes read at check time.
const (
	AttrPattern   = "pattern"
	AttrRequired  = "required"
	AttrMinLength = "minlength"
	AttrMaxLength = "maxlength"
)

// patternTimeout bounds a single pattern evaluation.
const patternTimeout = 250 * time.Millisecond

type check func(f *fields.Field, value string) (string, bool)

// capabilities is the dispatch table from kind to the checks its fields
// carry. Checks run in order and the first failure wins.
var capabilities = map[fields.Kind][]check{
	fields.KindInput:    {checkRequired, checkMinLength, checkMaxLength, checkPattern},
	fields.KindTextarea: {checkRequired, checkMinLength, checkMaxLength, checkPattern},
	fields.KindSelect:   {checkRequired},
}

type kindChecker []check

func (c kindChecker) Check(f *fields.Field) fields.CheckResult {
	value := f.Value()
	for _, fn := range c {
		if msg, ok := fn(f, value); !ok {
			return fields.CheckResult{Message: msg}
		}
	}
	return fields.CheckResult{Valid: true}
}

// CheckerFor returns the checker for kind, or false when fields of that kind
// carry no validation capability.
func CheckerFor(kind fields.Kind) (fields.Checker, bool) {
	checks, ok := capabilities[kind]
	if !ok {
		return nil, false
	}
	return kindChecker(checks), true
}

// Attach gives f the capability of its kind. It reports whether one was
// attached.
func Attach(f *fields.Field) bool {
	if f == nil {
		return false
	}
	checker, ok := CheckerFor(f.Kind())
	if !ok {
		return false
	}
	f.AttachChecker(checker)
	return true
}

func checkRequired(f *fields.Field, value string) (string, bool) {
	if !f.Element().HasAttribute(AttrRequired) {
		return "", true
	}
	if value == "" {
		return "value is required", false
	}
	return "", true
}

func checkMinLength(f *fields.Field, value string) (string, bool) {
	limit, ok := intAttr(f, AttrMinLength)
	if !ok || value == "" {
		return "", true
	}
	if utf8.RuneCountInString(value) < limit {
		return fmt.Sprintf("value must be at least %d characters", limit), false
	}
	return "", true
}

func checkMaxLength(f *fields.Field, value string) (string, bool) {
	limit, ok := intAttr(f, AttrMaxLength)
	if !ok {
		return "", true
	}
	if utf8.RuneCountInString(value) > limit {
		return fmt.Sprintf("value must be at most %d characters", limit), false
	}
	return "", true
}

func checkPattern(f *fields.Field, value string) (string, bool) {
	pattern, ok := f.Element().Attr(AttrPattern)
	if !ok {
		return "", true
	}
	re, err := compilePattern(pattern)
	if err != nil {
		return fmt.Sprintf("invalid pattern /%s/: %v", pattern, err), false
	}
	matched, err := re.MatchString(value)
	if err != nil {
		return fmt.Sprintf("invalid pattern /%s/: %v", pattern, err), false
	}
	if !matched {
		return fmt.Sprintf("pattern mismatch: expected /%s/", pattern), false
	}
	return "", true
}

var patterns sync.Map

// compilePattern anchors pattern the way the HTML pattern attribute does and
// compiles it with ECMAScript semantics. Results are cached.
func compilePattern(pattern string) (*regexp2.Regexp, error) {
	if cached, ok := patterns.Load(pattern); ok {
		return cached.(*regexp2.Regexp), nil
	}
	re, err := regexp2.Compile("^(?:"+pattern+")$", regexp2.ECMAScript)
	if err != nil {
		return nil, err
	}
	re.MatchTimeout = patternTimeout
	patterns.Store(pattern, re)
	return re, nil
}

func intAttr(f *fields.Field, key string) (int, bool) {
	raw, ok := f.Element().Attr(key)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
