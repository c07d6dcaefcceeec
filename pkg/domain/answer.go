package domain

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// AnswerKind tags the variant held by an Answer.
type AnswerKind int

const (
	KindNone AnswerKind = iota
	KindString
	KindNumber
	KindList
	KindOpaque
)

func (k AnswerKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindList:
		return "list"
	case KindOpaque:
		return "opaque"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Answer is the value of a single step. It is a closed union:
// String for single-choice and text-input, Number for number-input,
// List for multi-choice and Opaque for custom steps.
// The zero value holds no answer.
type Answer struct {
	kind   AnswerKind
	str    string
	num    float64
	list   []string
	opaque any
}

// None returns an empty answer.
func None() Answer { return Answer{} }

// String wraps a text or single-choice value.
func String(s string) Answer { return Answer{kind: KindString, str: s} }

// Number wraps a numeric value.
func Number(f float64) Answer { return Answer{kind: KindNumber, num: f} }

// List wraps a multi-choice selection. Duplicates are dropped, keeping the first occurrence.
func List(values ...string) Answer {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return Answer{kind: KindList, list: out}
}

// Opaque wraps a payload produced by a custom step.
func Opaque(v any) Answer { return Answer{kind: KindOpaque, opaque: v} }

// Kind returns the variant tag.
func (a Answer) Kind() AnswerKind { return a.kind }

// AsString returns the string payload.
func (a Answer) AsString() (string, bool) {
	return a.str, a.kind == KindString
}

// AsNumber returns the numeric payload.
func (a Answer) AsNumber() (float64, bool) {
	return a.num, a.kind == KindNumber
}

// AsList returns a copy of the selection.
func (a Answer) AsList() ([]string, bool) {
	if a.kind != KindList {
		return nil, false
	}
	return slices.Clone(a.list), true
}

// Contains reports whether a list answer holds value.
func (a Answer) Contains(value string) bool {
	return a.kind == KindList && slices.Contains(a.list, value)
}

// IsEmpty reports whether the answer carries nothing a user entered:
// no value, an empty string or an empty selection.
func (a Answer) IsEmpty() bool {
	switch a.kind {
	case KindNone:
		return true
	case KindString:
		return a.str == ""
	case KindList:
		return len(a.list) == 0
	}
	return false
}

// Value returns the payload as a plain Go value (string, float64, []string, any or nil).
func (a Answer) Value() any {
	switch a.kind {
	case KindString:
		return a.str
	case KindNumber:
		return a.num
	case KindList:
		return slices.Clone(a.list)
	case KindOpaque:
		return a.opaque
	}
	return nil
}

// Equal reports whether both answers hold the same variant and payload.
// Opaque payloads are compared by their JSON encoding.
func (a Answer) Equal(b Answer) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindString:
		return a.str == b.str
	case KindNumber:
		return a.num == b.num
	case KindList:
		return slices.Equal(a.list, b.list)
	case KindOpaque:
		x, errX := json.Marshal(a.opaque)
		y, errY := json.Marshal(b.opaque)
		return errX == nil && errY == nil && string(x) == string(y)
	}
	return true
}

// Display renders the answer for humans.
func (a Answer) Display() string {
	switch a.kind {
	case KindString:
		return a.str
	case KindNumber:
		return strconv.FormatFloat(a.num, 'f', -1, 64)
	case KindList:
		return strings.Join(a.list, ", ")
	case KindOpaque:
		if b, err := json.Marshal(a.opaque); err == nil {
			return string(b)
		}
		return fmt.Sprintf("%v", a.opaque)
	}
	return ""
}

// MarshalJSON encodes the plain payload.
func (a Answer) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Value())
}

// AnswerOf converts a plain decoded value (as produced by encoding/json or yaml)
// into an Answer. Strings, numbers, string slices and nil map to their variants;
// anything else becomes Opaque.
func AnswerOf(v any) Answer {
	switch x := v.(type) {
	case nil:
		return None()
	case Answer:
		return x
	case string:
		return String(x)
	case float64:
		return Number(x)
	case float32:
		return Number(float64(x))
	case int:
		return Number(float64(x))
	case int64:
		return Number(float64(x))
	case json.Number:
		if f, err := x.Float64(); err == nil {
			return Number(f)
		}
		return String(x.String())
	case []string:
		return List(x...)
	case []any:
		values := make([]string, 0, len(x))
		for _, item := range x {
			s, ok := item.(string)
			if !ok {
				return Opaque(v)
			}
			values = append(values, s)
		}
		return List(values...)
	}
	return Opaque(v)
}
