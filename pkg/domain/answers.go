package domain

import (
	"encoding/json"
	"maps"
	"slices"
)

// Answers is an immutable snapshot of committed answers keyed by step id.
// Every write returns a new snapshot; previously returned values never change.
type Answers struct {
	m map[string]Answer
}

// NewAnswers builds a snapshot from the given entries.
func NewAnswers(entries map[string]Answer) Answers {
	return Answers{m: maps.Clone(entries)}
}

// With returns a copy of the snapshot with id set to a.
func (s Answers) With(id string, a Answer) Answers {
	next := make(map[string]Answer, len(s.m)+1)
	maps.Copy(next, s.m)
	next[id] = a
	return Answers{m: next}
}

// Get returns the answer stored for id.
func (s Answers) Get(id string) (Answer, bool) {
	a, ok := s.m[id]
	return a, ok
}

// Has reports whether id has a committed answer.
func (s Answers) Has(id string) bool {
	_, ok := s.m[id]
	return ok
}

// Len returns the number of committed answers.
func (s Answers) Len() int { return len(s.m) }

// IDs returns the step ids with an answer, sorted.
func (s Answers) IDs() []string {
	return slices.Sorted(maps.Keys(s.m))
}

// Map returns a fresh plain map of the answers.
func (s Answers) Map() map[string]any {
	out := make(map[string]any, len(s.m))
	for id, a := range s.m {
		out[id] = a.Value()
	}
	return out
}

// MarshalJSON encodes the snapshot as a JSON object.
func (s Answers) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Map())
}
