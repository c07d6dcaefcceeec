package domain

// EventType defines the category of a flow event.
type EventType string

const (
	EventAdvanced  EventType = "advanced"
	EventBack      EventType = "back"
	EventCompleted EventType = "completed"
)

// Event is the successful outcome of Advance or Back.
// Answers is only set for EventCompleted.
type Event struct {
	Type    EventType `json:"type"`
	Index   int       `json:"index"`
	Answers Answers   `json:"answers,omitzero"`
}

// StepEvent reports that a different step became current.
type StepEvent struct {
	Index int  `json:"index"`
	Step  Step `json:"step"`
}

// LifecycleHooks are the output events of a flow. Hooks run synchronously
// on the goroutine that drove the transition.
type LifecycleHooks struct {
	OnStepChanged      func(StepEvent)
	OnValidationFailed func(*ValidationError)
	OnCompleted        func(Answers)
}

// MergeHooks chains several hook sets, invoking them in order.
func MergeHooks(hooks ...LifecycleHooks) LifecycleHooks {
	var merged LifecycleHooks
	for _, h := range hooks {
		merged.OnStepChanged = chain(merged.OnStepChanged, h.OnStepChanged)
		merged.OnValidationFailed = chain(merged.OnValidationFailed, h.OnValidationFailed)
		merged.OnCompleted = chain(merged.OnCompleted, h.OnCompleted)
	}
	return merged
}

func chain[T any](a, b func(T)) func(T) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(v T) {
		a(v)
		b(v)
	}
}
