package domain

import (
	"slices"
	"unicode/utf8"
)

// StepType selects the input widget and the completeness rule of a step.
type StepType string

const (
	StepSingleChoice StepType = "single-choice"
	StepMultiChoice  StepType = "multi-choice"
	StepTextInput    StepType = "text-input"
	StepNumberInput  StepType = "number-input"
	StepCustom       StepType = "custom"
)

// Valid reports whether t is one of the known step types.
func (t StepType) Valid() bool {
	switch t {
	case StepSingleChoice, StepMultiChoice, StepTextInput, StepNumberInput, StepCustom:
		return true
	}
	return false
}

// IsChoice reports whether the step picks from its Options.
func (t StepType) IsChoice() bool {
	return t == StepSingleChoice || t == StepMultiChoice
}

const (
	DefaultTextPlaceholder   = "Enter your answer..."
	DefaultNumberPlaceholder = "Enter a number..."
)

// Option is one selectable entry of a choice step.
type Option struct {
	Value       string `json:"value"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
}

// DefaultGlyph stands in for icons a terminal cannot print as-is.
const DefaultGlyph = "•"

// Glyph returns the icon when it is a short symbol such as an emoji, and
// DefaultGlyph for empty icons or icon names like "user".
func (o Option) Glyph() string {
	if o.Icon == "" || utf8.RuneCountInString(o.Icon) > 2 {
		return DefaultGlyph
	}
	return o.Icon
}

// ValidateFunc is a side-effect free predicate over a candidate answer.
// A nil return accepts the candidate; the error text is shown to the user otherwise.
type ValidateFunc func(Answer) error

// Step is an immutable step definition supplied when a flow is built.
//
// Steps are required unless Optional is set, so the zero value of a Step
// matches the documented default of `required: true`.
type Step struct {
	ID          string       `json:"id"`
	Type        StepType     `json:"type"`
	Title       string       `json:"title,omitempty"`
	Subtitle    string       `json:"subtitle,omitempty"`
	Placeholder string       `json:"placeholder,omitempty"`
	Options     []Option     `json:"options,omitempty"`
	Optional    bool         `json:"optional,omitempty"`
	Component   string       `json:"component,omitempty"` // Renderer hint for custom steps.
	Validate    ValidateFunc `json:"-"`
}

// Required reports whether the completeness rule applies when advancing.
func (s Step) Required() bool {
	return !s.Optional
}

// HasOption reports whether value is one of the step's option values.
func (s Step) HasOption(value string) bool {
	_, ok := s.Option(value)
	return ok
}

// Option looks up an option by value.
func (s Step) Option(value string) (Option, bool) {
	for _, o := range s.Options {
		if o.Value == value {
			return o, true
		}
	}
	return Option{}, false
}

// CloneSteps copies a step list together with each step's options, so the
// copy shares no backing arrays with the input.
func CloneSteps(steps []Step) []Step {
	if steps == nil {
		return nil
	}
	out := make([]Step, len(steps))
	for i, s := range steps {
		s.Options = slices.Clone(s.Options)
		out[i] = s
	}
	return out
}

// PlaceholderText returns the placeholder hint, falling back to the per-type default.
func (s Step) PlaceholderText() string {
	if s.Placeholder != "" {
		return s.Placeholder
	}
	switch s.Type {
	case StepTextInput:
		return DefaultTextPlaceholder
	case StepNumberInput:
		return DefaultNumberPlaceholder
	}
	return ""
}

// Theme is the styling bundle of a flow. The engine passes it through unexamined.
type Theme struct {
	PrimaryColor    string `json:"primary_color,omitempty" mapstructure:"primary_color"`
	BackgroundColor string `json:"background_color,omitempty" mapstructure:"background_color"`
	CardColor       string `json:"card_color,omitempty" mapstructure:"card_color"`
	TextColor       string `json:"text_color,omitempty" mapstructure:"text_color"`
	ButtonColor     string `json:"button_color,omitempty" mapstructure:"button_color"`
	BorderRadius    int    `json:"border_radius,omitempty" mapstructure:"border_radius"`
	ContinueLabel   string `json:"continue_label,omitempty" mapstructure:"continue_label"`
}

// DefaultContinueLabel is shown on the advance control when the theme sets none.
const DefaultContinueLabel = "Continue"

// ButtonLabel returns the advance control label.
func (t Theme) ButtonLabel() string {
	if t.ContinueLabel != "" {
		return t.ContinueLabel
	}
	return DefaultContinueLabel
}

// Flow is a named, ordered list of steps.
type Flow struct {
	Name        string `json:"name"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Steps       []Step `json:"steps"`
	Theme       Theme  `json:"theme,omitempty"`
}

// Step returns the step with the given id.
func (f Flow) Step(id string) (Step, bool) {
	for _, s := range f.Steps {
		if s.ID == id {
			return s, true
		}
	}
	return Step{}, false
}
