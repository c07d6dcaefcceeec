package domain

// View describes what a renderer should display for the current position.
type View struct {
	Flow       string         `json:"flow"`
	Title      string         `json:"title,omitempty"`
	Index      int            `json:"index"`
	Total      int            `json:"total"`
	Progress   float64        `json:"progress"`
	Status     Status         `json:"status"`
	Step       *Step          `json:"step,omitempty"`
	Candidate  any            `json:"candidate,omitempty"`
	CanAdvance bool           `json:"can_advance"`
	CanGoBack  bool           `json:"can_go_back"`
	Button     string         `json:"button,omitempty"`
	Error      string         `json:"error,omitempty"`
	Answers    map[string]any `json:"answers,omitempty"`
	Theme      *Theme         `json:"theme,omitempty"`
}

// Completed reports whether the view describes a finished flow.
func (v View) Completed() bool {
	return v.Status == StatusCompleted
}
