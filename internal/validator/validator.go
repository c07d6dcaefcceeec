package validator

import (
	"fmt"
	"strings"

	"github.com/aretw0/onboard/pkg/domain"
)

// Issue is a single finding about a flow definition.
type Issue struct {
	StepID  string `json:"step_id,omitempty"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	if i.StepID == "" {
		return i.Message
	}
	return fmt.Sprintf("step %q: %s", i.StepID, i.Message)
}

// Report collects the findings of ValidateFlow. Errors make the flow unusable;
// warnings describe flows that work but are probably not what the author meant.
type Report struct {
	Errors   []Issue `json:"errors,omitempty"`
	Warnings []Issue `json:"warnings,omitempty"`
}

// OK reports whether the flow has no errors.
func (r *Report) OK() bool { return len(r.Errors) == 0 }

// Err returns the report as an error when it has errors, nil otherwise.
func (r *Report) Err() error {
	if r.OK() {
		return nil
	}
	return r
}

func (r *Report) Error() string {
	lines := make([]string, len(r.Errors))
	for i, issue := range r.Errors {
		lines[i] = issue.String()
	}
	return fmt.Sprintf("found %d errors:\n- %s", len(r.Errors), strings.Join(lines, "\n- "))
}

func (r *Report) errorf(stepID, format string, args ...any) {
	r.Errors = append(r.Errors, Issue{StepID: stepID, Message: fmt.Sprintf(format, args...)})
}

func (r *Report) warnf(stepID, format string, args ...any) {
	r.Warnings = append(r.Warnings, Issue{StepID: stepID, Message: fmt.Sprintf(format, args...)})
}

// ValidateFlow checks step definitions for problems the engine cannot recover
// from at runtime: duplicate ids make the answer map lossy, unknown types have
// no completeness rule, and duplicate option values are indistinguishable.
func ValidateFlow(steps []domain.Step) *Report {
	report := &Report{}
	if len(steps) == 0 {
		report.errorf("", "flow has no steps")
		return report
	}

	seen := make(map[string]int, len(steps))
	for i, step := range steps {
		if step.ID == "" {
			report.errorf("", "step #%d has no id", i+1)
		} else if first, dup := seen[step.ID]; dup {
			report.errorf(step.ID, "duplicate id (first used by step #%d)", first+1)
		} else {
			seen[step.ID] = i
		}

		if !step.Type.Valid() {
			report.errorf(step.ID, "unknown type %q", step.Type)
			continue
		}

		if step.Type.IsChoice() {
			checkOptions(report, step)
			continue
		}
		if len(step.Options) > 0 {
			report.warnf(step.ID, "options are ignored on %s steps", step.Type)
		}
	}
	return report
}

func checkOptions(report *Report, step domain.Step) {
	if len(step.Options) == 0 {
		if step.Required() {
			report.warnf(step.ID, "required %s step has no options and can never be completed", step.Type)
		}
		return
	}
	values := make(map[string]bool, len(step.Options))
	for i, opt := range step.Options {
		if opt.Value == "" {
			report.errorf(step.ID, "option #%d has no value", i+1)
			continue
		}
		if values[opt.Value] {
			report.errorf(step.ID, "duplicate option value %q", opt.Value)
		}
		values[opt.Value] = true
		if opt.Label == "" {
			report.warnf(step.ID, "option %q has no label", opt.Value)
		}
	}
}
