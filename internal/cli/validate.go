package cli

import (
	"fmt"
	"io"

	"github.com/aretw0/onboard/internal/validator"
	"github.com/aretw0/onboard/pkg/domain"
)

// Validate loads a flow and reports every definition problem. Warnings are
// printed to w; errors are returned as a *validator.Report.
func Validate(w io.Writer, target, dir string) (domain.Flow, error) {
	flow, err := LoadFlow(target, dir)
	if err != nil {
		return domain.Flow{}, err
	}
	if len(flow.Steps) == 0 {
		return flow, domain.ErrEmptyFlow
	}

	report := validator.ValidateFlow(flow.Steps)
	for _, warn := range report.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warn)
	}
	return flow, report.Err()
}
