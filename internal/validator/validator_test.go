package validator_test

import (
	"testing"

	"github.com/aretw0/onboard/internal/validator"
	"github.com/aretw0/onboard/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFlow_Valid(t *testing.T) {
	report := validator.ValidateFlow([]domain.Step{
		{ID: "goal", Type: domain.StepSingleChoice, Options: []domain.Option{{Value: "lose", Label: "Lose weight"}}},
		{ID: "name", Type: domain.StepTextInput},
	})
	assert.True(t, report.OK())
	assert.Empty(t, report.Warnings)
	assert.NoError(t, report.Err())
}

func TestValidateFlow_Errors(t *testing.T) {
	report := validator.ValidateFlow([]domain.Step{
		{ID: "a", Type: domain.StepTextInput},
		{ID: "a", Type: domain.StepTextInput},
		{ID: "", Type: domain.StepCustom},
		{ID: "b", Type: "slider"},
		{ID: "c", Type: domain.StepMultiChoice, Options: []domain.Option{
			{Value: "x", Label: "X"},
			{Value: "x", Label: "X again"},
			{Label: "no value"},
		}},
	})
	require.False(t, report.OK())
	assert.Len(t, report.Errors, 5)
	assert.Contains(t, report.Error(), `step "a": duplicate id`)
	assert.Contains(t, report.Error(), `unknown type "slider"`)
}

func TestValidateFlow_Warnings(t *testing.T) {
	report := validator.ValidateFlow([]domain.Step{
		{ID: "gate", Type: domain.StepSingleChoice},
		{ID: "info", Type: domain.StepSingleChoice, Optional: true},
		{ID: "name", Type: domain.StepTextInput, Options: []domain.Option{{Value: "x", Label: "X"}}},
	})
	assert.True(t, report.OK())
	require.Len(t, report.Warnings, 2)
	assert.Equal(t, "gate", report.Warnings[0].StepID)
	assert.Equal(t, "name", report.Warnings[1].StepID)
}

func TestValidateFlow_Empty(t *testing.T) {
	report := validator.ValidateFlow(nil)
	assert.False(t, report.OK())
}
