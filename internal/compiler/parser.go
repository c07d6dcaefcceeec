package compiler

import (
	"fmt"

	"github.com/aretw0/onboard/pkg/domain"
	"github.com/aretw0/onboard/pkg/schema"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Parser converts flow documents (YAML or JSON) into domain flows.
type Parser struct{}

// NewParser creates a new parser instance.
func NewParser() *Parser {
	return &Parser{}
}

type flowDocument struct {
	Name        string         `mapstructure:"name"`
	Title       string         `mapstructure:"title"`
	Description string         `mapstructure:"description"`
	Theme       domain.Theme   `mapstructure:"theme"`
	Steps       []stepDocument `mapstructure:"steps"`
}

type stepDocument struct {
	ID          string           `mapstructure:"id"`
	Type        string           `mapstructure:"type"`
	Title       string           `mapstructure:"title"`
	Subtitle    string           `mapstructure:"subtitle"`
	Placeholder string           `mapstructure:"placeholder"`
	Component   string           `mapstructure:"component"`
	Required    *bool            `mapstructure:"required"`
	Optional    bool             `mapstructure:"optional"`
	Options     []optionDocument `mapstructure:"options"`
	Validation  *schema.Spec     `mapstructure:"validation"`
}

type optionDocument struct {
	Value       string `mapstructure:"value"`
	Label       string `mapstructure:"label"`
	Description string `mapstructure:"description"`
	Icon        string `mapstructure:"icon"`
}

// Parse decodes a flow document. YAML is a superset of JSON, so both are accepted.
// Unknown keys are rejected to catch typos such as `require: false`.
func (p *Parser) Parse(data []byte) (domain.Flow, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return domain.Flow{}, fmt.Errorf("failed to parse flow: %w", err)
	}
	if raw == nil {
		return domain.Flow{}, fmt.Errorf("failed to parse flow: empty document")
	}

	var doc flowDocument
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &doc,
	})
	if err != nil {
		return domain.Flow{}, err
	}
	if err := decoder.Decode(raw); err != nil {
		return domain.Flow{}, fmt.Errorf("failed to decode flow: %w", err)
	}

	return doc.toDomain()
}

func (d flowDocument) toDomain() (domain.Flow, error) {
	flow := domain.Flow{
		Name:        d.Name,
		Title:       d.Title,
		Description: d.Description,
		Theme:       d.Theme,
		Steps:       make([]domain.Step, 0, len(d.Steps)),
	}

	var errs []error
	for i, sd := range d.Steps {
		step := domain.Step{
			ID:          sd.ID,
			Type:        domain.StepType(sd.Type),
			Title:       sd.Title,
			Subtitle:    sd.Subtitle,
			Placeholder: sd.Placeholder,
			Component:   sd.Component,
			Optional:    sd.Optional || (sd.Required != nil && !*sd.Required),
		}
		for _, od := range sd.Options {
			step.Options = append(step.Options, domain.Option(od))
		}
		if sd.Validation != nil {
			validate, err := schema.Compile(*sd.Validation)
			if err != nil {
				errs = append(errs, fmt.Errorf("step #%d %q: validation: %w", i+1, sd.ID, err))
			}
			if step.Optional {
				validate = schema.SkipEmpty(validate)
			}
			step.Validate = validate
		}
		flow.Steps = append(flow.Steps, step)
	}

	if len(errs) > 0 {
		return domain.Flow{}, &schema.AggregateError{Errors: errs}
	}
	return flow, nil
}
