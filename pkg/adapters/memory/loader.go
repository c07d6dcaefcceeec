package memory

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/aretw0/onboard/pkg/domain"
)

// Loader implements ports.FlowLoader using an in-memory map.
type Loader struct {
	flows map[string][]byte
}

// NewLoader creates a new Loader with the provided raw documents (YAML or JSON).
func NewLoader(data map[string]string) *Loader {
	flows := make(map[string][]byte, len(data))
	for k, v := range data {
		flows[k] = []byte(v)
	}
	return &Loader{
		flows: flows,
	}
}

// NewFromFlows creates a new Loader from domain flows.
// Validators attached to steps are not serializable and are dropped.
func NewFromFlows(flows ...domain.Flow) (*Loader, error) {
	data := make(map[string][]byte, len(flows))
	for _, f := range flows {
		if f.Name == "" {
			return nil, fmt.Errorf("flow missing name")
		}
		bytes, err := json.Marshal(f)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal flow %s: %w", f.Name, err)
		}
		data[f.Name] = bytes
	}
	return &Loader{flows: data}, nil
}

// GetFlow retrieves the raw document of a flow by name.
func (l *Loader) GetFlow(name string) ([]byte, error) {
	content, ok := l.flows[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrFlowNotFound, name)
	}
	return content, nil
}

// ListFlows returns all available flow names.
func (l *Loader) ListFlows() ([]string, error) {
	keys := make([]string, 0, len(l.flows))
	for k := range l.flows {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
