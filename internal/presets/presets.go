// Package presets bundles ready-made onboarding flows.
package presets

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/aretw0/onboard/pkg/domain"
)

//go:embed flows/*.yaml
var flowsFS embed.FS

// Loader implements ports.FlowLoader over the embedded presets.
type Loader struct{}

// NewLoader returns a loader for the bundled flows.
func NewLoader() *Loader {
	return &Loader{}
}

// GetFlow returns the YAML document of a preset.
func (Loader) GetFlow(name string) ([]byte, error) {
	data, err := fs.ReadFile(flowsFS, path.Join("flows", name+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrFlowNotFound, name)
	}
	return data, nil
}

// ListFlows returns the preset names, sorted.
func (Loader) ListFlows() ([]string, error) {
	entries, err := fs.ReadDir(flowsFS, "flows")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names, nil
}

// Names is a convenience wrapper around ListFlows.
func Names() []string {
	names, _ := Loader{}.ListFlows()
	return names
}

// Has reports whether name is a bundled preset.
func Has(name string) bool {
	_, err := Loader{}.GetFlow(name)
	return err == nil
}
