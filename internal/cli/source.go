package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/onboard/internal/compiler"
	"github.com/aretw0/onboard/internal/presets"
	"github.com/aretw0/onboard/pkg/adapters/file"
	"github.com/aretw0/onboard/pkg/domain"
	"github.com/aretw0/onboard/pkg/ports"
)

// ResolveSource locates a flow. With dir set, target is a flow name inside
// dir. Otherwise target is either a path to a flow file or a preset name;
// an existing file wins over a preset of the same name.
func ResolveSource(target, dir string) (ports.FlowLoader, string, error) {
	if target == "" {
		return nil, "", errors.New("no flow given: pass a flow file or one of the presets (" + strings.Join(presets.Names(), ", ") + ")")
	}
	if dir != "" {
		return file.NewLoader(dir), target, nil
	}

	if info, err := os.Stat(target); err == nil && !info.IsDir() {
		base := filepath.Base(target)
		ext := filepath.Ext(base)
		switch ext {
		case ".yaml", ".yml", ".json":
		default:
			return nil, "", fmt.Errorf("unsupported flow file %q: expected .yaml, .yml or .json", target)
		}
		return file.NewLoader(filepath.Dir(target)), strings.TrimSuffix(base, ext), nil
	}

	if presets.Has(target) {
		return presets.NewLoader(), target, nil
	}
	return nil, "", fmt.Errorf("%w: %q is neither a flow file nor a preset (%s)",
		domain.ErrFlowNotFound, target, strings.Join(presets.Names(), ", "))
}

// LoadFlow resolves and parses a flow. Nameless flows take their file or preset name.
func LoadFlow(target, dir string) (domain.Flow, error) {
	loader, name, err := ResolveSource(target, dir)
	if err != nil {
		return domain.Flow{}, err
	}
	data, err := loader.GetFlow(name)
	if err != nil {
		return domain.Flow{}, err
	}
	flow, err := compiler.NewParser().Parse(data)
	if err != nil {
		return domain.Flow{}, fmt.Errorf("%s: %w", name, err)
	}
	if flow.Name == "" {
		flow.Name = name
	}
	return flow, nil
}
